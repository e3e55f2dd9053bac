// file: service/meal_service.go

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"school-api/logger"
	"school-api/model"
	"school-api/repository"
	"time"
)

const allMealsCacheKey = "meals:all"

func mealCacheKey(date time.Time) string {
	return "meal:" + date.Format(time.DateOnly)
}

// MealService publishes daily menus and serves them cache-aside from Redis.
type MealService struct {
	repo     repository.IMealRepository
	cache    ICacheClient
	cacheTTL time.Duration
}

// NewMealService accepts a nil cache, in which case every read goes to the database.
func NewMealService(repo repository.IMealRepository, cache ICacheClient, cacheTTL time.Duration) *MealService {
	return &MealService{repo: repo, cache: cache, cacheTTL: cacheTTL}
}

func (s *MealService) ListMeals(ctx context.Context) ([]*model.Meal, error) {
	var meals []*model.Meal
	if s.cacheGet(ctx, allMealsCacheKey, &meals) {
		return meals, nil
	}

	meals, err := s.repo.GetAllMeals(ctx)
	if err != nil {
		return nil, err
	}
	if meals == nil {
		meals = []*model.Meal{}
	}
	s.cacheSet(ctx, allMealsCacheKey, meals)
	return meals, nil
}

func (s *MealService) GetMealByDate(ctx context.Context, date time.Time) (*model.Meal, error) {
	key := mealCacheKey(date)
	var cached model.Meal
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	meal, err := s.repo.GetMealByDate(ctx, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}
	s.cacheSet(ctx, key, meal)
	return meal, nil
}

func (s *MealService) CreateMeal(ctx context.Context, req model.MealRequest) (*model.Meal, error) {
	meal := &model.Meal{
		Date:      dateOnly(req.Date),
		Breakfast: nonNil(req.Breakfast),
		Lunch:     nonNil(req.Lunch),
		Dinner:    nonNil(req.Dinner),
	}
	if err := s.repo.CreateMeal(ctx, meal); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrMealExists
		}
		return nil, err
	}

	s.invalidate(ctx, meal.Date)
	return meal, nil
}

// EditMeal replaces only the menus present in req.
func (s *MealService) EditMeal(ctx context.Context, date time.Time, req model.EditMealRequest) (*model.Meal, error) {
	meal, err := s.repo.GetMealByDate(ctx, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}

	if req.Breakfast != nil {
		meal.Breakfast = nonNil(*req.Breakfast)
	}
	if req.Lunch != nil {
		meal.Lunch = nonNil(*req.Lunch)
	}
	if req.Dinner != nil {
		meal.Dinner = nonNil(*req.Dinner)
	}

	if err := s.repo.UpdateMeal(ctx, meal); err != nil {
		return nil, err
	}

	s.invalidate(ctx, date)
	return meal, nil
}

func (s *MealService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(cached), dst); err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("Discarding unreadable cache entry")
		return false
	}
	return true
}

func (s *MealService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("Failed to populate meal cache")
	}
}

func (s *MealService) invalidate(ctx context.Context, date time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, allMealsCacheKey, mealCacheKey(date)).Err(); err != nil {
		logger.Log.WithError(err).Warn("Failed to invalidate meal cache")
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
