package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"school-api/model"
	"school-api/repository"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMealService_GetMealByDate(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	meal := &model.Meal{ID: uuid.New(), Date: date, Breakfast: []string{"toast"}, Lunch: []string{"rice"}, Dinner: []string{}}

	t.Run("cache hit skips the database", func(t *testing.T) {
		repo, cache := new(mockMealRepo), new(mockCache)
		data, err := json.Marshal(meal)
		require.NoError(t, err)
		cache.On("Get", ctx, "meal:2026-10-19").Return(redis.NewStringResult(string(data), nil)).Once()

		got, err := NewMealService(repo, cache, time.Minute).GetMealByDate(ctx, date)

		require.NoError(t, err)
		assert.Equal(t, meal.ID, got.ID)
		assert.Equal(t, meal.Breakfast, got.Breakfast)
		repo.AssertNotCalled(t, "GetMealByDate", mock.Anything, mock.Anything)
	})

	t.Run("cache miss populates the cache", func(t *testing.T) {
		repo, cache := new(mockMealRepo), new(mockCache)
		cache.On("Get", ctx, "meal:2026-10-19").Return(redis.NewStringResult("", redis.Nil)).Once()
		repo.On("GetMealByDate", ctx, date).Return(meal, nil).Once()
		cache.On("Set", ctx, "meal:2026-10-19", mock.Anything, time.Minute).Return(redis.NewStatusResult("OK", nil)).Once()

		got, err := NewMealService(repo, cache, time.Minute).GetMealByDate(ctx, date)

		require.NoError(t, err)
		assert.Equal(t, meal, got)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("not published", func(t *testing.T) {
		repo := new(mockMealRepo)
		repo.On("GetMealByDate", ctx, date).Return(nil, sql.ErrNoRows).Once()

		_, err := NewMealService(repo, nil, time.Minute).GetMealByDate(ctx, date)

		assert.ErrorIs(t, err, ErrMealNotFound)
	})
}

func TestMealService_CreateMeal(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	t.Run("invalidates cached reads", func(t *testing.T) {
		repo, cache := new(mockMealRepo), new(mockCache)
		repo.On("CreateMeal", ctx, mock.AnythingOfType("*model.Meal")).Return(nil).Once()
		cache.On("Del", ctx, []string{"meals:all", "meal:2026-10-19"}).Return(redis.NewIntResult(2, nil)).Once()

		meal, err := NewMealService(repo, cache, time.Minute).CreateMeal(ctx, model.MealRequest{
			Date:  date.Add(9 * time.Hour),
			Lunch: []string{"rice", "soup"},
		})

		require.NoError(t, err)
		assert.Equal(t, date, meal.Date)
		assert.Equal(t, []string{}, meal.Breakfast)
		assert.Equal(t, []string{"rice", "soup"}, meal.Lunch)
		cache.AssertExpectations(t)
	})

	t.Run("date already published", func(t *testing.T) {
		repo := new(mockMealRepo)
		repo.On("CreateMeal", ctx, mock.Anything).Return(repository.ErrDuplicate).Once()

		_, err := NewMealService(repo, nil, time.Minute).CreateMeal(ctx, model.MealRequest{Date: date})

		assert.ErrorIs(t, err, ErrMealExists)
	})
}

func TestMealService_EditMeal(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	repo := new(mockMealRepo)
	stored := &model.Meal{ID: uuid.New(), Date: date, Breakfast: []string{"toast"}, Lunch: []string{"rice"}, Dinner: []string{"noodles"}}
	repo.On("GetMealByDate", ctx, date).Return(stored, nil).Once()
	repo.On("UpdateMeal", ctx, stored).Return(nil).Once()

	dinner := []string{"curry"}
	meal, err := NewMealService(repo, nil, time.Minute).EditMeal(ctx, date, model.EditMealRequest{Dinner: &dinner})

	require.NoError(t, err)
	assert.Equal(t, []string{"toast"}, meal.Breakfast)
	assert.Equal(t, []string{"rice"}, meal.Lunch)
	assert.Equal(t, []string{"curry"}, meal.Dinner)
	repo.AssertExpectations(t)
}
