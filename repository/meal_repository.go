package repository

import (
	"context"
	"database/sql"
	"school-api/logger"
	"school-api/model"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// IMealRepository defines the contract for meal menu database operations.
type IMealRepository interface {
	GetAllMeals(ctx context.Context) ([]*model.Meal, error)
	GetMealByDate(ctx context.Context, date time.Time) (*model.Meal, error)
	CreateMeal(ctx context.Context, meal *model.Meal) error
	UpdateMeal(ctx context.Context, meal *model.Meal) error
}

type MealRepository struct {
	DB *sql.DB
}

func NewMealRepository(db *sql.DB) *MealRepository {
	return &MealRepository{DB: db}
}

func scanMeal(row rowScanner) (*model.Meal, error) {
	meal := &model.Meal{}
	err := row.Scan(&meal.ID, &meal.Date, pq.Array(&meal.Breakfast), pq.Array(&meal.Lunch),
		pq.Array(&meal.Dinner), &meal.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return meal, nil
}

func (r *MealRepository) GetAllMeals(ctx context.Context) ([]*model.Meal, error) {
	log := logger.Log
	log.Info("Executing query to get all meals")

	query := `SELECT id, date, breakfast, lunch, dinner, updated_at FROM meals ORDER BY date`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for all meals")
		return nil, err
	}
	defer rows.Close()

	var meals []*model.Meal
	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan meal row")
			return nil, err
		}
		meals = append(meals, meal)
	}
	return meals, rows.Err()
}

// GetMealByDate returns sql.ErrNoRows when no menu is published for date.
func (r *MealRepository) GetMealByDate(ctx context.Context, date time.Time) (*model.Meal, error) {
	query := `SELECT id, date, breakfast, lunch, dinner, updated_at FROM meals WHERE date = $1`
	meal, err := scanMeal(r.DB.QueryRowContext(ctx, query, date.Format(time.DateOnly)))
	if err != nil && err != sql.ErrNoRows {
		logger.Log.WithError(err).WithField("date", date.Format(time.DateOnly)).Error("Failed to execute get meal by date query")
	}
	return meal, err
}

func (r *MealRepository) CreateMeal(ctx context.Context, meal *model.Meal) error {
	log := logger.Log.WithField("date", meal.Date.Format(time.DateOnly))
	log.Info("Executing query to create a meal")

	if meal.ID == uuid.Nil {
		meal.ID = uuid.New()
	}
	query := `INSERT INTO meals (id, date, breakfast, lunch, dinner) VALUES ($1, $2, $3, $4, $5) RETURNING updated_at`
	err := r.DB.QueryRowContext(ctx, query, meal.ID, meal.Date.Format(time.DateOnly), pq.Array(meal.Breakfast),
		pq.Array(meal.Lunch), pq.Array(meal.Dinner)).Scan(&meal.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create meal query")
		return translateError(err)
	}
	return nil
}

func (r *MealRepository) UpdateMeal(ctx context.Context, meal *model.Meal) error {
	log := logger.Log.WithField("meal_id", meal.ID)
	log.Info("Executing query to update a meal")

	query := `UPDATE meals SET breakfast = $2, lunch = $3, dinner = $4, updated_at = NOW() WHERE id = $1 RETURNING updated_at`
	err := r.DB.QueryRowContext(ctx, query, meal.ID, pq.Array(meal.Breakfast), pq.Array(meal.Lunch),
		pq.Array(meal.Dinner)).Scan(&meal.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute update meal query")
		return err
	}
	return nil
}
