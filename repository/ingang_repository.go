package repository

import (
	"context"
	"database/sql"
	"fmt"
	"school-api/logger"
	"school-api/model"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// IIngangRepository defines the contract for study-hall application database operations.
type IIngangRepository interface {
	GetAllApplications(ctx context.Context) ([]*model.IngangApplication, error)
	GetApplicationsByApplier(ctx context.Context, applierID uuid.UUID) ([]*model.IngangApplication, error)
	FindApplication(ctx context.Context, applierID uuid.UUID, date time.Time, slot int) (*model.IngangApplication, error)
	LockSlot(ctx context.Context, tx *sql.Tx, date time.Time, slot, grade, class int) error
	CountApplicationsForClass(ctx context.Context, tx *sql.Tx, date time.Time, slot, grade, class int) (int, error)
	CreateApplication(ctx context.Context, tx *sql.Tx, app *model.IngangApplication) error
	DeleteApplication(ctx context.Context, id uuid.UUID) error
}

const ingangColumns = `id, applier_id, date, time, created_at`

type IngangRepository struct {
	DB *sql.DB
}

func NewIngangRepository(db *sql.DB) *IngangRepository {
	return &IngangRepository{DB: db}
}

func scanIngang(row rowScanner) (*model.IngangApplication, error) {
	app := &model.IngangApplication{}
	if err := row.Scan(&app.ID, &app.ApplierID, &app.Date, &app.Time, &app.CreatedAt); err != nil {
		return nil, err
	}
	return app, nil
}

func (r *IngangRepository) GetAllApplications(ctx context.Context) ([]*model.IngangApplication, error) {
	log := logger.Log
	log.Info("Executing query to get all ingang applications")
	return r.queryApplications(ctx, log.WithField("scope", "all"),
		`SELECT `+ingangColumns+` FROM ingang_applications ORDER BY date DESC, time`)
}

func (r *IngangRepository) GetApplicationsByApplier(ctx context.Context, applierID uuid.UUID) ([]*model.IngangApplication, error) {
	log := logger.Log.WithField("applier_id", applierID)
	log.Info("Executing query to get ingang applications by applier")
	return r.queryApplications(ctx, log,
		`SELECT `+ingangColumns+` FROM ingang_applications WHERE applier_id = $1 ORDER BY date DESC, time`, applierID)
}

// FindApplication returns sql.ErrNoRows when the applier holds no seat for the slot.
func (r *IngangRepository) FindApplication(ctx context.Context, applierID uuid.UUID, date time.Time, slot int) (*model.IngangApplication, error) {
	query := `SELECT ` + ingangColumns + ` FROM ingang_applications WHERE applier_id = $1 AND date = $2 AND time = $3`
	app, err := scanIngang(r.DB.QueryRowContext(ctx, query, applierID, date.Format(time.DateOnly), slot))
	if err != nil && err != sql.ErrNoRows {
		logger.Log.WithError(err).WithField("applier_id", applierID).Error("Failed to execute find ingang application query")
	}
	return app, err
}

// LockSlot takes a transaction-scoped advisory lock on one class's seats for a slot.
// Concurrent appliers from the same class queue behind it until commit or rollback.
func (r *IngangRepository) LockSlot(ctx context.Context, tx *sql.Tx, date time.Time, slot, grade, class int) error {
	key := fmt.Sprintf("ingang:%s:%d:%d:%d", date.Format(time.DateOnly), slot, grade, class)
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		logger.Log.WithError(err).WithField("lock_key", key).Error("Failed to acquire ingang slot lock")
		return err
	}
	return nil
}

func (r *IngangRepository) CountApplicationsForClass(ctx context.Context, tx *sql.Tx, date time.Time, slot, grade, class int) (int, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"date":  date.Format(time.DateOnly),
		"time":  slot,
		"grade": grade,
		"class": class,
	})
	log.Info("Executing query to count ingang applications of a class")

	query := `SELECT COUNT(*) FROM ingang_applications a
		JOIN users u ON u.id = a.applier_id
		WHERE a.date = $1 AND a.time = $2 AND u.grade = $3 AND u.class = $4`
	var count int
	if err := tx.QueryRowContext(ctx, query, date.Format(time.DateOnly), slot, grade, class).Scan(&count); err != nil {
		log.WithError(err).Error("Failed to execute count ingang applications query")
		return 0, err
	}
	return count, nil
}

func (r *IngangRepository) CreateApplication(ctx context.Context, tx *sql.Tx, app *model.IngangApplication) error {
	log := logger.Log.WithFields(logrus.Fields{
		"applier_id": app.ApplierID,
		"time":       app.Time,
	})
	log.Info("Executing query to create an ingang application")

	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	query := `INSERT INTO ingang_applications (id, applier_id, date, time) VALUES ($1, $2, $3, $4) RETURNING created_at`
	err := tx.QueryRowContext(ctx, query, app.ID, app.ApplierID, app.Date.Format(time.DateOnly), app.Time).Scan(&app.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create ingang application query")
		return translateError(err)
	}
	return nil
}

func (r *IngangRepository) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	log := logger.Log.WithField("application_id", id)
	log.Info("Executing query to delete an ingang application")

	if _, err := r.DB.ExecContext(ctx, `DELETE FROM ingang_applications WHERE id = $1`, id); err != nil {
		log.WithError(err).Error("Failed to execute delete ingang application query")
		return err
	}
	return nil
}

func (r *IngangRepository) queryApplications(ctx context.Context, log *logrus.Entry, query string, args ...any) ([]*model.IngangApplication, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute ingang applications query")
		return nil, err
	}
	defer rows.Close()

	apps := []*model.IngangApplication{}
	for rows.Next() {
		app, err := scanIngang(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan ingang application row")
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}
