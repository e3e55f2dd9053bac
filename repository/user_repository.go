package repository

import (
	"context"
	"database/sql"
	"school-api/logger"
	"school-api/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error)
	GetUsersByClass(ctx context.Context, grade, class int) ([]*model.User, error)
}

const userColumns = `id, username, password_hash, name, user_type, grade, class, serial, created_at`

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Name, &user.UserType,
		&user.Grade, &user.Class, &user.Serial, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	log := logger.Log.WithFields(logrus.Fields{
		"username":  user.Username,
		"user_type": user.UserType,
	})
	log.Info("Executing query to create a new user")

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	query := `INSERT INTO users (id, username, password_hash, name, user_type, grade, class, serial)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`
	err := r.DB.QueryRowContext(ctx, query, user.ID, user.Username, user.PasswordHash, user.Name,
		user.UserType, user.Grade, user.Class, user.Serial).Scan(&user.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create user query")
		return translateError(err)
	}
	return nil
}

// GetUserByID returns sql.ErrNoRows when the user does not exist.
func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if err != nil && err != sql.ErrNoRows {
		logger.Log.WithError(err).WithField("user_id", id).Error("Failed to execute get user by ID query")
	}
	return user, err
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, username))
	if err != nil && err != sql.ErrNoRows {
		logger.Log.WithError(err).WithField("username", username).Error("Failed to execute get user by username query")
	}
	return user, err
}

// GetUsersByIDs returns the users that exist among ids, in no particular order.
func (r *UserRepository) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	log := logger.Log.WithField("count", len(ids))
	log.Info("Executing query to get users by IDs")

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1::uuid[])`
	return r.queryUsers(ctx, log, query, pq.Array(idStrings(ids)))
}

// GetUsersByClass lists a homeroom ordered by serial number.
func (r *UserRepository) GetUsersByClass(ctx context.Context, grade, class int) ([]*model.User, error) {
	log := logger.Log.WithFields(logrus.Fields{"grade": grade, "class": class})
	log.Info("Executing query to get students of a class")

	query := `SELECT ` + userColumns + ` FROM users WHERE user_type = 'S' AND grade = $1 AND class = $2 ORDER BY serial`
	return r.queryUsers(ctx, log, query, grade, class)
}

func (r *UserRepository) queryUsers(ctx context.Context, log *logrus.Entry, query string, args ...any) ([]*model.User, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute users query")
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan user row")
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
