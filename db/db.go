package db

import (
	"database/sql"
	"fmt"
	"school-api/config"
	"school-api/logger"

	_ "github.com/lib/pq"
)

// ConnString builds the postgres URL used by both the pool and the migrator.
func ConnString(withPassword bool) string {
	cfg := config.AppConfig.Database
	password := cfg.Password
	if !withPassword {
		password = "***"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User, password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode)
}

func Connect() (*sql.DB, error) {
	logger.Log.WithField("connection", ConnString(false)).Info("Attempting to connect to the database")

	db, err := sql.Open("postgres", ConnString(true))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to open database connection")
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = db.Ping(); err != nil {
		logger.Log.WithError(err).Error("Failed to ping database")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Log.Info("Database connection established successfully")
	return db, nil
}
