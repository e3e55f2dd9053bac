package repository

import (
	"context"
	"database/sql"
	"school-api/logger"
	"school-api/model"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// IAttendanceLogRepository defines the contract for attendance log database operations.
type IAttendanceLogRepository interface {
	CreateLog(ctx context.Context, log *model.AttendanceLog) error
	GetLogByID(ctx context.Context, id uuid.UUID) (*model.AttendanceLog, error)
	GetLogsByDateForClass(ctx context.Context, date time.Time, grade, class int) ([]*model.AttendanceLog, error)
}

// Reads populate the student by joining users.
const attendanceLogSelect = `
	SELECT l.id, l.student_id, l.date, l.time, l.location, l.remark, l.created_at,
		u.id, u.username, u.password_hash, u.name, u.user_type, u.grade, u.class, u.serial, u.created_at
	FROM attendance_logs l
	JOIN users u ON u.id = l.student_id`

type AttendanceLogRepository struct {
	DB *sql.DB
}

func NewAttendanceLogRepository(db *sql.DB) *AttendanceLogRepository {
	return &AttendanceLogRepository{DB: db}
}

func scanAttendanceLog(row rowScanner) (*model.AttendanceLog, error) {
	l := &model.AttendanceLog{Student: &model.User{}}
	s := l.Student
	err := row.Scan(&l.ID, &l.StudentID, &l.Date, &l.Time, &l.Location, &l.Remark, &l.CreatedAt,
		&s.ID, &s.Username, &s.PasswordHash, &s.Name, &s.UserType, &s.Grade, &s.Class, &s.Serial, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *AttendanceLogRepository) CreateLog(ctx context.Context, l *model.AttendanceLog) error {
	log := logger.Log.WithFields(logrus.Fields{
		"student_id": l.StudentID,
		"location":   l.Location,
	})
	log.Info("Executing query to create an attendance log")

	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	query := `INSERT INTO attendance_logs (id, student_id, date, time, location, remark)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
	err := r.DB.QueryRowContext(ctx, query, l.ID, l.StudentID, l.Date.Format(time.DateOnly), l.Time,
		l.Location, l.Remark).Scan(&l.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create attendance log query")
		return err
	}
	return nil
}

func (r *AttendanceLogRepository) GetLogByID(ctx context.Context, id uuid.UUID) (*model.AttendanceLog, error) {
	l, err := scanAttendanceLog(r.DB.QueryRowContext(ctx, attendanceLogSelect+` WHERE l.id = $1`, id))
	if err != nil && err != sql.ErrNoRows {
		logger.Log.WithError(err).WithField("log_id", id).Error("Failed to execute get attendance log query")
	}
	return l, err
}

func (r *AttendanceLogRepository) GetLogsByDateForClass(ctx context.Context, date time.Time, grade, class int) ([]*model.AttendanceLog, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"date":  date.Format(time.DateOnly),
		"grade": grade,
		"class": class,
	})
	log.Info("Executing query to get attendance logs of a class")

	query := attendanceLogSelect + ` WHERE l.date = $1 AND u.grade = $2 AND u.class = $3 ORDER BY l.created_at`
	rows, err := r.DB.QueryContext(ctx, query, date.Format(time.DateOnly), grade, class)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for class attendance logs")
		return nil, err
	}
	defer rows.Close()

	var logs []*model.AttendanceLog
	for rows.Next() {
		l, err := scanAttendanceLog(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan attendance log row")
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
