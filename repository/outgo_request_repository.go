package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"school-api/logger"
	"school-api/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ErrStatusChanged is returned when a conditional status update finds the request in another state.
var ErrStatusChanged = errors.New("outgo request status changed concurrently")

// IOutgoRequestRepository defines the contract for outgo request database operations.
type IOutgoRequestRepository interface {
	CreateRequest(ctx context.Context, req *model.OutgoRequest) error
	UpdateRequest(ctx context.Context, req *model.OutgoRequest) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OutgoRequestStatus) error
	GetRequestByID(ctx context.Context, id uuid.UUID) (*model.OutgoRequest, error)
	GetRequestsByApplier(ctx context.Context, userID uuid.UUID) ([]*model.OutgoRequest, error)
}

const outgoColumns = `id, approver_id, reason, detail_reason, start_at, end_at, status, created_at`

type OutgoRequestRepository struct {
	DB *sql.DB
}

func NewOutgoRequestRepository(db *sql.DB) *OutgoRequestRepository {
	return &OutgoRequestRepository{DB: db}
}

func scanOutgo(row rowScanner) (*model.OutgoRequest, error) {
	req := &model.OutgoRequest{}
	err := row.Scan(&req.ID, &req.Approver, &req.Reason, &req.DetailReason,
		&req.Duration.Start, &req.Duration.End, &req.Status, &req.CreatedAt)
	if err != nil {
		return nil, err
	}
	return req, nil
}

// CreateRequest stores the request and its applier list in one transaction.
func (r *OutgoRequestRepository) CreateRequest(ctx context.Context, req *model.OutgoRequest) error {
	log := logger.Log.WithFields(logrus.Fields{
		"approver_id": req.Approver,
		"appliers":    len(req.Applier),
	})
	log.Info("Executing query to create an outgo request")

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO outgo_requests (id, approver_id, reason, detail_reason, start_at, end_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`
	err = tx.QueryRowContext(ctx, query, req.ID, req.Approver, req.Reason, req.DetailReason,
		req.Duration.Start, req.Duration.End, req.Status).Scan(&req.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create outgo request query")
		return err
	}

	if err := insertAppliers(ctx, tx, req); err != nil {
		log.WithError(err).Error("Failed to insert outgo request appliers")
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// UpdateRequest rewrites the editable fields and the applier list while the request is still applied.
func (r *OutgoRequestRepository) UpdateRequest(ctx context.Context, req *model.OutgoRequest) error {
	log := logger.Log.WithField("outgo_request_id", req.ID)
	log.Info("Executing query to update an outgo request")

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE outgo_requests SET approver_id = $2, reason = $3, detail_reason = $4, start_at = $5, end_at = $6
		WHERE id = $1 AND status = $7`
	res, err := tx.ExecContext(ctx, query, req.ID, req.Approver, req.Reason, req.DetailReason,
		req.Duration.Start, req.Duration.End, model.OutgoApplied)
	if err != nil {
		log.WithError(err).Error("Failed to execute update outgo request query")
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrStatusChanged
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM outgo_request_appliers WHERE request_id = $1`, req.ID); err != nil {
		log.WithError(err).Error("Failed to clear outgo request appliers")
		return err
	}
	if err := insertAppliers(ctx, tx, req); err != nil {
		log.WithError(err).Error("Failed to insert outgo request appliers")
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// UpdateStatus moves a request from one status to another only if it is still in from.
func (r *OutgoRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OutgoRequestStatus) error {
	log := logger.Log.WithFields(logrus.Fields{
		"outgo_request_id": id,
		"from":             from,
		"to":               to,
	})
	log.Info("Executing query to update outgo request status")

	res, err := r.DB.ExecContext(ctx, `UPDATE outgo_requests SET status = $3 WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		log.WithError(err).Error("Failed to execute update outgo request status query")
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStatusChanged
	}
	return nil
}

// GetRequestByID returns sql.ErrNoRows when the request does not exist.
func (r *OutgoRequestRepository) GetRequestByID(ctx context.Context, id uuid.UUID) (*model.OutgoRequest, error) {
	log := logger.Log.WithField("outgo_request_id", id)

	req, err := scanOutgo(r.DB.QueryRowContext(ctx, `SELECT `+outgoColumns+` FROM outgo_requests WHERE id = $1`, id))
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get outgo request query")
		}
		return nil, err
	}

	if err := r.loadAppliers(ctx, []*model.OutgoRequest{req}); err != nil {
		log.WithError(err).Error("Failed to load outgo request appliers")
		return nil, err
	}
	return req, nil
}

func (r *OutgoRequestRepository) GetRequestsByApplier(ctx context.Context, userID uuid.UUID) ([]*model.OutgoRequest, error) {
	log := logger.Log.WithField("applier_id", userID)
	log.Info("Executing query to get outgo requests by applier")

	query := `SELECT ` + outgoColumns + ` FROM outgo_requests
		WHERE id IN (SELECT request_id FROM outgo_request_appliers WHERE user_id = $1)
		ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for outgo requests by applier")
		return nil, err
	}
	defer rows.Close()

	requests := []*model.OutgoRequest{}
	for rows.Next() {
		req, err := scanOutgo(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan outgo request row")
			return nil, err
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadAppliers(ctx, requests); err != nil {
		log.WithError(err).Error("Failed to load outgo request appliers")
		return nil, err
	}
	return requests, nil
}

func (r *OutgoRequestRepository) loadAppliers(ctx context.Context, requests []*model.OutgoRequest) error {
	if len(requests) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*model.OutgoRequest, len(requests))
	ids := make([]uuid.UUID, 0, len(requests))
	for _, req := range requests {
		byID[req.ID] = req
		ids = append(ids, req.ID)
	}

	query := `SELECT request_id, user_id FROM outgo_request_appliers
		WHERE request_id = ANY($1::uuid[]) ORDER BY request_id, position`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(idStrings(ids)))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var requestID, userID uuid.UUID
		if err := rows.Scan(&requestID, &userID); err != nil {
			return err
		}
		if req, ok := byID[requestID]; ok {
			req.Applier = append(req.Applier, userID)
		}
	}
	return rows.Err()
}

func insertAppliers(ctx context.Context, tx *sql.Tx, req *model.OutgoRequest) error {
	for i, userID := range req.Applier {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO outgo_request_appliers (request_id, user_id, position) VALUES ($1, $2, $3)`,
			req.ID, userID, i)
		if err != nil {
			return translateError(err)
		}
	}
	return nil
}
