package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrDuplicate is returned when an insert or update violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

// ErrMissingReference is returned when a foreign key points at a row that does not exist.
var ErrMissingReference = errors.New("referenced record does not exist")

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case uniqueViolation:
		return ErrDuplicate
	case foreignKeyViolation:
		return ErrMissingReference
	}
	return err
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
