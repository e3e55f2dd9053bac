package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"school-api/logger"
	"school-api/model"
	"school-api/repository"

	"github.com/sirupsen/logrus"
)

// IngangService books study-hall seats with a per-class ceiling.
type IngangService struct {
	db          *sql.DB
	repo        repository.IIngangRepository
	clock       Clock
	maxPerClass int
	ticketCount int
	timeSlots   []int
}

func NewIngangService(db *sql.DB, repo repository.IIngangRepository, clock Clock, maxPerClass, ticketCount int, timeSlots []int) *IngangService {
	return &IngangService{
		db:          db,
		repo:        repo,
		clock:       clock,
		maxPerClass: maxPerClass,
		ticketCount: ticketCount,
		timeSlots:   timeSlots,
	}
}

func (s *IngangService) Status() model.IngangStatus {
	return model.IngangStatus{
		TicketCount: s.ticketCount,
		MaxApplier:  s.maxPerClass,
		TimeSlots:   append([]int{}, s.timeSlots...),
	}
}

// TimeSlots lists the slot codes an application may name.
func (s *IngangService) TimeSlots() []int {
	return append([]int{}, s.timeSlots...)
}

// ListApplications returns every application to teachers and the caller's own to students.
func (s *IngangService) ListApplications(ctx context.Context, identity model.Identity) ([]*model.IngangApplication, error) {
	switch identity.Role {
	case model.RoleTeacher:
		return s.repo.GetAllApplications(ctx)
	case model.RoleStudent:
		return s.repo.GetApplicationsByApplier(ctx, identity.ID)
	}
	return nil, ErrPermissionDenied
}

// Apply books a seat for today's slot. The count and insert run under a per-class slot lock,
// and the (applier, date, time) unique key catches duplicates that race the first lookup.
func (s *IngangService) Apply(ctx context.Context, identity model.Identity, slot int) (*model.IngangApplication, error) {
	date := s.clock.today()
	log := logger.Log.WithFields(logrus.Fields{
		"applier_id": identity.ID,
		"time":       slot,
		"grade":      identity.Grade,
		"class":      identity.Class,
	})

	_, err := s.repo.FindApplication(ctx, identity.ID, date, slot)
	if err == nil {
		return nil, ErrAlreadyApplied
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.repo.LockSlot(ctx, tx, date, slot, identity.Grade, identity.Class); err != nil {
		return nil, fmt.Errorf("could not lock ingang slot: %w", err)
	}

	count, err := s.repo.CountApplicationsForClass(ctx, tx, date, slot, identity.Grade, identity.Class)
	if err != nil {
		return nil, err
	}
	if count >= s.maxPerClass {
		log.WithField("count", count).Warn("Ingang application rejected, class is at capacity")
		return nil, ErrIngangFull
	}

	app := &model.IngangApplication{
		ApplierID: identity.ID,
		Date:      date,
		Time:      slot,
	}
	if err := s.repo.CreateApplication(ctx, tx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyApplied
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	log.Info("Ingang application created")
	return app, nil
}

// Cancel removes the caller's application for today's slot and returns it.
func (s *IngangService) Cancel(ctx context.Context, identity model.Identity, slot int) (*model.IngangApplication, error) {
	app, err := s.repo.FindApplication(ctx, identity.ID, s.clock.today(), slot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIngangApplicationAbsent
		}
		return nil, err
	}

	if err := s.repo.DeleteApplication(ctx, app.ID); err != nil {
		return nil, err
	}
	return app, nil
}
