package service

import (
	"context"
	"database/sql"
	"school-api/model"
	"school-api/repository"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestIngangService_Apply(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 10, 19, 18, 30, 0, 0, time.UTC)
	today := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	student := model.Identity{ID: uuid.New(), Role: model.RoleStudent, Grade: 2, Class: 3, Serial: 14}
	ctx := context.Background()

	t.Run("seat available", func(t *testing.T) {
		repo := new(mockIngangRepo)
		svc := NewIngangService(db, repo, fixedClock(now), 9, 4, []int{1, 2})

		repo.On("FindApplication", ctx, student.ID, today, 1).Return(nil, sql.ErrNoRows).Once()
		dbMock.ExpectBegin()
		lock := repo.On("LockSlot", ctx, mock.Anything, today, 1, 2, 3).Return(nil).Once()
		repo.On("CountApplicationsForClass", ctx, mock.Anything, today, 1, 2, 3).Return(8, nil).Once().NotBefore(lock)
		repo.On("CreateApplication", ctx, mock.Anything, mock.AnythingOfType("*model.IngangApplication")).Return(nil).Once()
		dbMock.ExpectCommit()

		app, err := svc.Apply(ctx, student, 1)

		require.NoError(t, err)
		assert.Equal(t, student.ID, app.ApplierID)
		assert.Equal(t, today, app.Date)
		assert.Equal(t, 1, app.Time)
		repo.AssertExpectations(t)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("class at capacity", func(t *testing.T) {
		repo := new(mockIngangRepo)
		svc := NewIngangService(db, repo, fixedClock(now), 9, 4, []int{1, 2})

		repo.On("FindApplication", ctx, student.ID, today, 2).Return(nil, sql.ErrNoRows).Once()
		dbMock.ExpectBegin()
		repo.On("LockSlot", ctx, mock.Anything, today, 2, 2, 3).Return(nil).Once()
		repo.On("CountApplicationsForClass", ctx, mock.Anything, today, 2, 2, 3).Return(9, nil).Once()
		dbMock.ExpectRollback()

		app, err := svc.Apply(ctx, student, 2)

		assert.Nil(t, app)
		assert.ErrorIs(t, err, ErrIngangFull)
		repo.AssertNotCalled(t, "CreateApplication", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("already holding a seat", func(t *testing.T) {
		repo := new(mockIngangRepo)
		svc := NewIngangService(db, repo, fixedClock(now), 9, 4, []int{1, 2})

		existing := &model.IngangApplication{ID: uuid.New(), ApplierID: student.ID, Date: today, Time: 1}
		repo.On("FindApplication", ctx, student.ID, today, 1).Return(existing, nil).Once()

		_, err := svc.Apply(ctx, student, 1)

		assert.ErrorIs(t, err, ErrAlreadyApplied)
		repo.AssertNotCalled(t, "LockSlot", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("duplicate caught by the unique key", func(t *testing.T) {
		repo := new(mockIngangRepo)
		svc := NewIngangService(db, repo, fixedClock(now), 9, 4, []int{1, 2})

		repo.On("FindApplication", ctx, student.ID, today, 1).Return(nil, sql.ErrNoRows).Once()
		dbMock.ExpectBegin()
		repo.On("LockSlot", ctx, mock.Anything, today, 1, 2, 3).Return(nil).Once()
		repo.On("CountApplicationsForClass", ctx, mock.Anything, today, 1, 2, 3).Return(3, nil).Once()
		repo.On("CreateApplication", ctx, mock.Anything, mock.Anything).Return(repository.ErrDuplicate).Once()
		dbMock.ExpectRollback()

		_, err := svc.Apply(ctx, student, 1)

		assert.ErrorIs(t, err, ErrAlreadyApplied)
		repo.AssertExpectations(t)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestIngangService_Cancel(t *testing.T) {
	now := time.Date(2026, 10, 19, 18, 30, 0, 0, time.UTC)
	today := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	student := model.Identity{ID: uuid.New(), Role: model.RoleStudent, Grade: 1, Class: 1}
	ctx := context.Background()

	t.Run("removes the application", func(t *testing.T) {
		repo := new(mockIngangRepo)
		svc := NewIngangService(nil, repo, fixedClock(now), 9, 4, []int{1, 2})
		existing := &model.IngangApplication{ID: uuid.New(), ApplierID: student.ID, Date: today, Time: 2}
		repo.On("FindApplication", ctx, student.ID, today, 2).Return(existing, nil).Once()
		repo.On("DeleteApplication", ctx, existing.ID).Return(nil).Once()

		app, err := svc.Cancel(ctx, student, 2)

		require.NoError(t, err)
		assert.Equal(t, existing, app)
		repo.AssertExpectations(t)
	})

	t.Run("nothing to cancel", func(t *testing.T) {
		repo := new(mockIngangRepo)
		svc := NewIngangService(nil, repo, fixedClock(now), 9, 4, []int{1, 2})
		repo.On("FindApplication", ctx, student.ID, today, 1).Return(nil, sql.ErrNoRows).Once()

		_, err := svc.Cancel(ctx, student, 1)

		assert.ErrorIs(t, err, ErrIngangApplicationAbsent)
		repo.AssertNotCalled(t, "DeleteApplication", mock.Anything, mock.Anything)
	})
}

func TestIngangService_ListApplications(t *testing.T) {
	ctx := context.Background()
	repo := new(mockIngangRepo)
	svc := NewIngangService(nil, repo, NewClock(time.UTC), 9, 4, []int{1, 2})

	student := model.Identity{ID: uuid.New(), Role: model.RoleStudent}
	own := []*model.IngangApplication{{ID: uuid.New(), ApplierID: student.ID}}
	repo.On("GetApplicationsByApplier", ctx, student.ID).Return(own, nil).Once()
	all := []*model.IngangApplication{own[0], {ID: uuid.New()}}
	repo.On("GetAllApplications", ctx).Return(all, nil).Once()

	apps, err := svc.ListApplications(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, own, apps)

	apps, err = svc.ListApplications(ctx, model.Identity{ID: uuid.New(), Role: model.RoleTeacher})
	require.NoError(t, err)
	assert.Equal(t, all, apps)

	repo.AssertExpectations(t)
}

func TestIngangService_Status(t *testing.T) {
	svc := NewIngangService(nil, new(mockIngangRepo), NewClock(nil), 9, 4, []int{1, 2})

	status := svc.Status()
	status.TimeSlots[0] = 99

	assert.Equal(t, model.IngangStatus{TicketCount: 4, MaxApplier: 9, TimeSlots: []int{1, 2}}, svc.Status())
}
