package service

import (
	"context"
	"database/sql"
	"school-api/model"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndRefresh(t *testing.T) {
	ctx := context.Background()
	tokenRepo, userRepo := new(mockTokenRepo), new(mockUserRepo)
	auth := NewAuthService(userRepo, "test-secret", time.Hour)
	svc := NewTokenService(tokenRepo, userRepo, auth, 24*time.Hour)
	user := &model.User{ID: uuid.New(), UserType: model.RoleStudent}

	var stored *model.RefreshToken
	tokenRepo.On("Create", ctx, mock.AnythingOfType("*model.RefreshToken")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*model.RefreshToken) }).
		Return(nil)

	raw, err := svc.Issue(ctx, user)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, hashToken(raw), stored.TokenHash)
	assert.NotEqual(t, raw, stored.TokenHash)
	assert.Equal(t, user.ID, stored.UserID)

	first := *stored
	tokenRepo.On("GetByTokenHash", ctx, first.TokenHash).Return(&first, nil).Once()
	tokenRepo.On("DeleteByTokenHash", ctx, first.TokenHash).Return(true, nil).Once()
	userRepo.On("GetUserByID", ctx, user.ID).Return(user, nil).Once()

	access, refresh, err := svc.Refresh(ctx, raw)

	require.NoError(t, err)
	assert.NotEqual(t, raw, refresh)
	claims, err := auth.ParseToken(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	tokenRepo.AssertExpectations(t)
}

func TestTokenService_Refresh_Rejects(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("unknown token", func(t *testing.T) {
		tokenRepo := new(mockTokenRepo)
		svc := NewTokenService(tokenRepo, new(mockUserRepo), NewAuthService(nil, "s", time.Hour), time.Hour)
		tokenRepo.On("GetByTokenHash", ctx, hashToken("nope")).Return(nil, sql.ErrNoRows).Once()

		_, _, err := svc.Refresh(ctx, "nope")

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token is consumed", func(t *testing.T) {
		tokenRepo := new(mockTokenRepo)
		svc := NewTokenService(tokenRepo, new(mockUserRepo), NewAuthService(nil, "s", time.Hour), time.Hour)
		hash := hashToken("old")
		tokenRepo.On("GetByTokenHash", ctx, hash).
			Return(&model.RefreshToken{UserID: userID, TokenHash: hash, ExpiresAt: time.Now().Add(-time.Minute)}, nil).Once()
		tokenRepo.On("DeleteByTokenHash", ctx, hash).Return(true, nil).Once()

		_, _, err := svc.Refresh(ctx, "old")

		assert.ErrorIs(t, err, ErrInvalidToken)
		tokenRepo.AssertExpectations(t)
	})

	t.Run("token already used by a concurrent refresh", func(t *testing.T) {
		tokenRepo, userRepo := new(mockTokenRepo), new(mockUserRepo)
		svc := NewTokenService(tokenRepo, userRepo, NewAuthService(nil, "s", time.Hour), time.Hour)
		hash := hashToken("raced")
		tokenRepo.On("GetByTokenHash", ctx, hash).
			Return(&model.RefreshToken{UserID: userID, TokenHash: hash, ExpiresAt: time.Now().Add(time.Hour)}, nil).Once()
		tokenRepo.On("DeleteByTokenHash", ctx, hash).Return(false, nil).Once()

		_, _, err := svc.Refresh(ctx, "raced")

		assert.ErrorIs(t, err, ErrInvalidToken)
		userRepo.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
	})
}
