package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"school-api/logger"
	"school-api/model"
	"school-api/repository"
	"time"

	"github.com/google/uuid"
)

// TokenService manages refresh-token sessions. Tokens are single use: each refresh
// consumes the presented token and issues a new one.
type TokenService struct {
	tokenRepo repository.ITokenRepository
	userRepo  repository.IUserRepository
	auth      *AuthService
	ttl       time.Duration
	now       func() time.Time
}

func NewTokenService(tokenRepo repository.ITokenRepository, userRepo repository.IUserRepository, auth *AuthService, ttl time.Duration) *TokenService {
	return &TokenService{
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
		auth:      auth,
		ttl:       ttl,
		now:       time.Now,
	}
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Issue starts a session for user and returns the opaque refresh token.
func (s *TokenService) Issue(ctx context.Context, user *model.User) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	raw := base64.RawURLEncoding.EncodeToString(buf)

	token := &model.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(raw),
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return "", err
	}
	return raw, nil
}

// Refresh exchanges a refresh token for a new access token and a new refresh token.
func (s *TokenService) Refresh(ctx context.Context, raw string) (string, string, error) {
	hash := hashToken(raw)
	stored, err := s.tokenRepo.GetByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", ErrInvalidToken
		}
		return "", "", err
	}

	consumed, err := s.tokenRepo.DeleteByTokenHash(ctx, hash)
	if err != nil {
		return "", "", err
	}
	if !consumed || !stored.ExpiresAt.After(s.now()) {
		return "", "", ErrInvalidToken
	}

	user, err := s.userRepo.GetUserByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", ErrInvalidToken
		}
		return "", "", err
	}

	access, err := s.auth.GenerateToken(user)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.Issue(ctx, user)
	if err != nil {
		return "", "", err
	}

	logger.Log.WithField("user_id", user.ID).Info("Refresh token rotated")
	return access, refresh, nil
}

// Revoke ends every session of the user.
func (s *TokenService) Revoke(ctx context.Context, userID uuid.UUID) error {
	return s.tokenRepo.DeleteByUserID(ctx, userID)
}
