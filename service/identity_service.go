package service

import (
	"context"
	"database/sql"
	"errors"
	"school-api/model"
	"school-api/repository"

	"github.com/google/uuid"
)

// IdentityService resolves the caller behind a verified token.
// Every call reads the user store; nothing is cached between requests.
type IdentityService struct {
	userRepo repository.IUserRepository
}

func NewIdentityService(userRepo repository.IUserRepository) *IdentityService {
	return &IdentityService{userRepo: userRepo}
}

func (s *IdentityService) Resolve(ctx context.Context, claims *model.AppClaims) (*model.Identity, error) {
	if claims == nil {
		return nil, ErrInvalidToken
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	identity := user.Identity()
	return &identity, nil
}
