package service

import (
	"context"
	"errors"
	"school-api/model"
	"school-api/repository"
)

// UserService handles user-related business logic.
type UserService struct {
	userRepo repository.IUserRepository
	auth     *AuthService
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.IUserRepository, auth *AuthService) *UserService {
	return &UserService{userRepo: userRepo, auth: auth}
}

// CreateUser registers a teacher or student account. Teachers carry no homeroom.
func (s *UserService) CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: hash,
		Name:         req.Name,
		UserType:     req.UserType,
	}
	if req.UserType == model.RoleStudent {
		user.Grade, user.Class, user.Serial = req.Grade, req.Class, req.Serial
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}
