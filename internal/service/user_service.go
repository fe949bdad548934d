package service

import (
	"context"
	"errors"

	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"

	"gorm.io/gorm"
)

// UserService handles profile reads and status updates.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetSelf loads the caller's own profile, post set resolved.
func (s *UserService) GetSelf(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", userID)
		}
		return nil, err
	}
	return user, nil
}

// UpdateStatus replaces the caller's status message.
func (s *UserService) UpdateStatus(ctx context.Context, userID uint, status string) (*models.User, error) {
	if err := validation.StatusInput(status).Err(); err != nil {
		return nil, err
	}

	user, err := s.GetSelf(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Status = status
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
