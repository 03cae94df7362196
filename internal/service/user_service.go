package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Raymond9734/print-connect-backend/internal/models"
	"github.com/Raymond9734/print-connect-backend/internal/repository"
)

// UserService identifies callers. There are no credentials: knowing a
// user id is enough.
type UserService interface {
	Resolve(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Resolve looks up the caller, reporting unknown ids as unauthorized
func (s *userService) Resolve(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUnauthorized(fmt.Sprintf("unknown user %d", id))
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// List returns every known user
func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.List(ctx)
}
