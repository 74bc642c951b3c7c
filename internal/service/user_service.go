package service

import (
	"context"
	"errors"
	"strings"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	users  domain.UserRepository
	logger *zerolog.Logger
}

func NewUserService(users domain.UserRepository, logger *zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := validateUser(user.Name, user.Email); err != nil {
		return nil, err
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return nil, newError(KindAlreadyExists, "user with email %s already exists", user.Email)
		}
		return nil, err
	}
	return user, nil
}

// Update applies a partial update: empty fields keep their current value.
func (s *UserService) Update(ctx context.Context, userID int64, patch *models.User) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Name != "" {
		user.Name = patch.Name
	}
	if patch.Email != "" {
		if !strings.Contains(patch.Email, "@") {
			return nil, newError(KindValidation, "email must contain @")
		}
		user.Email = patch.Email
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return nil, newError(KindAlreadyExists, "user with email %s already exists", user.Email)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, newError(KindNotFound, "user %d not found", userID)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetAll(ctx context.Context) ([]*models.User, error) {
	return s.users.GetAllUsers(ctx)
}

func (s *UserService) Delete(ctx context.Context, userID int64) error {
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return newError(KindNotFound, "user %d not found", userID)
		}
		return err
	}
	return nil
}

func validateUser(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return newError(KindValidation, "name must not be blank")
	}
	if strings.TrimSpace(email) == "" || !strings.Contains(email, "@") {
		return newError(KindValidation, "email must not be blank and must contain @")
	}
	return nil
}
