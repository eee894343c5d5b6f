package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yukikurage/snacks-api/internal/models"
	"github.com/yukikurage/snacks-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrMissingIdentity = errors.New("auth identity is missing")
)

// UserService handles user identity
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// FindOrCreateByUID returns the user for an auth subject, creating it on first
// sight. An empty name falls back to the uid.
func (s *UserService) FindOrCreateByUID(uid, name string) (*models.User, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, ErrMissingIdentity
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = uid
	}

	user, err := s.userRepo.FindOrCreateByUID(uid, name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	slog.Debug("User resolved", "user_id", user.ID)
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// ListUsers lists every user ordered by name
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
