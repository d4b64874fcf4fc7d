package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/work-assignment-api/internal/constants"
	"github.com/yukikurage/work-assignment-api/internal/models"
	"github.com/yukikurage/work-assignment-api/internal/repository"
	"gorm.io/gorm"
)

// UserService handles account management outside of authentication.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// ListUsers returns users with optional role/active filtering. Admin only.
func (s *UserService) ListUsers(actor Actor, filter repository.UserFilter) ([]models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRequired
	}

	users, err := s.userRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// GetUser returns one user. A worker may only read their own account.
func (s *UserService) GetUser(id uint64, actor Actor) (*models.User, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, ErrAdminRequired
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// UpdateUserInput carries the allow-listed profile fields. Password and role
// never change through this path.
type UpdateUserInput struct {
	Actor    Actor
	UserID   uint64
	Name     *string
	Email    *string
	IsActive *bool
}

// UpdateUser applies an admin edit of allow-listed profile fields.
func (s *UserService) UpdateUser(input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !input.Actor.IsAdmin() {
		return nil, ErrAdminRequired
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		if len(name) > constants.MaxNameLength {
			return nil, ErrNameTooLong
		}
		user.Name = name
	}
	if input.Email != nil {
		email := repository.NormalizeEmail(*input.Email)
		if !emailPattern.MatchString(email) {
			return nil, ErrInvalidEmail
		}
		if email != user.Email {
			if _, err := s.userRepo.FindByEmail(email); err == nil {
				return nil, ErrEmailTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			user.Email = email
		}
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes an account. Deleting a worker also removes the work
// items assigned to them, in the same transaction.
func (s *UserService) DeleteUser(id uint64, actor Actor) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if !actor.IsAdmin() {
		return ErrAdminRequired
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// LinkCalendar stores the actor's calendar token pair.
func (s *UserService) LinkCalendar(actor Actor, accessToken, refreshToken string) (*models.User, error) {
	user, err := s.userRepo.FindByID(actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, errors.New("access token is required")
	}

	user.CalendarAccessToken = &accessToken
	if refreshToken = strings.TrimSpace(refreshToken); refreshToken != "" {
		user.CalendarRefreshToken = &refreshToken
	} else {
		user.CalendarRefreshToken = nil
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to link calendar: %w", err)
	}

	return user, nil
}

// UnlinkCalendar clears the actor's calendar token pair.
func (s *UserService) UnlinkCalendar(actor Actor) (*models.User, error) {
	user, err := s.userRepo.FindByID(actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.CalendarAccessToken = nil
	user.CalendarRefreshToken = nil

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to unlink calendar: %w", err)
	}

	return user, nil
}
