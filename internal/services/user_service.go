package services

import (
	"context"
	"errors"
	"regexp"

	"github.com/yukikurage/user-task-api/internal/dto"
	apierrors "github.com/yukikurage/user-task-api/internal/errors"
	"github.com/yukikurage/user-task-api/internal/models"
	"github.com/yukikurage/user-task-api/internal/repository"
	"github.com/yukikurage/user-task-api/internal/utils"
)

const MsgInvalidEmail = "formato de correo inválido"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether email has a non-empty local part and a dotted domain
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// FindOrCreateResult is the outcome of FindOrCreateUser
type FindOrCreateResult struct {
	User   *models.User
	Exists bool
}

// UserService handles user business logic
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// FindOrCreateUser returns the user registered under email, refreshing its
// last login, or creates it. Creation is a conditional insert: if another
// request registers the same email first, that record is returned instead.
func (s *UserService) FindOrCreateUser(ctx context.Context, email string) (*FindOrCreateResult, error) {
	if !IsValidEmail(email) {
		return nil, apierrors.Validation(MsgInvalidEmail)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return s.login(ctx, user)
	}

	user, err = s.userRepo.Create(ctx, email)
	if err == nil {
		return &FindOrCreateResult{User: user, Exists: false}, nil
	}
	if !errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, err
	}

	user, err = s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// the competing record vanished between the insert and the re-read
		return nil, apierrors.NotFound(repository.MsgFindUserByEmail)
	}
	return s.login(ctx, user)
}

// login refreshes lastLogin and re-reads the record so callers see the new value
func (s *UserService) login(ctx context.Context, user *models.User) (*FindOrCreateResult, error) {
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		return nil, err
	}

	refreshed, err := s.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if refreshed != nil {
		user = refreshed
	}
	return &FindOrCreateResult{User: user, Exists: true}, nil
}

// CheckUser reports whether a user is registered under email
func (s *UserService) CheckUser(ctx context.Context, email string) (bool, error) {
	if !IsValidEmail(email) {
		return false, apierrors.Validation(MsgInvalidEmail)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// FormatUserResponse projects a user to its public shape
func (s *UserService) FormatUserResponse(user *models.User, exists bool, token string) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: utils.NormalizeTimestamp(user.CreatedAt),
		Exists:    exists,
		Token:     token,
	}
}
