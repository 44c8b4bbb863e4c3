package repository

import (
	"context"
	"errors"
	"strings"

	apierrors "github.com/yukikurage/user-task-api/internal/errors"
	"github.com/yukikurage/user-task-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db  *gorm.DB
	now Clock
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db, now: systemClock}
}

// FindByEmail finds a user by email, case-insensitively
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apierrors.Storage(MsgFindUserByEmail, err)
	}
	return &user, nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apierrors.Storage(MsgFindUser, err)
	}
	return &user, nil
}

// Create creates a new user. The unique email index turns a concurrent
// duplicate into ErrDuplicateEmail.
func (r *GormUserRepository) Create(ctx context.Context, email string) (*models.User, error) {
	now := stamp(r.now)
	user := &models.User{
		Email:     strings.ToLower(email),
		CreatedAt: now,
		LastLogin: now,
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, apierrors.Storage(MsgCreateUser, ErrDuplicateEmail)
		}
		return nil, apierrors.Storage(MsgCreateUser, err)
	}
	return user, nil
}

// UpdateLastLogin refreshes the user's last login time
func (r *GormUserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login", stamp(r.now))
	if result.Error != nil {
		return apierrors.Storage(MsgUpdateUser, result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// MySQL reports changed rows, so a same-millisecond stamp affects none
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return apierrors.Storage(MsgUpdateUser, err)
	}
	if count == 0 {
		return apierrors.Storage(MsgUpdateUser, ErrUserNotFound)
	}
	return nil
}

// isDuplicateKey recognizes unique-index violations. Drivers that do not
// translate errors are matched on their messages.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
