package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/careerhub/internal/models"
)

// ErrNotFound is returned when no account matches the lookup key.
var ErrNotFound = errors.New("user not found")

// Users is the directory of account records. Callers pass emails already
// normalized; the directory performs no normalization of its own.
type Users interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	// ReplacePendingCode overwrites the outstanding verification code and
	// its expiry in a single update. Any prior code is discarded.
	ReplacePendingCode(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error
	// MarkVerified flips the account to verified and clears both pending
	// fields in the same write.
	MarkVerified(ctx context.Context, id uuid.UUID) error
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUsers returns a gorm-backed Users directory.
func NewUsers(db *gorm.DB) Users {
	return &userRepository{db: db}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) ReplacePendingCode(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error {
	return r.apply(ctx, id, map[string]interface{}{
		"verification_code":            code,
		"verification_code_expires_at": expiresAt,
	})
}

func (r *userRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return r.apply(ctx, id, map[string]interface{}{
		"is_verified":                  true,
		"verification_code":            nil,
		"verification_code_expires_at": nil,
	})
}

func (r *userRepository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.apply(ctx, id, updates)
}

func (r *userRepository) apply(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
