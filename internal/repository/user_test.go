package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/example/careerhub/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, db.AutoMigrate(&models.User{}), "migrate users")
	return db
}

func seedUser(t *testing.T, users Users, email string) *models.User {
	t.Helper()
	code := "123456"
	expiresAt := time.Now().Add(10 * time.Minute)
	user := &models.User{
		FullName:                  "Jordan Fields",
		Email:                     email,
		PhoneNumber:               "+15550100",
		PasswordHash:              "$2a$10$notarealhash",
		Role:                      models.RoleJobSeeker,
		VerificationCode:          &code,
		VerificationCodeExpiresAt: &expiresAt,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestCreateAndFindByEmail(t *testing.T) {
	users := NewUsers(newTestDB(t))
	seeded := seedUser(t, users, "jordan@example.com")

	found, err := users.FindByEmail(context.Background(), "jordan@example.com")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)
	assert.Equal(t, models.RoleJobSeeker, found.Role)
	require.NotNil(t, found.VerificationCode)
	assert.Equal(t, "123456", *found.VerificationCode)
}

func TestFindByEmailNotFound(t *testing.T) {
	users := NewUsers(newTestDB(t))

	_, err := users.FindByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFindByID(t *testing.T) {
	users := NewUsers(newTestDB(t))
	seeded := seedUser(t, users, "jordan@example.com")

	found, err := users.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "jordan@example.com", found.Email)

	_, err = users.FindByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReplacePendingCode(t *testing.T) {
	users := NewUsers(newTestDB(t))
	seeded := seedUser(t, users, "jordan@example.com")

	newExpiry := time.Now().Add(10 * time.Minute).Round(time.Second)
	require.NoError(t, users.ReplacePendingCode(context.Background(), seeded.ID, "654321", newExpiry))

	found, err := users.FindByEmail(context.Background(), "jordan@example.com")
	require.NoError(t, err)
	require.NotNil(t, found.VerificationCode)
	assert.Equal(t, "654321", *found.VerificationCode)
	require.NotNil(t, found.VerificationCodeExpiresAt)
	assert.WithinDuration(t, newExpiry, *found.VerificationCodeExpiresAt, time.Second)
	assert.False(t, found.IsVerified)
}

func TestReplacePendingCodeUnknownUser(t *testing.T) {
	users := NewUsers(newTestDB(t))

	err := users.ReplacePendingCode(context.Background(), uuid.New(), "654321", time.Now())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMarkVerifiedClearsPendingFields(t *testing.T) {
	users := NewUsers(newTestDB(t))
	seeded := seedUser(t, users, "jordan@example.com")

	require.NoError(t, users.MarkVerified(context.Background(), seeded.ID))

	found, err := users.FindByEmail(context.Background(), "jordan@example.com")
	require.NoError(t, err)
	assert.True(t, found.IsVerified)
	assert.Nil(t, found.VerificationCode)
	assert.Nil(t, found.VerificationCodeExpiresAt)
}

func TestUpdateFields(t *testing.T) {
	users := NewUsers(newTestDB(t))
	seeded := seedUser(t, users, "jordan@example.com")

	err := users.UpdateFields(context.Background(), seeded.ID, map[string]interface{}{
		"bio":    "Backend engineer",
		"skills": "go,sql",
	})
	require.NoError(t, err)

	found, err := users.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backend engineer", found.Bio)
	assert.Equal(t, "go,sql", found.Skills)
}

func TestEmailUniqueIndex(t *testing.T) {
	users := NewUsers(newTestDB(t))
	seedUser(t, users, "jordan@example.com")

	dup := &models.User{
		FullName:     "Other Person",
		Email:        "jordan@example.com",
		PhoneNumber:  "+15550101",
		PasswordHash: "$2a$10$notarealhash",
		Role:         models.RoleRecruiter,
	}
	require.Error(t, users.Create(context.Background(), dup))
}
