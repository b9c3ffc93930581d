package user

import (
	"context"
	"testing"

	"krishi-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*Service, uuid.UUID) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	u := domain.User{Phone: "+911234567890"}
	require.NoError(t, db.Create(&u).Error)
	return &Service{DB: db}, u.UserID
}

func TestUpdateUser_AllowedFieldsOnly(t *testing.T) {
	svc, userID := setupUserTest(t)

	updated, err := svc.UpdateUser(context.Background(), userID, map[string]interface{}{
		"name":        "Ramesh Patil",
		"district":    "Nashik",
		"land_size":   3.5,
		"trust_score": 999, // not an allowed field, silently dropped
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Name)
	assert.Equal(t, "Ramesh Patil", *updated.Name)
	require.NotNil(t, updated.District)
	assert.Equal(t, "Nashik", *updated.District)
	assert.InDelta(t, 3.5, updated.LandSize, 1e-9)
	assert.Equal(t, 500, updated.TrustScore)
}

func TestUpdateUser_NoValidFields(t *testing.T) {
	svc, userID := setupUserTest(t)

	_, err := svc.UpdateUser(context.Background(), userID, map[string]interface{}{
		"phone": "+910000000000",
	})
	assert.EqualError(t, err, "No valid update fields provided")
}

func TestUpdateUser_UnknownUser(t *testing.T) {
	svc, _ := setupUserTest(t)

	_, err := svc.UpdateUser(context.Background(), uuid.New(), map[string]interface{}{
		"name": "Ghost",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestViewUser_Defaults(t *testing.T) {
	svc, userID := setupUserTest(t)

	u, err := svc.ViewUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "General", u.Category)
	assert.Equal(t, "Mixed", u.FarmingType)
	assert.Equal(t, "en", u.Language)
	assert.Equal(t, 500, u.TrustScore)
}