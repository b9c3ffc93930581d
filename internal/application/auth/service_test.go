package auth

import (
	"context"
	"testing"
	"time"

	"krishi-backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) (*Service, *miniredis.Miniredis, *gorm.DB) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	return &Service{DB: db, Rdb: rdb, OTPTTL: 5 * time.Minute}, mr, db
}

func seedOTP(t *testing.T, mr *miniredis.Miniredis, phone, code string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), 10)
	require.NoError(t, err)
	mr.Set(otpPrefix+phone, string(hash))
}

func TestSendOTP_StoresHashedCodeWithTTL(t *testing.T) {
	svc, mr, _ := setupAuthTest(t)

	require.NoError(t, svc.SendOTP(context.Background(), "+911234567890"))

	key := otpPrefix + "+911234567890"
	require.True(t, mr.Exists(key))
	assert.Equal(t, 5*time.Minute, mr.TTL(key))

	// Only a bcrypt hash is stored, never the raw code.
	stored, err := mr.Get(key)
	require.NoError(t, err)
	assert.Contains(t, stored, "$2a$")
}

func TestSendOTP_RejectsInvalidPhone(t *testing.T) {
	svc, _, _ := setupAuthTest(t)

	assert.ErrorIs(t, svc.SendOTP(context.Background(), ""), ErrPhoneRequired)
	assert.ErrorIs(t, svc.SendOTP(context.Background(), "not-a-number"), ErrInvalidPhone)
	assert.ErrorIs(t, svc.SendOTP(context.Background(), "12345"), ErrInvalidPhone)
}

func TestVerifyOTP_CreatesUserOnFirstLogin(t *testing.T) {
	svc, mr, db := setupAuthTest(t)
	seedOTP(t, mr, "+911234567890", "4321")

	user, err := svc.VerifyOTP(context.Background(), "+911234567890", "4321")
	require.NoError(t, err)
	assert.Equal(t, "+911234567890", user.Phone)

	var count int64
	require.NoError(t, db.Model(&domain.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Code is single use.
	assert.False(t, mr.Exists(otpPrefix+"+911234567890"))
	_, err = svc.VerifyOTP(context.Background(), "+911234567890", "4321")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyOTP_ReusesExistingUser(t *testing.T) {
	svc, mr, db := setupAuthTest(t)

	existing := domain.User{Phone: "+911234567890"}
	require.NoError(t, db.Create(&existing).Error)
	seedOTP(t, mr, "+911234567890", "4321")

	user, err := svc.VerifyOTP(context.Background(), "+911234567890", "4321")
	require.NoError(t, err)
	assert.Equal(t, existing.UserID, user.UserID)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	svc, mr, _ := setupAuthTest(t)
	seedOTP(t, mr, "+911234567890", "4321")

	_, err := svc.VerifyOTP(context.Background(), "+911234567890", "9999")
	assert.ErrorIs(t, err, ErrInvalidOTP)

	// A failed attempt does not consume the code.
	assert.True(t, mr.Exists(otpPrefix+"+911234567890"))
}
