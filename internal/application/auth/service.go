package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"krishi-backend/internal/domain"
	"krishi-backend/internal/pkg/validation"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const otpPrefix = "otp:"

// Service implements phone+OTP login. One-time codes live in Redis with
// an explicit TTL, never in process memory; only a bcrypt hash is stored.
type Service struct {
	DB     *gorm.DB
	Rdb    *redis.Client
	OTPTTL time.Duration
	// DevEchoOTP logs the generated code; enabled outside production
	// because no SMS gateway is wired yet.
	DevEchoOTP bool
}

// SendOTP generates and stores a one-time code for the phone number.
func (s *Service) SendOTP(ctx context.Context, phone string) error {
	if phone == "" {
		return ErrPhoneRequired
	}
	if !validation.IsValidPhone(phone) {
		return ErrInvalidPhone
	}

	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return err
	}
	code := fmt.Sprintf("%04d", n.Int64())

	hash, err := bcrypt.GenerateFromPassword([]byte(code), 10)
	if err != nil {
		return err
	}

	ttl := s.OTPTTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	if err := s.Rdb.Set(ctx, otpPrefix+phone, string(hash), ttl).Err(); err != nil {
		return err
	}

	if s.DevEchoOTP {
		log.Info().Str("phone", phone).Str("otp", code).Msg("OTP issued (dev echo, no SMS gateway configured)")
	}
	return nil
}

// VerifyOTP checks the code, consumes it and returns the user, creating
// the account on first login.
func (s *Service) VerifyOTP(ctx context.Context, phone, otp string) (*domain.User, error) {
	if phone == "" || otp == "" {
		return nil, ErrInvalidOTP
	}

	hash, err := s.Rdb.Get(ctx, otpPrefix+phone).Result()
	if err == redis.Nil {
		return nil, ErrInvalidOTP
	} else if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(otp)) != nil {
		return nil, ErrInvalidOTP
	}
	// Single use.
	_ = s.Rdb.Del(ctx, otpPrefix+phone).Err()

	var user domain.User
	err = s.DB.WithContext(ctx).Where("phone = ?", phone).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		user = domain.User{Phone: phone}
		if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, err
		}
		log.Info().Str("user_id", user.UserID.String()).Msg("new farmer account created on first login")
	} else if err != nil {
		return nil, err
	}
	return &user, nil
}
