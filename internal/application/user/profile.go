package user

import (
	"context"
	"errors"

	"krishi-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service holds DB for profile operations.
type Service struct {
	DB *gorm.DB
}

var ErrUserNotFound = errors.New("User not found")

// ViewUser returns the user's own profile.
func (s *Service) ViewUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateUser updates allowed profile fields. Allowed: name, district,
// land_size, category, farming_type, language.
func (s *Service) UpdateUser(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (*domain.User, error) {
	if len(fields) == 0 {
		return nil, errors.New("Missing update fields")
	}

	allowed := map[string]bool{
		"name": true, "district": true, "land_size": true,
		"category": true, "farming_type": true, "language": true,
	}
	upd := make(map[string]interface{})
	for k, v := range fields {
		if allowed[k] {
			upd[k] = v
		}
	}
	if len(upd) == 0 {
		return nil, errors.New("No valid update fields provided")
	}

	res := s.DB.WithContext(ctx).Model(&domain.User{}).Where("user_id = ?", userID).Updates(upd)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return s.ViewUser(ctx, userID)
}
