package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"imagencali/internal/domain"
)

type LoginAttemptRepository struct {
	db *gorm.DB
}

func NewLoginAttemptRepository(db *gorm.DB) *LoginAttemptRepository {
	return &LoginAttemptRepository{db: db}
}

func (r *LoginAttemptRepository) Record(ctx context.Context, email, ip string, success bool) error {
	return r.db.WithContext(ctx).Create(&domain.LoginAttempt{
		Email:       normalizeEmail(email),
		IPAddress:   ip,
		Success:     success,
		AttemptTime: time.Now().UTC(),
	}).Error
}

// CountRecentFailed returns the number of failed attempts for the email
// within the sliding window ending now.
func (r *LoginAttemptRepository) CountRecentFailed(ctx context.Context, email string, window time.Duration) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.LoginAttempt{}).
		Where("email = ? AND success = ? AND attempt_time > ?",
			normalizeEmail(email), false, time.Now().UTC().Add(-window)).
		Count(&count).Error
	return count, err
}

func (r *LoginAttemptRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("attempt_time < ?", cutoff).
		Delete(&domain.LoginAttempt{})
	return res.RowsAffected, res.Error
}
