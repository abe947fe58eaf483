package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"imagencali/internal/domain"
)

var ErrTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository provides DB access for refresh tokens. Rotation
// runs inside a transaction: the revoke and the insert either both land or
// neither does, so at most one non-revoked token exists per user.
type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Store revokes every non-revoked token the user holds and inserts the new
// one. Used on login and registration.
func (r *RefreshTokenRepository) Store(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.RefreshToken{}).
			Where("user_id = ? AND revoked_at IS NULL", userID).
			Update("revoked_at", now).Error; err != nil {
			return err
		}
		return tx.Create(&domain.RefreshToken{
			UserID:    userID,
			TokenHash: tokenHash,
			ExpiresAt: expiresAt,
		}).Error
	})
}

// Rotate revokes the exact stored token matched by oldHash and inserts the
// replacement. Fails with ErrTokenNotFound when the old token was already
// rotated out — the caller treats that as a revoked session.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, userID int64, oldHash, newHash string, expiresAt time.Time) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.RefreshToken{}).
			Where("user_id = ? AND token_hash = ? AND revoked_at IS NULL", userID, oldHash).
			Update("revoked_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTokenNotFound
		}
		return tx.Create(&domain.RefreshToken{
			UserID:    userID,
			TokenHash: newHash,
			ExpiresAt: expiresAt,
		}).Error
	})
}

// IsValid reports whether the token is stored, not revoked and not expired.
func (r *RefreshTokenRepository) IsValid(ctx context.Context, userID int64, tokenHash string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.RefreshToken{}).
		Where("user_id = ? AND token_hash = ? AND revoked_at IS NULL AND expires_at > ?",
			userID, tokenHash, time.Now().UTC()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *RefreshTokenRepository) RevokeAllByUser(ctx context.Context, userID int64) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&domain.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error
}

func (r *RefreshTokenRepository) CountActiveByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

// DeleteExpired removes tokens past expiry and tokens revoked longer than
// the retention window ago. Each delete is a short standalone statement.
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, retention time.Duration) (int64, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Where("expires_at < ? OR revoked_at < ?", now, now.Add(-retention)).
		Delete(&domain.RefreshToken{})
	return res.RowsAffected, res.Error
}
