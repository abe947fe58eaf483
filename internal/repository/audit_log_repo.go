package repository

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"imagencali/internal/domain"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Append writes a single audit row. details is marshalled to JSON; a nil
// userID is preserved as NULL so the row outlives the user.
func (r *AuditLogRepository) Append(ctx context.Context, userID *int64, action string, details any, ip string) error {
	var payload string
	if details != nil {
		encoded, err := json.Marshal(details)
		if err != nil {
			return err
		}
		payload = string(encoded)
	}

	return r.db.WithContext(ctx).Create(&domain.AuditLog{
		UserID:    userID,
		Action:    action,
		Details:   payload,
		IPAddress: ip,
	}).Error
}

type AuditFilter struct {
	UserID *int64
	Action string
	Limit  int
}

func (r *AuditLogRepository) List(ctx context.Context, filter AuditFilter) ([]domain.AuditLog, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	q := r.db.WithContext(ctx).Model(&domain.AuditLog{}).
		Order("created_at DESC").
		Limit(limit)
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}

	var logs []domain.AuditLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
