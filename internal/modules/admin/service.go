package admin

import (
	"context"
	"errors"

	"imagencali/internal/domain"
	"imagencali/internal/repository"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type RefreshTokenRevoker interface {
	RevokeAllByUser(ctx context.Context, userID int64) error
}

type UserStatusUpdater interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateStatus(ctx context.Context, userID int64, status domain.UserStatus) error
}

type AuditReader interface {
	Append(ctx context.Context, userID *int64, action string, details any, ip string) error
	List(ctx context.Context, filter repository.AuditFilter) ([]domain.AuditLog, error)
}

type Service struct {
	users  UserStatusUpdater
	tokens RefreshTokenRevoker
	audit  AuditReader
}

func NewService(users UserStatusUpdater, tokens RefreshTokenRevoker, audit AuditReader) *Service {
	return &Service{users: users, tokens: tokens, audit: audit}
}

func (s *Service) ListAudit(ctx context.Context, filter repository.AuditFilter) ([]domain.AuditLog, error) {
	return s.audit.List(ctx, filter)
}

// SetUserStatus enables or disables an account. Disabling also revokes
// every live session so the change takes effect before the next refresh.
func (s *Service) SetUserStatus(ctx context.Context, actorID, userID int64, status domain.UserStatus, ip string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Status == status {
		return user, nil
	}

	if err := s.users.UpdateStatus(ctx, userID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if status == domain.StatusDisabled {
		if err := s.tokens.RevokeAllByUser(ctx, userID); err != nil {
			return nil, err
		}
	}

	_ = s.audit.Append(ctx, &actorID, domain.AuditUserStatusChanged, map[string]any{
		"targetUserId": userID,
		"from":         string(user.Status),
		"to":           string(status),
	}, ip)

	user.Status = status
	return user, nil
}
