package auth

import (
	"context"
	"time"

	"imagencali/internal/domain"
	jwtpkg "imagencali/internal/pkg/jwt"
)

type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	RecordLogin(ctx context.Context, userID int64, ip string) error
}

type RefreshTokenRepositoryInterface interface {
	Store(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	Rotate(ctx context.Context, userID int64, oldHash, newHash string, expiresAt time.Time) error
	RevokeAllByUser(ctx context.Context, userID int64) error
}

type LoginAttemptRepositoryInterface interface {
	Record(ctx context.Context, email, ip string, success bool) error
	CountRecentFailed(ctx context.Context, email string, window time.Duration) (int64, error)
}

type AuditLogRepositoryInterface interface {
	Append(ctx context.Context, userID *int64, action string, details any, ip string) error
}

// TokenIssuer mints and checks the two JWT kinds used by a session.
type TokenIssuer interface {
	IssueAccessToken(userID int64, email, role string) (string, error)
	IssueRefreshToken(userID int64) (string, error)
	VerifyRefreshToken(token string) (*jwtpkg.RefreshClaims, error)
	RefreshTTL() time.Duration
}
