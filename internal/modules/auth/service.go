package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"imagencali/internal/domain"
	"imagencali/internal/pkg/validator"
	"imagencali/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	bcryptCost = 12

	maxFailedLoginAttempts = 5
	failedLoginWindow      = 15 * time.Minute
)

// Service contains all business logic for authentication
type Service struct {
	users    UserRepositoryInterface
	tokens   RefreshTokenRepositoryInterface
	attempts LoginAttemptRepositoryInterface
	audit    AuditLogRepositoryInterface
	jwt      TokenIssuer
}

func NewService(
	users UserRepositoryInterface,
	tokens RefreshTokenRepositoryInterface,
	attempts LoginAttemptRepositoryInterface,
	audit AuditLogRepositoryInterface,
	jwt TokenIssuer,
) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		attempts: attempts,
		audit:    audit,
		jwt:      jwt,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest, ip string) (*AuthResult, error) {
	if !validator.Password(req.Password) {
		return nil, ErrPasswordPolicy
	}

	email := normalizeEmail(req.Email)
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	_ = s.audit.Append(ctx, &user.ID, domain.AuditUserCreated, map[string]any{"email": user.Email}, ip)

	return s.issueSession(ctx, user)
}

// Login authenticates a user by email and password. Credential failures
// are indistinguishable from unknown accounts, and every attempt is
// recorded so repeated failures can lock the email out for a window.
func (s *Service) Login(ctx context.Context, req LoginRequest, ip string) (*AuthResult, error) {
	email := normalizeEmail(req.Email)

	failed, err := s.attempts.CountRecentFailed(ctx, email, failedLoginWindow)
	if err != nil {
		return nil, err
	}
	if failed >= maxFailedLoginAttempts {
		return nil, ErrTooManyAttempts
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = s.attempts.Record(ctx, email, ip, false)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		_ = s.attempts.Record(ctx, email, ip, false)
		return nil, ErrInvalidCredentials
	}

	if user.IsDisabled() {
		return nil, ErrAccountDisabled
	}

	_ = s.attempts.Record(ctx, email, ip, true)
	if err := s.users.RecordLogin(ctx, user.ID, ip); err != nil {
		return nil, err
	}

	return s.issueSession(ctx, user)
}

// Refresh exchanges a valid refresh token for a new token pair. The old
// token is revoked in the same transaction that mints its replacement,
// so a replayed token always fails with ErrSessionRevoked.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwt.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionRevoked
		}
		return nil, err
	}
	if user.IsDisabled() {
		_ = s.tokens.RevokeAllByUser(ctx, user.ID)
		return nil, ErrAccountDisabled
	}

	accessToken, err := s.jwt.IssueAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.jwt.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	err = s.tokens.Rotate(ctx, user.ID, hashToken(refreshToken), hashToken(newRefresh), time.Now().Add(s.jwt.RefreshTTL()))
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, ErrSessionRevoked
		}
		return nil, err
	}

	return &AuthResult{
		User:         publicUser(user),
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
	}, nil
}

// Logout revokes every stored refresh token for the authenticated user.
// Identity comes from the verified access token, not the cookie, so the
// session dies even when the refresh cookie was dropped by the client.
func (s *Service) Logout(ctx context.Context, userID int64, ip string) error {
	if err := s.tokens.RevokeAllByUser(ctx, userID); err != nil {
		return err
	}

	_ = s.audit.Append(ctx, &userID, domain.AuditUserLogout, nil, ip)
	return nil
}

// issueSession mints an access/refresh pair and stores the refresh hash,
// displacing any previously active token for the user.
func (s *Service) issueSession(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.jwt.IssueAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwt.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Store(ctx, user.ID, hashToken(refreshToken), time.Now().Add(s.jwt.RefreshTTL())); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         publicUser(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// hashToken stores a digest instead of the raw token so a leaked
// database cannot be replayed against the refresh endpoint.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
