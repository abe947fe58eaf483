package admin

import (
	"context"
	"testing"

	"imagencali/internal/domain"
	"imagencali/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUsers) UpdateStatus(ctx context.Context, userID int64, status domain.UserStatus) error {
	args := m.Called(ctx, userID, status)
	return args.Error(0)
}

type mockTokens struct {
	mock.Mock
}

func (m *mockTokens) RevokeAllByUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Append(ctx context.Context, userID *int64, action string, details any, ip string) error {
	args := m.Called(ctx, userID, action, details, ip)
	return args.Error(0)
}

func (m *mockAudit) List(ctx context.Context, filter repository.AuditFilter) ([]domain.AuditLog, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

func TestService_SetUserStatus_DisableRevokesSessions(t *testing.T) {
	users, tokens, audit := new(mockUsers), new(mockTokens), new(mockAudit)

	users.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.User{ID: 5, Email: "u@example.com", Status: domain.StatusActive}, nil)
	users.On("UpdateStatus", mock.Anything, int64(5), domain.StatusDisabled).Return(nil)
	tokens.On("RevokeAllByUser", mock.Anything, int64(5)).Return(nil)
	audit.On("Append", mock.Anything, mock.Anything, domain.AuditUserStatusChanged, mock.Anything, "9.9.9.9").Return(nil)

	svc := NewService(users, tokens, audit)
	user, err := svc.SetUserStatus(context.Background(), 1, 5, domain.StatusDisabled, "9.9.9.9")

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusDisabled, user.Status)
	tokens.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestService_SetUserStatus_EnableKeepsSessionsUntouched(t *testing.T) {
	users, tokens, audit := new(mockUsers), new(mockTokens), new(mockAudit)

	users.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.User{ID: 5, Status: domain.StatusDisabled}, nil)
	users.On("UpdateStatus", mock.Anything, int64(5), domain.StatusActive).Return(nil)
	audit.On("Append", mock.Anything, mock.Anything, domain.AuditUserStatusChanged, mock.Anything, "9.9.9.9").Return(nil)

	svc := NewService(users, tokens, audit)
	user, err := svc.SetUserStatus(context.Background(), 1, 5, domain.StatusActive, "9.9.9.9")

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusActive, user.Status)
	tokens.AssertNotCalled(t, "RevokeAllByUser", mock.Anything, mock.Anything)
}

func TestService_SetUserStatus_NoopWhenUnchanged(t *testing.T) {
	users, tokens, audit := new(mockUsers), new(mockTokens), new(mockAudit)

	users.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.User{ID: 5, Status: domain.StatusActive}, nil)

	svc := NewService(users, tokens, audit)
	_, err := svc.SetUserStatus(context.Background(), 1, 5, domain.StatusActive, "9.9.9.9")

	assert.NoError(t, err)
	users.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	audit.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SetUserStatus_UnknownUser(t *testing.T) {
	users, tokens, audit := new(mockUsers), new(mockTokens), new(mockAudit)

	users.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewService(users, tokens, audit)
	_, err := svc.SetUserStatus(context.Background(), 1, 404, domain.StatusDisabled, "9.9.9.9")

	assert.ErrorIs(t, err, ErrUserNotFound)
}
