package domain

import "time"

// Audit actions recorded by the auth and admin flows.
const (
	AuditUserCreated       = "USER_CREATED"
	AuditUserLogin         = "USER_LOGIN"
	AuditUserLogout        = "USER_LOGOUT"
	AuditUserStatusChanged = "USER_STATUS_CHANGED"
)

// AuditLog is an append-only trail of account actions. UserID is nullable
// so the trail survives if the referenced user row ever goes away.
type AuditLog struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    *int64    `json:"user_id" gorm:"index;constraint:OnDelete:SET NULL"`
	Action    string    `json:"action" gorm:"index;not null"`
	Details   string    `json:"details"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
