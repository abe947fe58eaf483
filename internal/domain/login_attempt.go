package domain

import "time"

// LoginAttempt is an append-only record of a login try. Rows are only
// inserted and pruned, never updated.
type LoginAttempt struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Email       string    `json:"email" gorm:"index:idx_login_attempts_email_time;not null"`
	IPAddress   string    `json:"ip_address"`
	Success     bool      `json:"success" gorm:"not null;default:false"`
	AttemptTime time.Time `json:"attempt_time" gorm:"index:idx_login_attempts_email_time;autoCreateTime"`
}

func (LoginAttempt) TableName() string { return "login_attempts" }
