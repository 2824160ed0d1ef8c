package auth

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only record of one authentication attempt.
// Never mutated or deleted by the security service.
type AuditLog struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID          uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	IPAddress       string    `json:"ip_address" gorm:"type:varchar(45)"`
	UserAgent       string    `json:"user_agent" gorm:"type:text"`
	FingerprintHash string    `json:"fingerprint_hash" gorm:"size:64"`
	Successful      bool      `json:"successful" gorm:"default:false;index"`
	FailureReason   string    `json:"failure_reason,omitempty" gorm:"size:100"` // account_locked, invalid_code, untrusted_device, ...
	TOTPUsed        bool      `json:"totp_used" gorm:"column:totp_used;default:false"`
	DeviceTrusted   bool      `json:"device_trusted" gorm:"default:false"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName returns the table name for AuditLog
func (AuditLog) TableName() string {
	return "security_audit_logs"
}
