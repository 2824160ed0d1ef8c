package auth

import (
	"time"

	"github.com/google/uuid"
)

// UserSecurityRecord holds the second- and third-factor state for one
// user account: the TOTP secret, the trusted device fingerprint hash and
// the lockout counters. Created implicitly with zero values the first
// time the account is seen by the security service.
//
// TOTPVerified implies TOTPEnabled implies TOTPSecret present.
// A LockedUntil in the past is equivalent to NULL (lazy expiry).
type UserSecurityRecord struct {
	ID                    uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID                uuid.UUID  `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	TOTPSecret            string     `json:"-" gorm:"column:totp_secret;size:64"`
	TOTPEnabled           bool       `json:"totp_enabled" gorm:"column:totp_enabled;default:false"`
	TOTPVerified          bool       `json:"totp_verified" gorm:"column:totp_verified;default:false"`
	DeviceFingerprintHash string     `json:"device_fingerprint_hash" gorm:"size:64"`
	LoginAttempts         int        `json:"login_attempts" gorm:"default:0"`
	LockedUntil           *time.Time `json:"locked_until"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// TableName returns the table name for UserSecurityRecord
func (UserSecurityRecord) TableName() string {
	return "user_security_records"
}
