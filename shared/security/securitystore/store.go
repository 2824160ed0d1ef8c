package securitystore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"autovista-backend/shared/database/models/auth"
	"autovista-backend/shared/security"
)

// storeTimeout bounds every store call; a timeout denies admission the
// same way any other storage failure does.
const storeTimeout = 5 * time.Second

// GormStore implements security.UserSecurityStore and security.AuditSink
// on the shared gorm connection. Counter updates run as single UPDATE
// statements with arithmetic expressions so concurrent attempts for the
// same user cannot lose increments.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store over the given database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get returns the user's security record, creating the zero-valued
// record on first access.
func (s *GormStore) Get(ctx context.Context, userID uuid.UUID) (*auth.UserSecurityRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	record := auth.UserSecurityRecord{UserID: userID}
	err := s.db.WithContext(ctx).
		Where(auth.UserSecurityRecord{UserID: userID}).
		FirstOrCreate(&record).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load security record: %w", err)
	}

	return &record, nil
}

// SaveTOTPSecret persists a freshly generated secret and enables the
// factor. Verification state resets: a new secret must be proven again.
func (s *GormStore) SaveTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	result := s.db.WithContext(ctx).Model(&auth.UserSecurityRecord{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"totp_secret":   secret,
			"totp_enabled":  true,
			"totp_verified": false,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save totp secret: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("security record not found for user %s", userID)
	}

	return nil
}

// MarkTOTPVerified activates the TOTP factor.
func (s *GormStore) MarkTOTPVerified(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	result := s.db.WithContext(ctx).Model(&auth.UserSecurityRecord{}).
		Where("user_id = ? AND totp_enabled = ?", userID, true).
		Update("totp_verified", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark totp verified: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no enabled totp factor for user %s", userID)
	}

	return nil
}

// StoreTrustedFingerprint overwrites the trusted device hash.
func (s *GormStore) StoreTrustedFingerprint(ctx context.Context, userID uuid.UUID, hash string) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	result := s.db.WithContext(ctx).Model(&auth.UserSecurityRecord{}).
		Where("user_id = ?", userID).
		Update("device_fingerprint_hash", hash)
	if result.Error != nil {
		return fmt.Errorf("failed to store trusted fingerprint: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("security record not found for user %s", userID)
	}

	return nil
}

// RecordFailure increments login_attempts and engages the lock in one
// UPDATE. The CASE expressions evaluate against the pre-update row, so
// two racing failures both count and exactly one of them crosses the
// threshold. A lock that has already expired restarts the counter at 1:
// the user gets a full set of fresh attempts, not an instant re-lock on
// the first post-expiry mistake.
func (s *GormStore) RecordFailure(ctx context.Context, userID uuid.UUID, maxAttempts int, lockFor time.Duration) (int, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	now := time.Now().UTC()
	lockedUntil := now.Add(lockFor)

	result := s.db.WithContext(ctx).Exec(`
		UPDATE user_security_records
		SET login_attempts = CASE
		        WHEN locked_until IS NOT NULL AND locked_until <= ? THEN 1
		        ELSE login_attempts + 1
		    END,
		    locked_until = CASE
		        WHEN (CASE
		            WHEN locked_until IS NOT NULL AND locked_until <= ? THEN 1
		            ELSE login_attempts + 1
		        END) >= ? THEN ?
		        ELSE NULL
		    END,
		    updated_at = ?
		WHERE user_id = ?
		  AND (locked_until IS NULL OR locked_until <= ?)`,
		now, now, maxAttempts, lockedUntil, now, userID, now)
	if result.Error != nil {
		return 0, false, fmt.Errorf("failed to record login failure: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Already locked by a racing attempt; the counter stays put.
		record, err := s.Get(ctx, userID)
		if err != nil {
			return 0, false, err
		}
		return record.LoginAttempts, true, nil
	}

	record, err := s.Get(ctx, userID)
	if err != nil {
		return 0, false, err
	}

	locked := record.LockedUntil != nil && record.LockedUntil.After(time.Now())
	return record.LoginAttempts, locked, nil
}

// RecordSuccess resets the failure counter and clears any lock
// unconditionally.
func (s *GormStore) RecordSuccess(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	result := s.db.WithContext(ctx).Model(&auth.UserSecurityRecord{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"login_attempts": 0,
			"locked_until":   gorm.Expr("NULL"),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to record login success: %w", result.Error)
	}

	return nil
}

// Append writes one immutable audit entry.
func (s *GormStore) Append(ctx context.Context, entry *auth.AuditLog) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	return nil
}

var _ security.UserSecurityStore = (*GormStore)(nil)
var _ security.AuditSink = (*GormStore)(nil)
