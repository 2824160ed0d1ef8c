package security

import (
	"context"
	"time"

	"github.com/google/uuid"

	"autovista-backend/shared/database/models/auth"
)

// UserSecurityStore is the external user-record store the core reads
// and writes security fields through. Counter mutations must be atomic
// at the storage layer: two concurrent failed attempts for the same
// user must both be counted.
type UserSecurityStore interface {
	// Get returns the security record for the user, creating the
	// zero-valued record on first access.
	Get(ctx context.Context, userID uuid.UUID) (*auth.UserSecurityRecord, error)

	// SaveTOTPSecret persists a freshly generated secret and flips
	// totp_enabled; totp_verified stays false until the user proves
	// possession of the secret.
	SaveTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error

	// MarkTOTPVerified activates the TOTP factor after a correct code.
	MarkTOTPVerified(ctx context.Context, userID uuid.UUID) error

	// StoreTrustedFingerprint overwrites the trusted device hash.
	StoreTrustedFingerprint(ctx context.Context, userID uuid.UUID, hash string) error

	// RecordFailure atomically increments login_attempts and, when the
	// new count reaches maxAttempts, sets locked_until to now+lockFor.
	// A failure against an expired lock restarts the count at 1 and
	// clears the stale lock unless the threshold re-engages. Returns the
	// post-update count and whether the lock engaged.
	RecordFailure(ctx context.Context, userID uuid.UUID, maxAttempts int, lockFor time.Duration) (attempts int, locked bool, err error)

	// RecordSuccess resets login_attempts to 0 and clears locked_until.
	RecordSuccess(ctx context.Context, userID uuid.UUID) error
}

// AuditSink receives one immutable entry per authentication attempt.
type AuditSink interface {
	Append(ctx context.Context, entry *auth.AuditLog) error
}

// ReplayGuard remembers accepted TOTP codes for the length of the skew
// window so a captured code cannot be submitted twice. It is an
// advisory control: implementations report availability problems
// through the returned error and the orchestrator degrades to
// skew-window-only protection.
type ReplayGuard interface {
	// MarkUsed records the accepted (user, code) pair. fresh is false
	// when the pair was already present.
	MarkUsed(ctx context.Context, userID uuid.UUID, code string) (fresh bool, err error)
}

// FailureReporter receives operational reports for degraded-mode
// conditions (audit sink down, replay guard unavailable). Reports never
// block or reverse an admission decision.
type FailureReporter interface {
	ReportDegraded(component string, err error)
}
