package security

import (
	"context"
	"time"

	"github.com/google/uuid"

	"autovista-backend/shared/database/models/auth"
)

// LockoutPolicy tracks consecutive failed attempts per user and locks
// the account for a fixed duration once the threshold is reached.
// Thresholds come from configuration, not constants.
type LockoutPolicy struct {
	MaxAttempts     int
	LockoutDuration time.Duration

	store UserSecurityStore
}

// LockState is the result of a lock check.
type LockState struct {
	Locked    bool
	Remaining time.Duration
}

// NewLockoutPolicy creates a lockout policy over the given store.
func NewLockoutPolicy(store UserSecurityStore, maxAttempts, lockoutMinutes int) *LockoutPolicy {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if lockoutMinutes <= 0 {
		lockoutMinutes = 30
	}
	return &LockoutPolicy{
		MaxAttempts:     maxAttempts,
		LockoutDuration: time.Duration(lockoutMinutes) * time.Minute,
		store:           store,
	}
}

// CheckLock reports whether the record carries an active lock. A
// locked_until in the past counts as open without any cleanup write
// (lazy expiry).
func (p *LockoutPolicy) CheckLock(record *auth.UserSecurityRecord) LockState {
	if record.LockedUntil == nil {
		return LockState{}
	}

	remaining := time.Until(*record.LockedUntil)
	if remaining <= 0 {
		return LockState{}
	}

	return LockState{Locked: true, Remaining: remaining}
}

// RecordFailure counts one more consecutive failure and engages the
// lock when the threshold is reached. The increment is atomic at the
// storage layer so racing attempts cannot under-count.
func (p *LockoutPolicy) RecordFailure(ctx context.Context, userID uuid.UUID) (attempts int, locked bool, err error) {
	attempts, locked, err = p.store.RecordFailure(ctx, userID, p.MaxAttempts, p.LockoutDuration)
	if err != nil {
		return 0, false, ErrStorageFailure
	}
	return attempts, locked, nil
}

// RecordSuccess resets the failure counter and clears any lock.
func (p *LockoutPolicy) RecordSuccess(ctx context.Context, userID uuid.UUID) error {
	if err := p.store.RecordSuccess(ctx, userID); err != nil {
		return ErrStorageFailure
	}
	return nil
}
