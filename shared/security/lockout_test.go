package security

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFailureLocksAtThreshold(t *testing.T) {
	store := newMemoryStore()
	policy := NewLockoutPolicy(store, 5, 30)
	userID := uuid.New()
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		attempts, locked, err := policy.RecordFailure(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, i, attempts)
		assert.False(t, locked)
	}

	attempts, locked, err := policy.RecordFailure(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 5, attempts)
	assert.True(t, locked)

	record := store.mustRecord(userID)
	require.NotNil(t, record.LockedUntil)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), *record.LockedUntil, 5*time.Second)
}

func TestRecordFailureWhileLockedDoesNotIncrement(t *testing.T) {
	store := newMemoryStore()
	policy := NewLockoutPolicy(store, 5, 30)
	userID := uuid.New()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := policy.RecordFailure(ctx, userID)
		require.NoError(t, err)
	}

	// Automated retries against a locked account must not extend the
	// lockout bookkeeping.
	attempts, locked, err := policy.RecordFailure(ctx, userID)
	require.NoError(t, err)
	assert.True(t, locked)
	assert.Equal(t, 5, attempts)
	assert.Equal(t, 5, store.mustRecord(userID).LoginAttempts)
}

func TestCheckLockLazyExpiry(t *testing.T) {
	store := newMemoryStore()
	policy := NewLockoutPolicy(store, 5, 30)
	userID := uuid.New()

	expired := time.Now().Add(-time.Minute)
	record := store.mustRecord(userID)
	record.LoginAttempts = 5
	record.LockedUntil = &expired

	// No explicit unlock call: a lock in the past reads as open.
	state := policy.CheckLock(record)
	assert.False(t, state.Locked)
}

func TestRecordFailureRestartsCounterAfterLockExpiry(t *testing.T) {
	store := newMemoryStore()
	policy := NewLockoutPolicy(store, 5, 30)
	userID := uuid.New()
	ctx := context.Background()

	expired := time.Now().Add(-time.Minute)
	record := store.mustRecord(userID)
	record.LoginAttempts = 5
	record.LockedUntil = &expired

	// The first failure after the lock expires starts a fresh count; it
	// must not stack on the pre-lock failures and re-lock immediately.
	attempts, locked, err := policy.RecordFailure(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.False(t, locked)

	record = store.mustRecord(userID)
	assert.Equal(t, 1, record.LoginAttempts)
	assert.Nil(t, record.LockedUntil)
}

func TestCheckLockReportsRemaining(t *testing.T) {
	store := newMemoryStore()
	policy := NewLockoutPolicy(store, 5, 30)
	userID := uuid.New()

	until := time.Now().Add(20 * time.Minute)
	record := store.mustRecord(userID)
	record.LockedUntil = &until

	state := policy.CheckLock(record)
	assert.True(t, state.Locked)
	assert.InDelta(t, 20*time.Minute, state.Remaining, float64(5*time.Second))
}

func TestRecordSuccessResetsUnconditionally(t *testing.T) {
	store := newMemoryStore()
	policy := NewLockoutPolicy(store, 5, 30)
	userID := uuid.New()
	ctx := context.Background()

	until := time.Now().Add(10 * time.Minute)
	record := store.mustRecord(userID)
	record.LoginAttempts = 5
	record.LockedUntil = &until

	require.NoError(t, policy.RecordSuccess(ctx, userID))

	record = store.mustRecord(userID)
	assert.Equal(t, 0, record.LoginAttempts)
	assert.Nil(t, record.LockedUntil)
}

func TestLockoutStorageFailureSurfaces(t *testing.T) {
	store := newMemoryStore()
	store.failWrites = true
	policy := NewLockoutPolicy(store, 5, 30)
	ctx := context.Background()

	_, _, err := policy.RecordFailure(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrStorageFailure)

	err = policy.RecordSuccess(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrStorageFailure)
}

func TestNewLockoutPolicyDefaults(t *testing.T) {
	policy := NewLockoutPolicy(newMemoryStore(), 0, 0)

	assert.Equal(t, 5, policy.MaxAttempts)
	assert.Equal(t, 30*time.Minute, policy.LockoutDuration)
}
