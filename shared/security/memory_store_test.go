package security

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"autovista-backend/shared/database/models/auth"
)

// memoryStore is an in-process UserSecurityStore and AuditSink with the
// same counter semantics as the gorm-backed store, plus failure
// injection for the fail-closed paths.
type memoryStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*auth.UserSecurityRecord
	entries []*auth.AuditLog

	failReads   bool
	failWrites  bool
	failAppends bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		records: make(map[uuid.UUID]*auth.UserSecurityRecord),
	}
}

var errInjected = errors.New("injected store failure")

func (s *memoryStore) get(userID uuid.UUID) *auth.UserSecurityRecord {
	record, ok := s.records[userID]
	if !ok {
		record = &auth.UserSecurityRecord{ID: uuid.New(), UserID: userID}
		s.records[userID] = record
	}
	return record
}

func (s *memoryStore) Get(ctx context.Context, userID uuid.UUID) (*auth.UserSecurityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failReads {
		return nil, errInjected
	}

	copied := *s.get(userID)
	return &copied, nil
}

func (s *memoryStore) SaveTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites {
		return errInjected
	}

	record := s.get(userID)
	record.TOTPSecret = secret
	record.TOTPEnabled = true
	record.TOTPVerified = false
	return nil
}

func (s *memoryStore) MarkTOTPVerified(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites {
		return errInjected
	}

	record := s.get(userID)
	if !record.TOTPEnabled {
		return errors.New("no enabled totp factor")
	}
	record.TOTPVerified = true
	return nil
}

func (s *memoryStore) StoreTrustedFingerprint(ctx context.Context, userID uuid.UUID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites {
		return errInjected
	}

	s.get(userID).DeviceFingerprintHash = hash
	return nil
}

func (s *memoryStore) RecordFailure(ctx context.Context, userID uuid.UUID, maxAttempts int, lockFor time.Duration) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites {
		return 0, false, errInjected
	}

	record := s.get(userID)

	if record.LockedUntil != nil && record.LockedUntil.After(time.Now()) {
		return record.LoginAttempts, true, nil
	}

	// An expired lock restarts the counter.
	if record.LockedUntil != nil {
		record.LoginAttempts = 1
	} else {
		record.LoginAttempts++
	}
	record.LockedUntil = nil

	if record.LoginAttempts >= maxAttempts {
		lockedUntil := time.Now().Add(lockFor)
		record.LockedUntil = &lockedUntil
		return record.LoginAttempts, true, nil
	}

	return record.LoginAttempts, false, nil
}

func (s *memoryStore) RecordSuccess(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites {
		return errInjected
	}

	record := s.get(userID)
	record.LoginAttempts = 0
	record.LockedUntil = nil
	return nil
}

func (s *memoryStore) Append(ctx context.Context, entry *auth.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failAppends {
		return errInjected
	}

	s.entries = append(s.entries, entry)
	return nil
}

// mustRecord returns the live record for assertions.
func (s *memoryStore) mustRecord(userID uuid.UUID) *auth.UserSecurityRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(userID)
}

func (s *memoryStore) auditCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *memoryStore) lastAudit() *auth.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return nil
	}
	return s.entries[len(s.entries)-1]
}

// memoryReplayGuard remembers accepted codes per user.
type memoryReplayGuard struct {
	mu   sync.Mutex
	used map[string]bool
	fail bool
}

func newMemoryReplayGuard() *memoryReplayGuard {
	return &memoryReplayGuard{used: make(map[string]bool)}
}

func (g *memoryReplayGuard) MarkUsed(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.fail {
		return false, errInjected
	}

	key := userID.String() + ":" + code
	if g.used[key] {
		return false, nil
	}
	g.used[key] = true
	return true, nil
}

// recordingReporter captures degraded-mode reports.
type recordingReporter struct {
	mu         sync.Mutex
	components []string
}

func (r *recordingReporter) ReportDegraded(component string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components = append(r.components, component)
}
