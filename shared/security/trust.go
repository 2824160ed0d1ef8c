package security

import (
	"context"

	"github.com/google/uuid"

	"autovista-backend/shared/database/models/auth"
)

// TrustResult is the outcome of comparing the current device against
// the user's trusted baseline.
type TrustResult struct {
	Trusted       bool
	IsFirstDevice bool
}

// CheckTrust compares the fingerprint hash against the stored trusted
// hash. A user with no stored hash gets trust-on-first-use: the result
// is trusted with IsFirstDevice set, and nothing is persisted here.
// The orchestrator decides when first-use trust may be written (only
// after every other configured factor has passed).
func CheckTrust(record *auth.UserSecurityRecord, fingerprintHash string) TrustResult {
	if record.DeviceFingerprintHash == "" {
		return TrustResult{Trusted: true, IsFirstDevice: true}
	}

	return TrustResult{
		Trusted:       record.DeviceFingerprintHash == fingerprintHash,
		IsFirstDevice: false,
	}
}

// StoreTrust persists the fingerprint hash as the trusted device,
// overwriting any previous value. Only called once the orchestrator has
// decided the login is fully successful. A persistence error is a
// storage failure and the login fails closed.
func StoreTrust(ctx context.Context, store UserSecurityStore, userID uuid.UUID, fingerprintHash string) error {
	if err := store.StoreTrustedFingerprint(ctx, userID, fingerprintHash); err != nil {
		return ErrStorageFailure
	}
	return nil
}
