package security

import "errors"

// Error taxonomy for the three-factor core. Everything except
// ErrAuditFailure and ErrStorageFailure is an expected, user-facing
// outcome surfaced as a denial with a reason. ErrStorageFailure is
// always fail-closed: ambiguity about whether a write succeeded must
// never result in admission.
var (
	ErrFactorNotConfigured = errors.New("totp factor not configured for user")
	ErrInvalidCode         = errors.New("invalid or expired totp code")
	ErrUntrustedDevice     = errors.New("device fingerprint does not match trusted device")
	ErrAccountLocked       = errors.New("account is temporarily locked")
	ErrStorageFailure      = errors.New("security store unreachable or write failed")
	ErrAuditFailure        = errors.New("audit log write failed")
)

// DenialReason is the machine-readable reason attached to a denied
// admission decision and to the audit trail.
type DenialReason string

const (
	ReasonAccountLocked   DenialReason = "account_locked"
	ReasonInvalidCode     DenialReason = "invalid_code"
	ReasonUntrustedDevice DenialReason = "untrusted_device"
	ReasonStorageFailure  DenialReason = "storage_failure"
)
