package security

import (
	"context"
	"time"

	"github.com/google/uuid"

	"autovista-backend/shared/database/models/auth"
)

// AuthRequest is one login attempt entering the decision state machine.
// The password factor has already been checked by the identity provider
// before the request reaches this core.
type AuthRequest struct {
	UserID      uuid.UUID
	TOTPCode    string
	Fingerprint DeviceFingerprint
	IPAddress   string
	UserAgent   string
}

// Decision is the admission outcome returned to the calling web layer.
// The caller issues a session only when Admitted is true.
type Decision struct {
	Admitted               bool
	Reason                 DenialReason
	LockedRemainingMinutes int
	FirstDevice            bool
}

// SetupResult is returned from TOTP setup: the shared secret and the
// otpauth:// URI the frontend renders as a QR code.
type SetupResult struct {
	Secret          string
	ProvisioningURI string
}

// Authenticator sequences lockout check, device trust and TOTP
// verification into a single admission decision, and writes one audit
// entry per attempt regardless of outcome.
type Authenticator struct {
	store    UserSecurityStore
	sink     AuditSink
	totp     *TOTPManager
	lockout  *LockoutPolicy
	replay   ReplayGuard
	reporter FailureReporter

	// DeviceVerificationRequired makes a fingerprint mismatch a hard
	// denial instead of an advisory signal.
	DeviceVerificationRequired bool

	// TrustRequiresTOTP withholds first-use trust persistence until the
	// TOTP factor (when configured) has passed in the same attempt.
	// When TOTP is not configured for the user the first device is
	// trusted on a plain successful attempt.
	TrustRequiresTOTP bool
}

// AuthenticatorOption configures optional collaborators.
type AuthenticatorOption func(*Authenticator)

// WithReplayGuard wires the anti-replay store for accepted TOTP codes.
func WithReplayGuard(guard ReplayGuard) AuthenticatorOption {
	return func(a *Authenticator) { a.replay = guard }
}

// WithFailureReporter wires the operational monitoring reporter.
func WithFailureReporter(reporter FailureReporter) AuthenticatorOption {
	return func(a *Authenticator) { a.reporter = reporter }
}

// NewAuthenticator creates the orchestrator over the given store, audit
// sink, TOTP manager and lockout policy.
func NewAuthenticator(store UserSecurityStore, sink AuditSink, totp *TOTPManager, lockout *LockoutPolicy, opts ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{
		store:             store,
		sink:              sink,
		totp:              totp,
		lockout:           lockout,
		TrustRequiresTOTP: true,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// SetupTOTP generates a fresh secret for the user and persists it with
// totp_enabled set. The factor stays inactive until the user proves
// possession of the secret through VerifyAndEnableTOTP.
func (a *Authenticator) SetupTOTP(ctx context.Context, userID uuid.UUID, accountLabel string) (*SetupResult, error) {
	secret, uri, err := a.totp.GenerateSecret(accountLabel)
	if err != nil {
		return nil, err
	}

	if err := a.store.SaveTOTPSecret(ctx, userID, secret); err != nil {
		return nil, ErrStorageFailure
	}

	return &SetupResult{Secret: secret, ProvisioningURI: uri}, nil
}

// VerifyAndEnableTOTP activates the TOTP factor once the user submits a
// correct code for the freshly provisioned secret. A wrong code returns
// false without error; a user with no provisioned secret gets
// ErrFactorNotConfigured so the caller can distinguish "not set up"
// from "wrong code".
func (a *Authenticator) VerifyAndEnableTOTP(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	record, err := a.store.Get(ctx, userID)
	if err != nil {
		return false, ErrStorageFailure
	}

	if record.TOTPSecret == "" {
		return false, ErrFactorNotConfigured
	}

	if !a.totp.VerifyCode(record.TOTPSecret, code) {
		return false, nil
	}

	if err := a.store.MarkTOTPVerified(ctx, userID); err != nil {
		return false, ErrStorageFailure
	}

	return true, nil
}

// Authenticate runs the decision state machine: lockout check, then
// fingerprint trust, then TOTP, then counter updates and trust
// persistence. The TOTP factor participates only once it has been
// activated through VerifyAndEnableTOTP; a provisioned but unproven
// secret does not gate login, otherwise an abandoned setup would lock
// the user out. Exactly one audit entry is written per call. Storage
// failures deny admission (fail-closed); audit failures are reported
// but never reverse the decision.
func (a *Authenticator) Authenticate(ctx context.Context, req AuthRequest) (*Decision, error) {
	fingerprintHash := req.Fingerprint.Hash()

	entry := &auth.AuditLog{
		UserID:          req.UserID,
		IPAddress:       req.IPAddress,
		UserAgent:       req.UserAgent,
		FingerprintHash: fingerprintHash,
	}
	defer a.appendAudit(ctx, entry)

	record, err := a.store.Get(ctx, req.UserID)
	if err != nil {
		entry.FailureReason = string(ReasonStorageFailure)
		return &Decision{Reason: ReasonStorageFailure}, ErrStorageFailure
	}

	// Lock check comes first: a locked-out user cannot use a code or a
	// trusted device to bypass the lock, and a locked attempt does not
	// consume attempt budget.
	if state := a.lockout.CheckLock(record); state.Locked {
		entry.FailureReason = string(ReasonAccountLocked)
		return &Decision{
			Reason:                 ReasonAccountLocked,
			LockedRemainingMinutes: remainingMinutes(state.Remaining),
		}, nil
	}

	trust := CheckTrust(record, fingerprintHash)
	entry.DeviceTrusted = trust.Trusted

	deviceFailed := !trust.Trusted && a.DeviceVerificationRequired

	totpActive := record.TOTPEnabled && record.TOTPVerified
	totpPassed := false
	if totpActive {
		entry.TOTPUsed = true
		totpPassed = a.totp.VerifyCode(record.TOTPSecret, req.TOTPCode)
		if totpPassed {
			totpPassed = a.codeNotReplayed(ctx, req.UserID, req.TOTPCode)
		}
	}
	totpFailed := totpActive && !totpPassed

	if deviceFailed || totpFailed {
		reason := ReasonInvalidCode
		if deviceFailed {
			reason = ReasonUntrustedDevice
		}

		_, locked, err := a.lockout.RecordFailure(ctx, req.UserID)
		if err != nil {
			entry.FailureReason = string(ReasonStorageFailure)
			return &Decision{Reason: ReasonStorageFailure}, err
		}

		entry.FailureReason = string(reason)
		decision := &Decision{Reason: reason}
		if locked {
			decision.LockedRemainingMinutes = remainingMinutes(a.lockout.LockoutDuration)
		}
		return decision, nil
	}

	// Every factor configured for the user has passed.
	if err := a.lockout.RecordSuccess(ctx, req.UserID); err != nil {
		entry.FailureReason = string(ReasonStorageFailure)
		return &Decision{Reason: ReasonStorageFailure}, err
	}

	if trust.IsFirstDevice && a.mayTrustFirstDevice(totpActive, totpPassed) {
		if err := StoreTrust(ctx, a.store, req.UserID, fingerprintHash); err != nil {
			entry.FailureReason = string(ReasonStorageFailure)
			return &Decision{Reason: ReasonStorageFailure}, err
		}
	}

	entry.Successful = true
	return &Decision{Admitted: true, FirstDevice: trust.IsFirstDevice}, nil
}

// mayTrustFirstDevice applies the first-use trust policy: under the
// strict posture the first device is persisted only when every other
// configured factor passed in this attempt, which at this point in the
// flow is already the case. The permissive posture trusts the first
// device unconditionally; both collapse to true here on the success
// path, so this only gates the edge where TOTP is configured but the
// policy demands it passed in the same attempt.
func (a *Authenticator) mayTrustFirstDevice(totpActive, totpPassed bool) bool {
	if !a.TrustRequiresTOTP {
		return true
	}
	if totpActive {
		return totpPassed
	}
	return true
}

// codeNotReplayed consults the replay guard. An unavailable guard
// degrades to skew-window-only protection and is reported, it never
// blocks an otherwise valid login.
func (a *Authenticator) codeNotReplayed(ctx context.Context, userID uuid.UUID, code string) bool {
	if a.replay == nil {
		return true
	}

	fresh, err := a.replay.MarkUsed(ctx, userID, code)
	if err != nil {
		if a.reporter != nil {
			a.reporter.ReportDegraded("replay_guard", err)
		}
		return true
	}

	return fresh
}

func (a *Authenticator) appendAudit(ctx context.Context, entry *auth.AuditLog) {
	if err := a.sink.Append(ctx, entry); err != nil {
		if a.reporter != nil {
			a.reporter.ReportDegraded("audit_sink", err)
		}
	}
}

func remainingMinutes(d time.Duration) int {
	minutes := int(d.Round(time.Minute).Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
