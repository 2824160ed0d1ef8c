package security

import (
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// totpPeriod is the standard TOTP time step in seconds.
const totpPeriod = 30

// TOTPManager generates per-user shared secrets and verifies submitted
// codes against them within a bounded clock-skew window.
type TOTPManager struct {
	issuer string
	skew   uint
}

// NewTOTPManager creates a TOTP manager. skewSteps is the number of
// 30-second steps tolerated on either side of the current one.
func NewTOTPManager(issuer string, skewSteps int) *TOTPManager {
	if strings.TrimSpace(issuer) == "" {
		issuer = "AutoVista Admin"
	}
	if skewSteps < 0 {
		skewSteps = 1
	}
	return &TOTPManager{
		issuer: issuer,
		skew:   uint(skewSteps),
	}
}

// GenerateSecret produces a fresh random shared secret and the
// otpauth:// provisioning URI to embed as a QR code. It has no side
// effects; the caller persists the secret through the setup flow.
func (m *TOTPManager) GenerateSecret(accountLabel string) (secret string, provisioningURI string, err error) {
	accountLabel = strings.TrimSpace(accountLabel)
	if accountLabel == "" {
		return "", "", fmt.Errorf("account label is required for totp secret generation")
	}
	if strings.Contains(accountLabel, ":") {
		return "", "", fmt.Errorf("account label cannot contain a colon character")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      m.issuer,
		AccountName: accountLabel,
		Period:      totpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
		SecretSize:  20, // 160 bits
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate totp key: %w", err)
	}

	return key.Secret(), key.URL(), nil
}

// VerifyCode checks the submitted code against the expected codes for
// the current time step plus/minus the skew window. The underlying
// comparison is constant-time. Malformed input returns false, it never
// panics.
func (m *TOTPManager) VerifyCode(secret, code string) bool {
	code = strings.TrimSpace(code)
	if secret == "" || code == "" {
		return false
	}

	valid, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      m.skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}

	return valid
}
