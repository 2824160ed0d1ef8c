package security

import (
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codeAt(t *testing.T, secret string, at time.Time) string {
	t.Helper()

	code, err := totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
		Period:    totpPeriod,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	require.NoError(t, err)
	return code
}

func TestGenerateSecret(t *testing.T) {
	m := NewTOTPManager("AutoVista Admin", 1)

	secret, uri, err := m.GenerateSecret("admin@autovista.com")
	require.NoError(t, err)

	assert.NotEmpty(t, secret)
	assert.True(t, strings.HasPrefix(uri, "otpauth://totp/"))
	assert.Contains(t, uri, "admin@autovista.com")
	assert.Contains(t, uri, "issuer=AutoVista")

	// Two setups never share a secret.
	other, _, err := m.GenerateSecret("admin@autovista.com")
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)
}

func TestGenerateSecretRejectsBadLabels(t *testing.T) {
	m := NewTOTPManager("AutoVista Admin", 1)

	_, _, err := m.GenerateSecret("")
	assert.Error(t, err)

	_, _, err = m.GenerateSecret("bad:label")
	assert.Error(t, err)
}

func TestVerifyCodeWithinSkewWindow(t *testing.T) {
	m := NewTOTPManager("AutoVista Admin", 1)

	secret, _, err := m.GenerateSecret("admin@autovista.com")
	require.NoError(t, err)

	now := time.Now().UTC()

	assert.True(t, m.VerifyCode(secret, codeAt(t, secret, now)))
	assert.True(t, m.VerifyCode(secret, codeAt(t, secret, now.Add(-totpPeriod*time.Second))))
	assert.True(t, m.VerifyCode(secret, codeAt(t, secret, now.Add(totpPeriod*time.Second))))
}

func TestVerifyCodeOutsideSkewWindow(t *testing.T) {
	m := NewTOTPManager("AutoVista Admin", 1)

	secret, _, err := m.GenerateSecret("admin@autovista.com")
	require.NoError(t, err)

	now := time.Now().UTC()

	assert.False(t, m.VerifyCode(secret, codeAt(t, secret, now.Add(-3*totpPeriod*time.Second))))
	assert.False(t, m.VerifyCode(secret, codeAt(t, secret, now.Add(3*totpPeriod*time.Second))))
}

func TestVerifyCodeWrongSecret(t *testing.T) {
	m := NewTOTPManager("AutoVista Admin", 1)

	secret, _, err := m.GenerateSecret("admin@autovista.com")
	require.NoError(t, err)
	other, _, err := m.GenerateSecret("admin@autovista.com")
	require.NoError(t, err)

	assert.False(t, m.VerifyCode(other, codeAt(t, secret, time.Now().UTC())))
}

func TestVerifyCodeMalformedInput(t *testing.T) {
	m := NewTOTPManager("AutoVista Admin", 1)

	secret, _, err := m.GenerateSecret("admin@autovista.com")
	require.NoError(t, err)

	assert.False(t, m.VerifyCode(secret, ""))
	assert.False(t, m.VerifyCode(secret, "not-a-code"))
	assert.False(t, m.VerifyCode(secret, "12345"))
	assert.False(t, m.VerifyCode("", "123456"))
	assert.False(t, m.VerifyCode("%%%not-base32%%%", "123456"))
}
