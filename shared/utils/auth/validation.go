package utils

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
)

var totpCodeRegex = regexp.MustCompile(`^[0-9]{6,8}$`)

// ValidateTOTPCode checks the shape of a submitted code before it
// reaches the verifier. Standard codes are 6 digits; 8 is allowed for
// authenticators configured with longer codes.
func ValidateTOTPCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return errors.New("code is required")
	}

	if !totpCodeRegex.MatchString(code) {
		return errors.New("code must be 6 to 8 digits")
	}

	return nil
}

// ValidateAccountLabel checks the TOTP provisioning label. A colon
// breaks the otpauth:// URI format.
func ValidateAccountLabel(label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return errors.New("account label is required")
	}

	if strings.Contains(label, ":") {
		return errors.New("account label cannot contain ':'")
	}

	if _, err := mail.ParseAddress(label); err != nil {
		return errors.New("account label must be a valid email address")
	}

	return nil
}
