package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTOTPCode(t *testing.T) {
	assert.NoError(t, ValidateTOTPCode("123456"))
	assert.NoError(t, ValidateTOTPCode("12345678"))
	assert.NoError(t, ValidateTOTPCode("  123456  "))

	assert.Error(t, ValidateTOTPCode(""))
	assert.Error(t, ValidateTOTPCode("12345"))
	assert.Error(t, ValidateTOTPCode("123456789"))
	assert.Error(t, ValidateTOTPCode("12ab56"))
	assert.Error(t, ValidateTOTPCode("123 456"))
}

func TestValidateAccountLabel(t *testing.T) {
	assert.NoError(t, ValidateAccountLabel("admin@autovista.com"))
	assert.NoError(t, ValidateAccountLabel("  admin@autovista.com  "))

	assert.Error(t, ValidateAccountLabel(""))
	assert.Error(t, ValidateAccountLabel("admin:autovista"))
	assert.Error(t, ValidateAccountLabel("not-an-email"))
}
