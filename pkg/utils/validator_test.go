package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("mario.rossi@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail(""))
}

func TestValidateFiscalCode(t *testing.T) {
	assert.NoError(t, ValidateFiscalCode("RSSMRA80A01H501U"))
	assert.Error(t, ValidateFiscalCode("SHORT"))
	assert.Error(t, ValidateFiscalCode("rssmra80a01h501u1"))
}

func TestValidatePlate(t *testing.T) {
	assert.NoError(t, ValidatePlate("AB12345"))
	assert.NoError(t, ValidatePlate("ab12345"))
	assert.Error(t, ValidatePlate("1234567"))
	assert.Error(t, ValidatePlate("ABC1234"))
}

func TestValidateVIN(t *testing.T) {
	assert.NoError(t, ValidateVIN("ZDMH123AA1B234567"))
	assert.Error(t, ValidateVIN("ZDMH123AA1B23456"))  // 16 chars
	assert.Error(t, ValidateVIN("ZDMI123AA1B234567")) // contains I
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  "))
	assert.Equal(t, "ab", SanitizeString("a\x00b"))
}
