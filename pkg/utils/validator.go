package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	fiscalCodeRegex = regexp.MustCompile(`^[A-Z]{6}[0-9]{2}[A-Z][0-9]{2}[A-Z][0-9]{3}[A-Z]$`)
	plateRegex      = regexp.MustCompile(`^[A-Z]{2}[0-9]{5}$`)
	vinRegex        = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)
	controlRegex    = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateFiscalCode validates an Italian codice fiscale (16 characters)
func ValidateFiscalCode(code string) error {
	code = strings.ToUpper(code)
	if len(code) != 16 {
		return fmt.Errorf("fiscal code must be 16 characters: %s", code)
	}
	if !fiscalCodeRegex.MatchString(code) {
		return fmt.Errorf("invalid fiscal code format: %s", code)
	}
	return nil
}

// ValidatePlate validates an Italian motorcycle plate (two letters, five digits)
func ValidatePlate(plate string) error {
	if !plateRegex.MatchString(strings.ToUpper(plate)) {
		return fmt.Errorf("invalid plate format: %s", plate)
	}
	return nil
}

// ValidateVIN validates a 17-character vehicle identification number.
// Letters I, O and Q are excluded per ISO 3779.
func ValidateVIN(vin string) error {
	if !vinRegex.MatchString(strings.ToUpper(vin)) {
		return fmt.Errorf("invalid VIN: %s", vin)
	}
	return nil
}

// SanitizeString trims free-text input and strips control characters
func SanitizeString(s string) string {
	return strings.TrimSpace(controlRegex.ReplaceAllString(s, ""))
}
