package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// Vietnamese mobile numbers: a leading 0 or +84 followed by a valid operator
// prefix digit (3, 5, 7, 8, 9) and 8 more digits.
var vietnamesePhoneRegex = regexp.MustCompile(`^(0[35789][0-9]{8}|\+84[35789][0-9]{8})$`)

// NormalizePhone strips the separators users commonly type into phone fields.
func NormalizePhone(phone string) string {
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")
	return phone
}

// IsVietnamesePhone reports whether the value is a valid Vietnamese mobile number.
func IsVietnamesePhone(phone string) bool {
	if phone == "" {
		return false
	}
	return vietnamesePhoneRegex.MatchString(NormalizePhone(phone))
}

// ValidatePhone returns a user-facing reason when the number is not acceptable.
func ValidatePhone(phone string) error {
	if phone == "" {
		return fmt.Errorf("phone number is required")
	}
	if !IsVietnamesePhone(phone) {
		return fmt.Errorf("invalid phone number (expected 0912345678 or +84912345678)")
	}
	return nil
}
