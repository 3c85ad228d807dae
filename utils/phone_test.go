package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsVietnamesePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  bool
	}{
		{"local format", "0912345678", true},
		{"international format", "+84912345678", true},
		{"viettel prefix", "0352345678", true},
		{"vinaphone international", "+84812345678", true},
		{"too short", "12345", false},
		{"double zero prefix", "0012345678", false},
		{"empty", "", false},
		{"invalid operator digit", "0112345678", false},
		{"local too long", "09123456789", false},
		{"international missing digit", "+8491234567", false},
		{"letters", "09123abc78", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVietnamesePhone(tt.phone))
		})
	}
}

func TestIsVietnamesePhoneNormalizesSeparators(t *testing.T) {
	assert.True(t, IsVietnamesePhone("091 234 5678"))
	assert.True(t, IsVietnamesePhone("091-234-5678"))
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("0912345678"))
	assert.NoError(t, ValidatePhone("+84912345678"))

	err := ValidatePhone("")
	assert.EqualError(t, err, "phone number is required")

	assert.Error(t, ValidatePhone("12345"))
	assert.Error(t, ValidatePhone("0012345678"))
}
