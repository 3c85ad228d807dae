package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSufficientBalance(t *testing.T) {
	assert.True(t, SufficientBalance(150000, 150000))
	assert.True(t, SufficientBalance(200000, 150000))
	assert.False(t, SufficientBalance(100000, 150000))
	assert.True(t, SufficientBalance(0, 0))
}

func TestTopupDeficit(t *testing.T) {
	tests := []struct {
		name    string
		balance float64
		price   float64
		want    float64
	}{
		{"balance below price", 100000, 150000, 50000},
		{"balance equals price", 150000, 150000, 0},
		{"balance above price", 200000, 150000, 0},
		{"fractional deficit rounds up", 100000.5, 150000, 50000},
		{"zero balance", 0, 150000, 150000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TopupDeficit(tt.balance, tt.price))
		})
	}
}
