package post

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from PostStatus
		to   PostStatus
		want bool
	}{
		{"draft to awaiting signature", PostStatusDraft, PostStatusAwaitingSignature, true},
		{"draft to pending", PostStatusDraft, PostStatusPending, true},
		{"awaiting signature to awaiting payment", PostStatusAwaitingSignature, PostStatusAwaitingPayment, true},
		{"awaiting payment to open", PostStatusAwaitingPayment, PostStatusOpen, true},
		{"open to in progress", PostStatusOpen, PostStatusInProgress, true},
		{"in progress to done", PostStatusInProgress, PostStatusDone, true},
		{"cancel while awaiting payment", PostStatusAwaitingPayment, PostStatusCancelled, true},

		{"no skipping payment", PostStatusAwaitingSignature, PostStatusOpen, false},
		{"no going backward", PostStatusOpen, PostStatusAwaitingPayment, false},
		{"done is terminal", PostStatusDone, PostStatusOpen, false},
		{"cancelled is terminal", PostStatusCancelled, PostStatusPending, false},
		{"draft cannot jump to open", PostStatusDraft, PostStatusOpen, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestCanTransitionToIsIdempotent(t *testing.T) {
	for _, status := range GetAllPostStatuses() {
		assert.True(t, status.CanTransitionTo(status), "re-applying %s must be allowed", status)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, PostStatusDone.IsTerminal())
	assert.True(t, PostStatusCancelled.IsTerminal())
	assert.False(t, PostStatusOpen.IsTerminal())
	assert.False(t, PostStatusDraft.IsTerminal())
}

func TestIsValid(t *testing.T) {
	assert.True(t, PostStatusAwaitingSignature.IsValid())
	assert.False(t, PostStatus("SHIPPED").IsValid())
	assert.False(t, PostStatus("").IsValid())
}
