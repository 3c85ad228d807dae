package wallet

import (
	"fmt"

	walletModel "freight-posting/models/wallet"
)

// PaymentRequest represents the request for debiting the wallet.
type PaymentRequest struct {
	Amount      float64                     `json:"amount" validate:"required,gt=0"`
	Type        walletModel.TransactionType `json:"type" validate:"required"`
	PostID      *string                     `json:"postId,omitempty"`
	Description string                      `json:"description"`
}

// Validate validates the PaymentRequest fields
func (r *PaymentRequest) Validate() error {
	if r.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if !r.Type.IsValid() {
		return fmt.Errorf("type %q is not a valid transaction type", r.Type)
	}
	if r.Type == walletModel.TransactionTypePostPayment && (r.PostID == nil || *r.PostID == "") {
		return fmt.Errorf("postId is required for POST_PAYMENT")
	}
	return nil
}

// TopupRequest represents the request for crediting the wallet.
type TopupRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description"`
}

// Validate validates the TopupRequest fields
func (r *TopupRequest) Validate() error {
	if r.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}

// WalletResult is the read-only wallet snapshot handed to clients.
type WalletResult struct {
	Balance float64 `json:"balance"`
}
