package wallet

import (
	"time"
)

// TransactionType classifies a wallet ledger entry.
type TransactionType string

const (
	TransactionTypeTopup       TransactionType = "TOPUP"
	TransactionTypePostPayment TransactionType = "POST_PAYMENT"
	TransactionTypeWithdrawal  TransactionType = "WITHDRAWAL"
)

func (tt TransactionType) IsValid() bool {
	switch tt {
	case TransactionTypeTopup, TransactionTypePostPayment, TransactionTypeWithdrawal:
		return true
	default:
		return false
	}
}

// TransactionStatus is the settlement state of a ledger entry.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction is one immutable wallet ledger entry. Amount is positive for
// credits and negative for debits.
type Transaction struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	WalletID uint   `gorm:"not null;index" json:"wallet_id"`
	Wallet   Wallet `gorm:"foreignKey:WalletID" json:"wallet"`

	Amount      float64           `gorm:"not null" json:"amount"`
	Type        TransactionType   `gorm:"type:varchar(30);not null;index" json:"type"`
	Status      TransactionStatus `gorm:"type:varchar(20);not null" json:"status"`
	PostID      *string           `gorm:"type:uuid;index" json:"post_id,omitempty"`
	Description string            `gorm:"type:text" json:"description"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the Transaction model
func (Transaction) TableName() string {
	return "wallet_transactions"
}
