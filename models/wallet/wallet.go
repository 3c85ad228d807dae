package wallet

import (
	"time"

	"freight-posting/models/user"
)

// Wallet holds a user's spendable balance. The balance never goes negative;
// the debit inside a payment transaction is the authoritative gate.
type Wallet struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	UserID uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User   user.User `gorm:"foreignKey:UserID" json:"user"`

	Balance float64 `gorm:"not null;default:0;check:balance >= 0" json:"balance"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Wallet model
func (Wallet) TableName() string {
	return "wallets"
}
