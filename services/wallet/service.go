package wallet

import (
	"errors"
	"fmt"
	"math"

	"freight-posting/logger"
	walletModel "freight-posting/models/wallet"
	walletTypes "freight-posting/types/wallet"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
)

// SufficientBalance is the snapshot check gating the payment action. The
// balance may still change before the payment call; the debit inside
// CreatePayment is the authoritative gate.
func SufficientBalance(balance, price float64) bool {
	return balance >= price
}

// TopupDeficit is how much the user must top up before the payment action
// becomes available, floored at zero and rounded up to a whole currency unit.
func TopupDeficit(balance, price float64) float64 {
	deficit := price - balance
	if deficit <= 0 {
		return 0
	}
	return math.Ceil(deficit)
}

// Service owns wallet balances and the transaction ledger.
type Service struct {
	DB *gorm.DB
}

// NewService creates a new wallet service
func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// GetByUserID returns the user's wallet, creating an empty one on first use.
func (s *Service) GetByUserID(userID uint) (*walletModel.Wallet, error) {
	var w walletModel.Wallet
	err := s.DB.Where("user_id = ?", userID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		w = walletModel.Wallet{UserID: userID, Balance: 0}
		if err := s.DB.Create(&w).Error; err != nil {
			return nil, err
		}
		return &w, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Topup credits the wallet and records a ledger entry.
func (s *Service) Topup(userID uint, req *walletTypes.TopupRequest) (*walletModel.Wallet, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	w, err := s.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&walletModel.Wallet{}).
			Where("id = ?", w.ID).
			Update("balance", gorm.Expr("balance + ?", req.Amount)).Error; err != nil {
			return err
		}

		entry := walletModel.Transaction{
			WalletID:    w.ID,
			Amount:      req.Amount,
			Type:        walletModel.TransactionTypeTopup,
			Status:      walletModel.TransactionStatusCompleted,
			Description: req.Description,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		logger.Error("Failed to top up wallet", err)
		return nil, err
	}

	w.Balance += req.Amount
	logger.Success(fmt.Sprintf("Wallet %d topped up by %.0f", w.ID, req.Amount))
	return w, nil
}

// CreatePayment debits the wallet. The balance is re-checked under a row lock
// inside the transaction, so a stale snapshot from the balance gate can never
// overdraw the wallet.
func (s *Service) CreatePayment(userID uint, req *walletTypes.PaymentRequest) (*walletModel.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var entry walletModel.Transaction
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var w walletModel.Wallet
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&w).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWalletNotFound
			}
			return err
		}

		if w.Balance < req.Amount {
			return ErrInsufficientBalance
		}

		if err := tx.Model(&walletModel.Wallet{}).
			Where("id = ?", w.ID).
			Update("balance", gorm.Expr("balance - ?", req.Amount)).Error; err != nil {
			return err
		}

		entry = walletModel.Transaction{
			WalletID:    w.ID,
			Amount:      -req.Amount,
			Type:        req.Type,
			Status:      walletModel.TransactionStatusCompleted,
			PostID:      req.PostID,
			Description: req.Description,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		if !errors.Is(err, ErrInsufficientBalance) {
			logger.Error("Failed to create payment", err)
		}
		return nil, err
	}

	logger.Success(fmt.Sprintf("Payment of %.0f recorded for wallet %d", req.Amount, entry.WalletID))
	return &entry, nil
}

// History lists the wallet's ledger entries, newest first.
func (s *Service) History(userID uint, limit, offset int) ([]walletModel.Transaction, error) {
	w, err := s.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var entries []walletModel.Transaction
	err = s.DB.Where("wallet_id = ?", w.ID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	return entries, err
}
