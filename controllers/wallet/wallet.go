package wallet

import (
	"errors"
	"time"

	"freight-posting/logger"
	"freight-posting/middleware"
	walletService "freight-posting/services/wallet"
	"freight-posting/types"
	walletTypes "freight-posting/types/wallet"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// WalletController handles wallet HTTP requests
type WalletController struct {
	DB      *gorm.DB
	Logger  *logger.AsyncLogger
	Wallets *walletService.Service
}

// NewWalletController creates a new wallet controller
func NewWalletController(db *gorm.DB, asyncLogger *logger.AsyncLogger, wallets *walletService.Service) *WalletController {
	return &WalletController{
		DB:      db,
		Logger:  asyncLogger,
		Wallets: wallets,
	}
}

// Me returns the caller's wallet balance
func (wc *WalletController) Me(c *fiber.Ctx) error {
	userID, err := middleware.UserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Invalid user claims",
			Status:  fiber.StatusUnauthorized,
		})
	}

	w, err := wc.Wallets.GetByUserID(userID)
	if err != nil {
		logger.Error("Failed to load wallet", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Database error",
			Status:  fiber.StatusInternalServerError,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message:   "Wallet loaded",
		Status:    fiber.StatusOK,
		IsSuccess: true,
		Result:    walletTypes.WalletResult{Balance: w.Balance},
	})
}

// CreatePayment debits the wallet for a post activation fee
func (wc *WalletController) CreatePayment(c *fiber.Ctx) error {
	var req walletTypes.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: err.Error(),
			Status:  fiber.StatusBadRequest,
		})
	}

	userID, err := middleware.UserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Invalid user claims",
			Status:  fiber.StatusUnauthorized,
		})
	}

	entry, err := wc.Wallets.CreatePayment(userID, &req)
	if err != nil {
		status := fiber.StatusInternalServerError
		msg := "Failed to create payment"
		switch {
		case errors.Is(err, walletService.ErrInsufficientBalance):
			status = fiber.StatusUnprocessableEntity
			msg = "Insufficient wallet balance"
		case errors.Is(err, walletService.ErrWalletNotFound):
			status = fiber.StatusNotFound
			msg = "Wallet not found"
		}
		return c.Status(status).JSON(types.ApiResponse{
			Message: msg,
			Status:  status,
		})
	}

	wc.logRequest(c, fiber.StatusCreated)
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Message:   "Payment recorded",
		Status:    fiber.StatusCreated,
		IsSuccess: true,
		Result:    entry,
	})
}

// Topup credits the wallet
func (wc *WalletController) Topup(c *fiber.Ctx) error {
	var req walletTypes.TopupRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: err.Error(),
			Status:  fiber.StatusBadRequest,
		})
	}

	userID, err := middleware.UserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Invalid user claims",
			Status:  fiber.StatusUnauthorized,
		})
	}

	w, err := wc.Wallets.Topup(userID, &req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to top up wallet",
			Status:  fiber.StatusInternalServerError,
		})
	}

	wc.logRequest(c, fiber.StatusOK)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message:   "Wallet topped up",
		Status:    fiber.StatusOK,
		IsSuccess: true,
		Result:    walletTypes.WalletResult{Balance: w.Balance},
	})
}

// History lists the wallet's ledger entries
func (wc *WalletController) History(c *fiber.Ctx) error {
	userID, err := middleware.UserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Invalid user claims",
			Status:  fiber.StatusUnauthorized,
		})
	}

	entries, err := wc.Wallets.History(userID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		logger.Error("Failed to load wallet history", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Database error",
			Status:  fiber.StatusInternalServerError,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message:   "Wallet history loaded",
		Status:    fiber.StatusOK,
		IsSuccess: true,
		Result:    entries,
	})
}

func (wc *WalletController) logRequest(c *fiber.Ctx, statusCode int) {
	if wc.Logger == nil {
		return
	}
	wc.Logger.Log(types.LogEntry{
		Method:      c.Method(),
		URL:         c.OriginalURL(),
		RequestBody: string(c.Body()),
		StatusCode:  statusCode,
		CreatedAt:   time.Now(),
	})
}
