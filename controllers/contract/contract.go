package contract

import (
	"errors"

	"freight-posting/logger"
	contractModel "freight-posting/models/contract"
	contractService "freight-posting/services/contract"
	"freight-posting/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ContractController handles contract template HTTP requests
type ContractController struct {
	DB        *gorm.DB
	Contracts *contractService.Service
}

// NewContractController creates a new contract controller
func NewContractController(db *gorm.DB, contracts *contractService.Service) *ContractController {
	return &ContractController{
		DB:        db,
		Contracts: contracts,
	}
}

// LatestProviderTemplate returns the template shown during post activation
func (cc *ContractController) LatestProviderTemplate(c *fiber.Ctx) error {
	template, err := cc.Contracts.LatestProviderTemplate()
	if err != nil {
		if errors.Is(err, contractService.ErrTemplateNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "No provider contract template available",
				Status:  fiber.StatusNotFound,
			})
		}
		logger.Error("Failed to load provider contract template", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Database error",
			Status:  fiber.StatusInternalServerError,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message:   "Contract template loaded",
		Status:    fiber.StatusOK,
		IsSuccess: true,
		Result:    template,
	})
}

// LatestByType returns the newest template for an explicit contract type
func (cc *ContractController) LatestByType(c *fiber.Ctx) error {
	contractType := contractModel.ContractType(c.Params("type"))
	if contractType != contractModel.ContractTypeProvider && contractType != contractModel.ContractTypeDriver {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Unknown contract type",
			Status:  fiber.StatusBadRequest,
		})
	}

	template, err := cc.Contracts.LatestByType(contractType)
	if err != nil {
		if errors.Is(err, contractService.ErrTemplateNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "No contract template available",
				Status:  fiber.StatusNotFound,
			})
		}
		logger.Error("Failed to load contract template", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Database error",
			Status:  fiber.StatusInternalServerError,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message:   "Contract template loaded",
		Status:    fiber.StatusOK,
		IsSuccess: true,
		Result:    template,
	})
}
