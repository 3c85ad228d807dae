package route

import (
	"freight-posting/logger"
	routecheckService "freight-posting/services/routecheck"
	"freight-posting/types"
	postTypes "freight-posting/types/post"

	"github.com/gofiber/fiber/v2"
)

// RouteController handles route feasibility HTTP requests
type RouteController struct {
	Routes *routecheckService.Service
}

// NewRouteController creates a new route controller
func NewRouteController(routes *routecheckService.Service) *RouteController {
	return &RouteController{Routes: routes}
}

// Calculate runs one synchronous feasibility check. Infeasible routes and
// geocoding failures are reported inside the result, not as HTTP errors.
func (rc *RouteController) Calculate(c *fiber.Ctx) error {
	var req postTypes.RouteCalculationRequest
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

	result := rc.Routes.Validate(c.Context(), routecheckService.Input{
		Start: routecheckService.Endpoint{
			Address:   req.StartLocation.Address,
			Latitude:  req.StartLocation.Latitude,
			Longitude: req.StartLocation.Longitude,
		},
		End: routecheckService.Endpoint{
			Address:   req.EndLocation.Address,
			Latitude:  req.EndLocation.Latitude,
			Longitude: req.EndLocation.Longitude,
		},
		ExpectedPickupDate:   req.ExpectedPickupDate,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
	})

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message:   "Route feasibility calculated",
		Status:    fiber.StatusOK,
		IsSuccess: true,
		Result:    result,
	})
}
