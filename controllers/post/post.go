package post

import (
	"errors"
	"fmt"
	"time"

	"freight-posting/logger"
	"freight-posting/middleware"
	analysisService "freight-posting/services/analysis"
	postService "freight-posting/services/post"
	"freight-posting/types"
	postTypes "freight-posting/types/post"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PostController handles freight post HTTP requests
type PostController struct {
	DB       *gorm.DB
	Logger   *logger.AsyncLogger
	Posts    *postService.Service
	Analysis *analysisService.Service
}

// NewPostController creates a new post controller
func NewPostController(db *gorm.DB, asyncLogger *logger.AsyncLogger, posts *postService.Service, analysis *analysisService.Service) *PostController {
	return &PostController{
		DB:       db,
		Logger:   asyncLogger,
		Posts:    posts,
		Analysis: analysis,
	}
}

// Store creates a new freight post carrying its initial status
func (pc *PostController) Store(c *fiber.Ctx) error {
	var req postTypes.PostCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}

	providerID, err := middleware.UserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Invalid user claims",
			Status:  fiber.StatusUnauthorized,
		})
	}

	created, err := pc.Posts.Create(&req, providerID, middleware.ActorFromClaims(c))
	if err != nil {
		status := fiber.StatusInternalServerError
		msg := "Failed to create post"
		switch {
		case errors.Is(err, postService.ErrPackageNotFound),
			errors.Is(err, postService.ErrInvalidTransition):
			status = fiber.StatusUnprocessableEntity
			msg = err.Error()
		case req.Validate() != nil:
			status = fiber.StatusBadRequest
			msg = err.Error()
		}
		return c.Status(status).JSON(types.ApiResponse{
			Message: msg,
			Status:  status,
		})
	}

	pc.logRequest(c, fiber.StatusCreated)
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Message:   "Post created successfully",
		Status:    fiber.StatusCreated,
		IsSuccess: true,
		Result: postTypes.PostCreateResult{
			PostID: created.ID,
			Status: created.Status,
		},
	})
}

// UpdateStatus moves a post through its lifecycle
func (pc *PostController) UpdateStatus(c *fiber.Ctx) error {
	postID := c.Params("id")

	var req postTypes.StatusUpdateRequest
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

	updated, err := pc.Posts.UpdateStatus(postID, req.Status, middleware.ActorFromClaims(c))
	if err != nil {
		status := fiber.StatusInternalServerError
		msg := "Failed to update post status"
		switch {
		case errors.Is(err, postService.ErrPostNotFound):
			status = fiber.StatusNotFound
			msg = "Post not found"
		case errors.Is(err, postService.ErrInvalidTransition):
			status = fiber.StatusUnprocessableEntity
			msg = err.Error()
		}
		return c.Status(status).JSON(types.ApiResponse{
			Message: msg,
			Status:  status,
		})
	}

	pc.logRequest(c, fiber.StatusOK)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message:   fmt.Sprintf("Post status updated to %s", updated.Status),
		Status:    fiber.StatusOK,
		IsSuccess: true,
		Result:    updated,
	})
}

// Show returns one post with its package links
func (pc *PostController) Show(c *fiber.Ctx) error {
	found, err := pc.Posts.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, postService.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "Post not found",
				Status:  fiber.StatusNotFound,
			})
		}
		logger.Error("Failed to load post", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Database error",
			Status:  fiber.StatusInternalServerError,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message:   "Post loaded",
		Status:    fiber.StatusOK,
		IsSuccess: true,
		Result:    found,
	})
}

// PendingPackages lists the provider's packages still free to attach
func (pc *PostController) PendingPackages(c *fiber.Ctx) error {
	providerID, err := middleware.UserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Invalid user claims",
			Status:  fiber.StatusUnauthorized,
		})
	}

	packages, err := pc.Posts.ListPendingPackages(providerID)
	if err != nil {
		logger.Error("Failed to list pending packages", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Database error",
			Status:  fiber.StatusInternalServerError,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message:   "Pending packages loaded",
		Status:    fiber.StatusOK,
		IsSuccess: true,
		Result:    packages,
	})
}

// Analyze asks the AI reviewer for a qualitative read on a post
func (pc *PostController) Analyze(c *fiber.Ctx) error {
	found, err := pc.Posts.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, postService.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "Post not found",
				Status:  fiber.StatusNotFound,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Database error",
			Status:  fiber.StatusInternalServerError,
		})
	}

	result, err := pc.Analysis.AnalyzePost(c.Context(), found)
	if err != nil {
		logger.Error("Post analysis failed", err)
		return c.Status(fiber.StatusBadGateway).JSON(types.ApiResponse{
			Message: "Post analysis is unavailable right now",
			Status:  fiber.StatusBadGateway,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message:   "Post analysed",
		Status:    fiber.StatusOK,
		IsSuccess: true,
		Result:    result,
	})
}

func (pc *PostController) logRequest(c *fiber.Ctx, statusCode int) {
	if pc.Logger == nil {
		return
	}
	pc.Logger.Log(types.LogEntry{
		Method:      c.Method(),
		URL:         c.OriginalURL(),
		RequestBody: string(c.Body()),
		StatusCode:  statusCode,
		CreatedAt:   time.Now(),
	})
}
