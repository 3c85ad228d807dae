package workflow

import (
	"errors"
	"time"

	"freight-posting/logger"
	"freight-posting/middleware"
	walletService "freight-posting/services/wallet"
	workflowService "freight-posting/services/workflow"
	"freight-posting/types"
	workflowTypes "freight-posting/types/workflow"

	"github.com/gofiber/fiber/v2"
)

// WorkflowController exposes the post activation workflow over HTTP. Each
// session is one draft moving through form, contract, payment and done.
type WorkflowController struct {
	Logger   *logger.AsyncLogger
	Sessions *workflowService.Manager
}

// NewWorkflowController creates a new workflow controller
func NewWorkflowController(asyncLogger *logger.AsyncLogger, sessions *workflowService.Manager) *WorkflowController {
	return &WorkflowController{
		Logger:   asyncLogger,
		Sessions: sessions,
	}
}

// Start opens a workflow session, fresh or resuming an existing post
func (wc *WorkflowController) Start(c *fiber.Ctx) error {
	var req workflowTypes.StartRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
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

	sessionID, o, err := wc.Sessions.Start(userID, middleware.ActorFromClaims(c), req.ResumePostID, workflowService.Step(req.ResumeStep))
	if err != nil {
		logger.Error("Failed to start workflow session", err)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Message: err.Error(),
			Status:  fiber.StatusUnprocessableEntity,
		})
	}

	wc.logRequest(c, fiber.StatusCreated)
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Message:   "Workflow session started",
		Status:    fiber.StatusCreated,
		IsSuccess: true,
		Result: fiber.Map{
			"sessionId": sessionID,
			"state":     o.State(),
		},
	})
}

// State returns the session's current position and derived flags
func (wc *WorkflowController) State(c *fiber.Ctx) error {
	o, err := wc.session(c)
	if o == nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message:   "Workflow state loaded",
		Status:    fiber.StatusOK,
		IsSuccess: true,
		Result:    o.State(),
	})
}

// UpdateForm replaces the draft and feeds the debounced route check
func (wc *WorkflowController) UpdateForm(c *fiber.Ctx) error {
	o, err := wc.session(c)
	if o == nil {
		return err
	}

	var form workflowService.FormInput
	if err := c.BodyParser(&form); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}

	o.UpdateForm(form)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message:   "Form updated",
		Status:    fiber.StatusOK,
		IsSuccess: true,
		Result:    o.State(),
	})
}

// ValidatePhones re-runs both phone checks, as on field blur. The outcome
// lands in the state's per-field error slots.
func (wc *WorkflowController) ValidatePhones(c *fiber.Ctx) error {
	o, err := wc.session(c)
	if o == nil {
		return err
	}

	o.ValidateSenderPhone()
	o.ValidateReceiverPhone()

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message:   "Phone numbers validated",
		Status:    fiber.StatusOK,
		IsSuccess: true,
		Result:    o.State(),
	})
}

// Submit completes step 1 and creates the post at AWAITING_SIGNATURE
func (wc *WorkflowController) Submit(c *fiber.Ctx) error {
	o, err := wc.session(c)
	if o == nil {
		return err
	}

	if err := o.SubmitForm(c.Context()); err != nil {
		return wc.workflowError(c, err)
	}

	wc.logRequest(c, fiber.StatusOK)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message:   "Post created, awaiting signature",
		Status:    fiber.StatusOK,
		IsSuccess: true,
		Result:    o.State(),
	})
}

// Terms records the contract terms acknowledgement
func (wc *WorkflowController) Terms(c *fiber.Ctx) error {
	o, err := wc.session(c)
	if o == nil {
		return err
	}

	var req workflowTypes.TermsRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}

	if err := o.SetAcceptedTerms(req.Accepted); err != nil {
		return wc.workflowError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message:   "Terms acknowledgement recorded",
		Status:    fiber.StatusOK,
		IsSuccess: true,
		Result:    o.State(),
	})
}

// Sign completes step 2 and moves the post to AWAITING_PAYMENT
func (wc *WorkflowController) Sign(c *fiber.Ctx) error {
	o, err := wc.session(c)
	if o == nil {
		return err
	}

	if err := o.SignContract(c.Context()); err != nil {
		return wc.workflowError(c, err)
	}

	wc.logRequest(c, fiber.StatusOK)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message:   "Contract signed, awaiting payment",
		Status:    fiber.StatusOK,
		IsSuccess: true,
		Result:    o.State(),
	})
}

// Pay completes step 3: debit the wallet, then open the post
func (wc *WorkflowController) Pay(c *fiber.Ctx) error {
	o, err := wc.session(c)
	if o == nil {
		return err
	}

	if err := o.Pay(c.Context()); err != nil {
		return wc.workflowError(c, err)
	}

	wc.logRequest(c, fiber.StatusOK)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message:   "Post is now open",
		Status:    fiber.StatusOK,
		IsSuccess: true,
		Result:    o.State(),
	})
}

// Back rewinds the local step focus without undoing committed transitions
func (wc *WorkflowController) Back(c *fiber.Ctx) error {
	o, err := wc.session(c)
	if o == nil {
		return err
	}

	var req workflowTypes.BackRequest
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

	if err := o.Back(workflowService.Step(req.Step)); err != nil {
		return wc.workflowError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message:   "Step changed",
		Status:    fiber.StatusOK,
		IsSuccess: true,
		Result:    o.State(),
	})
}

// Close discards the session's local state
func (wc *WorkflowController) Close(c *fiber.Ctx) error {
	if o, err := wc.session(c); o == nil {
		return err
	}

	if err := wc.Sessions.Close(c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Message: "Workflow session not found",
			Status:  fiber.StatusNotFound,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message:   "Workflow session closed",
		Status:    fiber.StatusOK,
		IsSuccess: true,
	})
}

// session loads the session and enforces that the caller owns it. A nil
// orchestrator means the response has already been written; callers just
// return the accompanying error.
func (wc *WorkflowController) session(c *fiber.Ctx) (*workflowService.Orchestrator, error) {
	userID, err := middleware.UserIDFromClaims(c)
	if err != nil {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Invalid user claims",
			Status:  fiber.StatusUnauthorized,
		})
	}

	o, err := wc.Sessions.Get(c.Params("id"))
	if err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Message: "Workflow session not found",
			Status:  fiber.StatusNotFound,
		})
	}

	if o.UserID() != userID {
		return nil, c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Message: "Workflow session belongs to another user",
			Status:  fiber.StatusForbidden,
		})
	}
	return o, nil
}

// workflowError maps workflow failures onto HTTP statuses. The state snapshot
// rides along so clients can re-render without a second round trip.
func (wc *WorkflowController) workflowError(c *fiber.Ctx, err error) error {
	o, sessionErr := wc.Sessions.Get(c.Params("id"))

	status := fiber.StatusInternalServerError
	switch {
	case workflowService.IsValidationError(err),
		errors.Is(err, workflowService.ErrTermsNotAccepted),
		errors.Is(err, workflowService.ErrRouteInfeasible),
		errors.Is(err, workflowService.ErrInsufficientBalance),
		errors.Is(err, walletService.ErrInsufficientBalance):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, workflowService.ErrBusy),
		errors.Is(err, workflowService.ErrWrongStep),
		errors.Is(err, workflowService.ErrPaymentIncomplete):
		status = fiber.StatusConflict
	}

	resp := types.ApiResponse{
		Message: err.Error(),
		Status:  status,
	}
	if sessionErr == nil {
		resp.Result = o.State()
	}
	return c.Status(status).JSON(resp)
}

func (wc *WorkflowController) logRequest(c *fiber.Ctx, statusCode int) {
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
