package workflow

import (
	"errors"
	"fmt"
)

// The workflow distinguishes failure classes because each needs a different
// corrective action from the user: fix the form, change the dates, top up the
// wallet, or simply retry.
var (
	// ErrBusy means a remote call for this workflow is still in flight;
	// the triggering control must stay disabled.
	ErrBusy = errors.New("a call for this workflow is still in flight")

	// ErrWrongStep means the requested action does not belong to the
	// workflow's current step.
	ErrWrongStep = errors.New("action not available at this step")

	// ErrTermsNotAccepted blocks step 2 completion; no call is issued.
	ErrTermsNotAccepted = errors.New("contract terms have not been accepted")

	// ErrRouteInfeasible means the delivery deadline cannot be reached.
	ErrRouteInfeasible = errors.New("shipping route is not feasible")

	// ErrInsufficientBalance blocks the payment action; the user must top up.
	ErrInsufficientBalance = errors.New("wallet balance is below the offered price")

	// ErrPaymentIncomplete is the known reconciliation gap: the payment was
	// captured but the post could not be moved to OPEN. Retrying re-issues
	// only the idempotent status update, never the payment.
	ErrPaymentIncomplete = errors.New("payment captured but post activation is incomplete; retry activation")
)

// ValidationError is a locally recoverable field problem; it never reaches
// the network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err is a local validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
