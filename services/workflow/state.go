package workflow

import (
	"time"

	contractModel "freight-posting/models/contract"
	"freight-posting/services/routecheck"
)

// Step is the user-paced position inside the activation workflow.
type Step int

const (
	StepForm     Step = 1 // draft form, route + contact validation
	StepContract Step = 2 // contract terms, post already created
	StepPayment  Step = 3 // wallet gate + payment
	StepDone     Step = 4 // post is OPEN
)

func (s Step) String() string {
	switch s {
	case StepForm:
		return "FORM"
	case StepContract:
		return "CONTRACT"
	case StepPayment:
		return "PAYMENT"
	case StepDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// IsValid reports whether s is one of the four workflow steps.
func (s Step) IsValid() bool {
	return s >= StepForm && s <= StepDone
}

// FormInput is the local draft the user edits during step 1. Nothing in it
// reaches the server until SubmitForm.
type FormInput struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	OfferedPrice       float64  `json:"offeredPrice"`
	SelectedPackageIDs []string `json:"selectedPackageIds"`

	StartLocation string    `json:"startLocation"`
	EndLocation   string    `json:"endLocation"`
	PickupDate    time.Time `json:"pickupDate"`
	DeliveryDate  time.Time `json:"deliveryDate"`

	StartTimeToPickup   *string `json:"startTimeToPickup,omitempty"`
	EndTimeToPickup     *string `json:"endTimeToPickup,omitempty"`
	StartTimeToDelivery *string `json:"startTimeToDelivery,omitempty"`
	EndTimeToDelivery   *string `json:"endTimeToDelivery,omitempty"`

	SenderName    string  `json:"senderName"`
	SenderPhone   string  `json:"senderPhone"`
	SenderEmail   *string `json:"senderEmail,omitempty"`
	SenderNote    *string `json:"senderNote,omitempty"`
	ReceiverName  string  `json:"receiverName"`
	ReceiverPhone string  `json:"receiverPhone"`
	ReceiverEmail *string `json:"receiverEmail,omitempty"`
	ReceiverNote  *string `json:"receiverNote,omitempty"`
}

// routeComplete reports whether all four route inputs are filled in.
func (f FormInput) routeComplete() bool {
	return f.StartLocation != "" && f.EndLocation != "" &&
		!f.PickupDate.IsZero() && !f.DeliveryDate.IsZero()
}

// State is the single explicit value object describing where a workflow
// instance stands. It is mutated only through the orchestrator's named
// actions, never by ad hoc field assignment.
type State struct {
	Step   Step   `json:"step"`
	PostID string `json:"postId,omitempty"`

	AcceptedTerms bool `json:"acceptedTerms"`

	// sender and receiver are tracked separately so one invalid phone does
	// not mask the other's error
	SenderPhoneError   string `json:"senderPhoneError,omitempty"`
	ReceiverPhoneError string `json:"receiverPhoneError,omitempty"`

	RouteResult      *routecheck.Result `json:"routeValidation,omitempty"`
	RouteCalculating bool               `json:"routeCalculating"`

	ContractTemplate *contractModel.ContractTemplate `json:"contractTemplate,omitempty"`

	WalletBalance     *float64 `json:"walletBalance,omitempty"`
	SufficientBalance *bool    `json:"sufficientBalance,omitempty"`
	TopupSuggestion   float64  `json:"topupSuggestion"`

	// PaymentCaptured marks the reconciliation gap: money already debited
	// but the post not yet OPEN. Retrying may only re-issue the status
	// update, never the payment.
	PaymentCaptured bool `json:"paymentCaptured"`

	Busy bool `json:"busy"`
}
