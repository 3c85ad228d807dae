package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"freight-posting/logger"
	postModel "freight-posting/models/post"
	walletModel "freight-posting/models/wallet"
	"freight-posting/services/routecheck"
	walletService "freight-posting/services/wallet"
	postTypes "freight-posting/types/post"
	walletTypes "freight-posting/types/wallet"
	"freight-posting/utils"
)

// Config wires one workflow instance. ResumePostID/ResumeStep let the inline
// sign and inline payment flows reuse the same orchestrator instead of
// re-implementing the transition guards.
type Config struct {
	UserID uint
	Actor  string

	Posts     PostGateway
	Wallets   WalletGateway
	Contracts ContractGateway
	Route     RouteValidator
	Geocoder  routecheck.Geocoder

	ResumePostID string
	ResumeStep   Step
}

// Orchestrator sequences the four activation steps for a single freight post
// and advances the post status state machine in lockstep with the UI step.
// It is single-writer: one workflow instance edits one draft, and at most one
// remote call per step is outstanding.
type Orchestrator struct {
	mu   sync.Mutex
	busy bool

	userID uint
	actor  string

	state State
	form  FormInput

	posts     PostGateway
	wallets   WalletGateway
	contracts ContractGateway
	route     RouteValidator
	geocoder  routecheck.Geocoder
}

// New creates a workflow instance. Fresh instances start at the form step;
// resumed instances must call Hydrate before use.
func New(cfg Config) *Orchestrator {
	o := &Orchestrator{
		userID:    cfg.UserID,
		actor:     cfg.Actor,
		posts:     cfg.Posts,
		wallets:   cfg.Wallets,
		contracts: cfg.Contracts,
		route:     cfg.Route,
		geocoder:  cfg.Geocoder,
		state:     State{Step: StepForm},
	}
	if cfg.ResumePostID != "" && cfg.ResumeStep.IsValid() {
		o.state.Step = cfg.ResumeStep
		o.state.PostID = cfg.ResumePostID
	}
	return o
}

// UserID returns the owning user, for session access checks.
func (o *Orchestrator) UserID() uint {
	return o.userID
}

// Hydrate aligns a resumed workflow with the server-side post: it loads the
// post, adopts its price, and prepares the step the session resumes at.
func (o *Orchestrator) Hydrate() error {
	o.mu.Lock()
	postID := o.state.PostID
	step := o.state.Step
	o.mu.Unlock()

	if postID == "" {
		return nil
	}

	found, err := o.posts.GetByID(postID)
	if err != nil {
		return err
	}
	if found.ProviderID != o.userID {
		return fmt.Errorf("post %s does not belong to this user", postID)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.form.Title = found.Title
	o.form.OfferedPrice = found.OfferedPrice

	// the post's committed status wins over the requested resume step
	switch found.Status {
	case postModel.PostStatusAwaitingSignature:
		o.state.Step = StepContract
	case postModel.PostStatusAwaitingPayment:
		o.state.Step = StepPayment
	case postModel.PostStatusOpen:
		o.state.Step = StepDone
	default:
		return fmt.Errorf("post %s at status %s cannot resume the activation workflow", postID, found.Status)
	}

	if step == StepContract && o.state.Step == StepContract && o.contracts != nil {
		if template, err := o.contracts.LatestProviderTemplate(); err == nil {
			o.state.ContractTemplate = template
		}
	}
	if o.state.Step == StepPayment {
		o.refreshWalletGateLocked()
	}
	return nil
}

// State returns a snapshot including the latest route validation outcome.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	snapshot := o.state
	snapshot.Busy = o.busy
	if o.route != nil {
		snapshot.RouteCalculating = o.route.Calculating()
		if res, ok := o.route.Result(); ok {
			r := res
			snapshot.RouteResult = &r
		}
	}
	return snapshot
}

// Form returns the current local draft.
func (o *Orchestrator) Form() FormInput {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.form
}

// UpdateForm replaces the local draft and feeds the debounced route
// validator. Editing a phone clears its error until the next blur.
func (o *Orchestrator) UpdateForm(in FormInput) {
	o.mu.Lock()
	if in.SenderPhone != o.form.SenderPhone {
		o.state.SenderPhoneError = ""
	}
	if in.ReceiverPhone != o.form.ReceiverPhone {
		o.state.ReceiverPhoneError = ""
	}
	o.form = in
	o.mu.Unlock()

	if o.route == nil {
		return
	}
	if !in.routeComplete() {
		o.route.Reset()
		return
	}
	o.route.Update(routecheck.Input{
		Start:                routecheck.Endpoint{Address: in.StartLocation},
		End:                  routecheck.Endpoint{Address: in.EndLocation},
		ExpectedPickupDate:   in.PickupDate,
		ExpectedDeliveryDate: in.DeliveryDate,
	})
}

// ValidateSenderPhone re-runs phone validation, as on field blur.
func (o *Orchestrator) ValidateSenderPhone() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := utils.ValidatePhone(o.form.SenderPhone); err != nil {
		o.state.SenderPhoneError = err.Error()
		return validationErr("senderPhone", err.Error())
	}
	o.state.SenderPhoneError = ""
	return nil
}

// ValidateReceiverPhone re-runs phone validation, as on field blur.
func (o *Orchestrator) ValidateReceiverPhone() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := utils.ValidatePhone(o.form.ReceiverPhone); err != nil {
		o.state.ReceiverPhoneError = err.Error()
		return validationErr("receiverPhone", err.Error())
	}
	o.state.ReceiverPhoneError = ""
	return nil
}

// SubmitForm completes step 1: all preconditions must hold simultaneously,
// then the post is created directly at AWAITING_SIGNATURE.
func (o *Orchestrator) SubmitForm(ctx context.Context) error {
	if err := o.begin(StepForm); err != nil {
		return err
	}
	defer o.end()

	o.mu.Lock()
	form := o.form
	o.mu.Unlock()

	if err := o.checkStep1Preconditions(form); err != nil {
		return err
	}

	start, end, err := o.resolveEndpoints(form)
	if err != nil {
		return err
	}

	req := &postTypes.PostCreateRequest{
		Title:        form.Title,
		Description:  form.Description,
		OfferedPrice: form.OfferedPrice,
		ShippingRoute: postTypes.ShippingRouteInput{
			StartLocation:        start,
			EndLocation:          end,
			ExpectedPickupDate:   form.PickupDate,
			ExpectedDeliveryDate: form.DeliveryDate,
			StartTimeToPickup:    form.StartTimeToPickup,
			EndTimeToPickup:      form.EndTimeToPickup,
			StartTimeToDelivery:  form.StartTimeToDelivery,
			EndTimeToDelivery:    form.EndTimeToDelivery,
		},
		SenderContact: postTypes.ContactInput{
			FullName:    form.SenderName,
			PhoneNumber: form.SenderPhone,
			Email:       form.SenderEmail,
			Note:        form.SenderNote,
		},
		ReceiverContact: postTypes.ContactInput{
			FullName:    form.ReceiverName,
			PhoneNumber: form.ReceiverPhone,
			Email:       form.ReceiverEmail,
			Note:        form.ReceiverNote,
		},
		PackageIDs: form.SelectedPackageIDs,
		Status:     postModel.PostStatusAwaitingSignature,
	}

	created, err := o.posts.Create(req, o.userID, o.actor)
	if err != nil {
		return err
	}

	// contract template failing to load must not undo the committed create
	o.mu.Lock()
	template := o.state.ContractTemplate
	o.mu.Unlock()
	if o.contracts != nil {
		if fetched, err := o.contracts.LatestProviderTemplate(); err == nil {
			template = fetched
		} else {
			logger.Warning("Could not load latest provider contract template: " + err.Error())
		}
	}

	o.mu.Lock()
	o.state.PostID = created.ID
	o.state.ContractTemplate = template
	o.state.Step = StepContract
	o.mu.Unlock()
	return nil
}

// SetAcceptedTerms records the user's explicit acknowledgement of the
// contract terms.
func (o *Orchestrator) SetAcceptedTerms(accepted bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Step != StepContract {
		return ErrWrongStep
	}
	o.state.AcceptedTerms = accepted
	return nil
}

// SignContract completes step 2: requires acceptedTerms, moves the post to
// AWAITING_PAYMENT and takes the wallet snapshot for the payment gate.
func (o *Orchestrator) SignContract(ctx context.Context) error {
	if err := o.begin(StepContract); err != nil {
		return err
	}
	defer o.end()

	o.mu.Lock()
	accepted := o.state.AcceptedTerms
	postID := o.state.PostID
	o.mu.Unlock()

	if !accepted {
		// no call is issued; pressing continue has no effect
		return ErrTermsNotAccepted
	}

	if _, err := o.posts.UpdateStatus(postID, postModel.PostStatusAwaitingPayment, o.actor); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.refreshWalletGateLocked()
	o.state.Step = StepPayment
	return nil
}

// Pay completes step 3: payment first, then the status update to OPEN. When
// the status update fails after a captured payment the workflow stays at
// step 3 with PaymentCaptured set, and subsequent attempts retry only the
// idempotent status update.
func (o *Orchestrator) Pay(ctx context.Context) error {
	if err := o.begin(StepPayment); err != nil {
		return err
	}
	defer o.end()

	o.mu.Lock()
	captured := o.state.PaymentCaptured
	if !captured {
		// re-take the balance snapshot; a top-up made since signing must
		// unblock the payment action
		o.refreshWalletGateLocked()
	}
	postID := o.state.PostID
	amount := o.form.OfferedPrice
	sufficient := o.state.SufficientBalance
	o.mu.Unlock()

	// a zero-price post owes nothing; it activates without touching the wallet
	if !captured && amount > 0 {
		if sufficient != nil && !*sufficient {
			return ErrInsufficientBalance
		}

		payReq := &walletTypes.PaymentRequest{
			Amount:      amount,
			Type:        walletModel.TransactionTypePostPayment,
			PostID:      &postID,
			Description: "Thanh toán phí đăng bài",
		}
		if _, err := o.wallets.CreatePayment(o.userID, payReq); err != nil {
			// the row-locked debit inside the wallet service is the
			// authoritative gate; a stale snapshot loses to it
			if errors.Is(err, walletService.ErrInsufficientBalance) {
				return ErrInsufficientBalance
			}
			return err
		}

		o.mu.Lock()
		o.state.PaymentCaptured = true
		o.mu.Unlock()
	}

	// the update is idempotent, so one immediate retry is safe; the payment
	// above is never re-issued
	_, err := o.posts.UpdateStatus(postID, postModel.PostStatusOpen, o.actor)
	if err != nil {
		if _, retryErr := o.posts.UpdateStatus(postID, postModel.PostStatusOpen, o.actor); retryErr != nil {
			logger.Error(fmt.Sprintf("Post %s paid but not activated", postID), retryErr)
			return ErrPaymentIncomplete
		}
	}

	o.mu.Lock()
	o.state.Step = StepDone
	o.mu.Unlock()
	return nil
}

// Back rewinds the local UI focus to step 1 or 2. Committed server-side
// transitions are never undone.
func (o *Orchestrator) Back(to Step) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.busy {
		return ErrBusy
	}
	if to != StepForm && to != StepContract {
		return ErrWrongStep
	}
	if o.state.Step == StepDone || to >= o.state.Step {
		return ErrWrongStep
	}
	o.state.Step = to
	return nil
}

// Close discards local form state. A created post or a debited wallet stays
// committed.
func (o *Orchestrator) Close() {
	if o.route != nil {
		o.route.Close()
	}
}

func (o *Orchestrator) begin(step Step) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Step != step {
		return ErrWrongStep
	}
	if o.busy {
		return ErrBusy
	}
	o.busy = true
	return nil
}

func (o *Orchestrator) end() {
	o.mu.Lock()
	o.busy = false
	o.mu.Unlock()
}

// refreshWalletGateLocked takes the balance snapshot and derives the gate.
// Callers hold o.mu.
func (o *Orchestrator) refreshWalletGateLocked() {
	if o.wallets == nil {
		return
	}
	w, err := o.wallets.GetByUserID(o.userID)
	if err != nil {
		logger.Error("Could not fetch wallet for payment gate", err)
		return
	}
	balance := w.Balance
	sufficient := walletService.SufficientBalance(balance, o.form.OfferedPrice)
	o.state.WalletBalance = &balance
	o.state.SufficientBalance = &sufficient
	o.state.TopupSuggestion = walletService.TopupDeficit(balance, o.form.OfferedPrice)
}

// checkStep1Preconditions enforces that every step-1 requirement holds
// simultaneously before the create call is issued.
func (o *Orchestrator) checkStep1Preconditions(form FormInput) error {
	if form.Title == "" {
		return validationErr("title", "title is required")
	}
	if len(form.SelectedPackageIDs) == 0 {
		return validationErr("packageIds", "select at least one package")
	}
	if form.StartLocation == "" || form.EndLocation == "" {
		return validationErr("route", "pickup and delivery locations are required")
	}
	if form.PickupDate.IsZero() || form.DeliveryDate.IsZero() {
		return validationErr("route", "pickup and delivery dates are required")
	}
	if !utils.HasExplicitTime(form.PickupDate) || !utils.HasExplicitTime(form.DeliveryDate) {
		return validationErr("route", "pick both a date and a time for pickup and delivery")
	}
	if form.SenderName == "" || form.ReceiverName == "" {
		return validationErr("contacts", "sender and receiver names are required")
	}
	if err := utils.ValidatePhone(form.SenderPhone); err != nil {
		return validationErr("senderPhone", err.Error())
	}
	if err := utils.ValidatePhone(form.ReceiverPhone); err != nil {
		return validationErr("receiverPhone", err.Error())
	}
	if o.route != nil {
		if o.route.Calculating() {
			return validationErr("route", "route check is still running")
		}
		if res, ok := o.route.Result(); ok && !res.IsValid {
			return fmt.Errorf("%w: %s", ErrRouteInfeasible, res.Message)
		}
	}
	return nil
}

// resolveEndpoints attaches coordinates to both route endpoints. The geocoder
// caches per address, so the debounced validation usually already paid for
// these lookups.
func (o *Orchestrator) resolveEndpoints(form FormInput) (postTypes.LocationInput, postTypes.LocationInput, error) {
	start := postTypes.LocationInput{Address: form.StartLocation}
	end := postTypes.LocationInput{Address: form.EndLocation}

	if o.geocoder == nil {
		return start, end, nil
	}

	startCoords, err := o.geocoder.Geocode(form.StartLocation)
	if err != nil {
		return start, end, fmt.Errorf("cannot resolve pickup location: %w", err)
	}
	endCoords, err := o.geocoder.Geocode(form.EndLocation)
	if err != nil {
		return start, end, fmt.Errorf("cannot resolve delivery location: %w", err)
	}

	start.Latitude, start.Longitude = &startCoords.Latitude, &startCoords.Longitude
	end.Latitude, end.Longitude = &endCoords.Latitude, &endCoords.Longitude
	return start, end, nil
}
