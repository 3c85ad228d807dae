package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	contractModel "freight-posting/models/contract"
	postModel "freight-posting/models/post"
	walletModel "freight-posting/models/wallet"
	"freight-posting/services/routecheck"
	walletService "freight-posting/services/wallet"
	postTypes "freight-posting/types/post"
	walletTypes "freight-posting/types/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePosts struct {
	createReq    *postTypes.PostCreateRequest
	createErr    error
	post         *postModel.FreightPost
	statusCalls  []postModel.PostStatus
	statusErrs   []error // consumed per UpdateStatus call, nil entries succeed
	getByIDPosts map[string]*postModel.FreightPost
}

func (f *fakePosts) Create(req *postTypes.PostCreateRequest, providerID uint, createdBy string) (*postModel.FreightPost, error) {
	f.createReq = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.post = &postModel.FreightPost{
		ID:           "post-1",
		ProviderID:   providerID,
		Title:        req.Title,
		OfferedPrice: req.OfferedPrice,
		Status:       req.Status,
	}
	return f.post, nil
}

func (f *fakePosts) UpdateStatus(postID string, next postModel.PostStatus, updatedBy string) (*postModel.FreightPost, error) {
	f.statusCalls = append(f.statusCalls, next)
	if len(f.statusErrs) > 0 {
		err := f.statusErrs[0]
		f.statusErrs = f.statusErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	if f.post != nil {
		f.post.Status = next
	}
	return f.post, nil
}

func (f *fakePosts) GetByID(postID string) (*postModel.FreightPost, error) {
	if p, ok := f.getByIDPosts[postID]; ok {
		return p, nil
	}
	if f.post != nil && f.post.ID == postID {
		return f.post, nil
	}
	return nil, errors.New("post not found")
}

type fakeWallets struct {
	balance  float64
	getErr   error
	payments []*walletTypes.PaymentRequest
	payErr   error
}

func (f *fakeWallets) GetByUserID(userID uint) (*walletModel.Wallet, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &walletModel.Wallet{UserID: userID, Balance: f.balance}, nil
}

func (f *fakeWallets) CreatePayment(userID uint, req *walletTypes.PaymentRequest) (*walletModel.Transaction, error) {
	if f.payErr != nil {
		return nil, f.payErr
	}
	f.payments = append(f.payments, req)
	f.balance -= req.Amount
	return &walletModel.Transaction{Amount: -req.Amount, Type: req.Type}, nil
}

type fakeContracts struct {
	template *contractModel.ContractTemplate
	err      error
}

func (f *fakeContracts) LatestProviderTemplate() (*contractModel.ContractTemplate, error) {
	return f.template, f.err
}

// fakeRoute hands back whatever the test parked in it.
type fakeRoute struct {
	result      *routecheck.Result
	calculating bool
	updates     []routecheck.Input
	resets      int
}

func (f *fakeRoute) Update(in routecheck.Input) { f.updates = append(f.updates, in) }
func (f *fakeRoute) Reset()                    { f.resets++ }
func (f *fakeRoute) Calculating() bool         { return f.calculating }
func (f *fakeRoute) Close()                    {}
func (f *fakeRoute) Result() (routecheck.Result, bool) {
	if f.result == nil {
		return routecheck.Result{}, false
	}
	return *f.result, true
}

type fixture struct {
	posts     *fakePosts
	wallets   *fakeWallets
	contracts *fakeContracts
	route     *fakeRoute
	o         *Orchestrator
}

func newFixture(balance float64) *fixture {
	f := &fixture{
		posts:   &fakePosts{},
		wallets: &fakeWallets{balance: balance},
		contracts: &fakeContracts{template: &contractModel.ContractTemplate{
			Name:    "Hợp đồng dịch vụ đăng tin vận chuyển",
			Type:    contractModel.ContractTypeProvider,
			Version: 1,
		}},
		route: &fakeRoute{},
	}
	f.o = New(Config{
		UserID:    7,
		Actor:     "provider7",
		Posts:     f.posts,
		Wallets:   f.wallets,
		Contracts: f.contracts,
		Route:     f.route,
	})
	return f
}

func validForm() FormInput {
	pickup := time.Date(2025, 6, 2, 8, 0, 0, 0, time.Local)
	return FormInput{
		Title:              "Cần chuyển 5 thùng hàng",
		OfferedPrice:       150000,
		SelectedPackageIDs: []string{"pkg-1", "pkg-2"},
		StartLocation:      "Hà Nội",
		EndLocation:        "Hồ Chí Minh",
		PickupDate:         pickup,
		DeliveryDate:       pickup.Add(48 * time.Hour),
		SenderName:         "Nguyễn Văn A",
		SenderPhone:        "0912345678",
		ReceiverName:       "Trần Thị B",
		ReceiverPhone:      "+84912345678",
	}
}

func TestFullActivationFlow(t *testing.T) {
	f := newFixture(200000)
	ctx := context.Background()

	f.o.UpdateForm(validForm())
	f.route.result = &routecheck.Result{IsValid: true, Message: "route is feasible"}

	// step 1: create at AWAITING_SIGNATURE
	require.NoError(t, f.o.SubmitForm(ctx))
	require.NotNil(t, f.posts.createReq)
	assert.Equal(t, postModel.PostStatusAwaitingSignature, f.posts.createReq.Status)
	assert.Equal(t, "Cần chuyển 5 thùng hàng", f.posts.createReq.Title)

	state := f.o.State()
	assert.Equal(t, StepContract, state.Step)
	assert.Equal(t, "post-1", state.PostID)
	require.NotNil(t, state.ContractTemplate)

	// step 2: sign moves the post to AWAITING_PAYMENT and snapshots the wallet
	require.NoError(t, f.o.SetAcceptedTerms(true))
	require.NoError(t, f.o.SignContract(ctx))
	assert.Equal(t, []postModel.PostStatus{postModel.PostStatusAwaitingPayment}, f.posts.statusCalls)

	state = f.o.State()
	assert.Equal(t, StepPayment, state.Step)
	require.NotNil(t, state.SufficientBalance)
	assert.True(t, *state.SufficientBalance)
	assert.Zero(t, state.TopupSuggestion)

	// step 3: payment first, then OPEN
	require.NoError(t, f.o.Pay(ctx))
	require.Len(t, f.wallets.payments, 1)
	assert.Equal(t, 150000.0, f.wallets.payments[0].Amount)
	assert.Equal(t, walletModel.TransactionTypePostPayment, f.wallets.payments[0].Type)
	assert.Equal(t, "Thanh toán phí đăng bài", f.wallets.payments[0].Description)
	require.NotNil(t, f.wallets.payments[0].PostID)
	assert.Equal(t, "post-1", *f.wallets.payments[0].PostID)

	assert.Equal(t, []postModel.PostStatus{
		postModel.PostStatusAwaitingPayment,
		postModel.PostStatusOpen,
	}, f.posts.statusCalls)
	assert.Equal(t, StepDone, f.o.State().Step)
}

func TestSubmitFormRequiresValidPhones(t *testing.T) {
	f := newFixture(200000)

	form := validForm()
	form.SenderPhone = "12345"
	f.o.UpdateForm(form)

	err := f.o.SubmitForm(context.Background())
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Nil(t, f.posts.createReq, "create must not be called with an invalid phone")

	form.SenderPhone = "0912345678"
	form.ReceiverPhone = "0012345678"
	f.o.UpdateForm(form)

	err = f.o.SubmitForm(context.Background())
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestSubmitFormRequiresExplicitTimes(t *testing.T) {
	f := newFixture(200000)

	form := validForm()
	form.PickupDate = time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)
	f.o.UpdateForm(form)

	err := f.o.SubmitForm(context.Background())
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Nil(t, f.posts.createReq)
}

func TestSubmitFormBlockedByInfeasibleRoute(t *testing.T) {
	f := newFixture(200000)

	f.o.UpdateForm(validForm())
	f.route.result = &routecheck.Result{IsValid: false, Message: "delivery window is too tight"}

	err := f.o.SubmitForm(context.Background())
	require.ErrorIs(t, err, ErrRouteInfeasible)
	assert.Nil(t, f.posts.createReq)
}

func TestSubmitFormPassesWithoutRouteResult(t *testing.T) {
	// no feasibility result yet does not block submission
	f := newFixture(200000)
	f.o.UpdateForm(validForm())

	require.NoError(t, f.o.SubmitForm(context.Background()))
	assert.NotNil(t, f.posts.createReq)
}

func TestSubmitFormBlockedWhileRouteCalculating(t *testing.T) {
	f := newFixture(200000)
	f.o.UpdateForm(validForm())
	f.route.calculating = true

	err := f.o.SubmitForm(context.Background())
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestSignContractRequiresAcceptedTerms(t *testing.T) {
	f := newFixture(200000)
	f.o.UpdateForm(validForm())
	require.NoError(t, f.o.SubmitForm(context.Background()))

	// continue without ticking the box: no call goes out, nothing changes
	err := f.o.SignContract(context.Background())
	require.ErrorIs(t, err, ErrTermsNotAccepted)
	assert.Empty(t, f.posts.statusCalls)
	assert.Equal(t, StepContract, f.o.State().Step)
}

func TestStepGating(t *testing.T) {
	f := newFixture(200000)

	// nothing past step 1 is reachable on a fresh workflow
	assert.ErrorIs(t, f.o.SignContract(context.Background()), ErrWrongStep)
	assert.ErrorIs(t, f.o.Pay(context.Background()), ErrWrongStep)
	assert.ErrorIs(t, f.o.SetAcceptedTerms(true), ErrWrongStep)
}

func TestWalletGateBlocksPayment(t *testing.T) {
	f := newFixture(100000)
	ctx := context.Background()

	f.o.UpdateForm(validForm()) // price 150000
	require.NoError(t, f.o.SubmitForm(ctx))
	require.NoError(t, f.o.SetAcceptedTerms(true))
	require.NoError(t, f.o.SignContract(ctx))

	state := f.o.State()
	require.NotNil(t, state.SufficientBalance)
	assert.False(t, *state.SufficientBalance)
	assert.Equal(t, 50000.0, state.TopupSuggestion)

	err := f.o.Pay(ctx)
	require.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Empty(t, f.wallets.payments, "payment must not be attempted below the gate")
	assert.Equal(t, StepPayment, f.o.State().Step)
}

func TestPayRechecksWalletAfterTopup(t *testing.T) {
	f := newFixture(100000)
	ctx := context.Background()

	f.o.UpdateForm(validForm()) // price 150000
	require.NoError(t, f.o.SubmitForm(ctx))
	require.NoError(t, f.o.SetAcceptedTerms(true))
	require.NoError(t, f.o.SignContract(ctx))

	require.ErrorIs(t, f.o.Pay(ctx), ErrInsufficientBalance)
	assert.Empty(t, f.wallets.payments)

	// the user tops up and retries; the snapshot taken at signing time must
	// not keep blocking the payment
	f.wallets.balance = 200000
	require.NoError(t, f.o.Pay(ctx))
	require.Len(t, f.wallets.payments, 1)
	assert.Equal(t, 150000.0, f.wallets.payments[0].Amount)
	assert.Equal(t, StepDone, f.o.State().Step)
}

func TestPaySurfacesWalletRefusalAsInsufficientBalance(t *testing.T) {
	f := newFixture(200000)
	ctx := context.Background()

	f.o.UpdateForm(validForm())
	require.NoError(t, f.o.SubmitForm(ctx))
	require.NoError(t, f.o.SetAcceptedTerms(true))
	require.NoError(t, f.o.SignContract(ctx))

	// the snapshot looks fine but the row-locked debit refuses; the caller
	// still sees an insufficient balance, not an internal failure
	f.wallets.payErr = walletService.ErrInsufficientBalance

	require.ErrorIs(t, f.o.Pay(ctx), ErrInsufficientBalance)
	assert.Empty(t, f.wallets.payments)
	assert.Equal(t, StepPayment, f.o.State().Step)
}

func TestZeroPricePostActivatesWithoutDebit(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()

	form := validForm()
	form.OfferedPrice = 0
	f.o.UpdateForm(form)

	require.NoError(t, f.o.SubmitForm(ctx))
	require.NoError(t, f.o.SetAcceptedTerms(true))
	require.NoError(t, f.o.SignContract(ctx))

	// nothing is owed, so the post opens without a wallet call
	require.NoError(t, f.o.Pay(ctx))
	assert.Empty(t, f.wallets.payments)
	assert.Equal(t, []postModel.PostStatus{
		postModel.PostStatusAwaitingPayment,
		postModel.PostStatusOpen,
	}, f.posts.statusCalls)
	assert.Equal(t, StepDone, f.o.State().Step)
}

func TestPayRetriesStatusOnceThenReportsIncomplete(t *testing.T) {
	f := newFixture(200000)
	ctx := context.Background()

	f.o.UpdateForm(validForm())
	require.NoError(t, f.o.SubmitForm(ctx))
	require.NoError(t, f.o.SetAcceptedTerms(true))
	require.NoError(t, f.o.SignContract(ctx))

	// the AWAITING_PAYMENT update succeeded; both OPEN attempts fail
	boom := errors.New("connection reset")
	f.posts.statusErrs = []error{boom, boom}

	err := f.o.Pay(ctx)
	require.ErrorIs(t, err, ErrPaymentIncomplete)
	assert.Len(t, f.wallets.payments, 1)

	state := f.o.State()
	assert.Equal(t, StepPayment, state.Step)
	assert.True(t, state.PaymentCaptured)

	// the retry only re-issues the status update, never a second debit
	require.NoError(t, f.o.Pay(ctx))
	assert.Len(t, f.wallets.payments, 1, "a captured payment must never be re-issued")
	assert.Equal(t, StepDone, f.o.State().Step)

	// AWAITING_PAYMENT, OPEN (fail), OPEN (retry fail), OPEN (success)
	assert.Equal(t, []postModel.PostStatus{
		postModel.PostStatusAwaitingPayment,
		postModel.PostStatusOpen,
		postModel.PostStatusOpen,
		postModel.PostStatusOpen,
	}, f.posts.statusCalls)
}

func TestBackNavigatesLocallyOnly(t *testing.T) {
	f := newFixture(200000)
	ctx := context.Background()

	f.o.UpdateForm(validForm())
	require.NoError(t, f.o.SubmitForm(ctx))
	require.Equal(t, StepContract, f.o.State().Step)

	// back to the form rewinds focus without touching the server
	require.NoError(t, f.o.Back(StepForm))
	assert.Equal(t, StepForm, f.o.State().Step)
	assert.Empty(t, f.posts.statusCalls)

	// forward jumps and re-entering the current step are rejected
	assert.ErrorIs(t, f.o.Back(StepPayment), ErrWrongStep)
	assert.ErrorIs(t, f.o.Back(StepForm), ErrWrongStep)
}

func TestUpdateFormFeedsRouteValidator(t *testing.T) {
	f := newFixture(200000)

	form := validForm()
	f.o.UpdateForm(form)
	require.Len(t, f.route.updates, 1)
	assert.Equal(t, "Hà Nội", f.route.updates[0].Start.Address)

	// clearing a route field resets the validator instead of re-running it
	form.EndLocation = ""
	f.o.UpdateForm(form)
	assert.Len(t, f.route.updates, 1)
	assert.Equal(t, 1, f.route.resets)
}

func TestPhoneErrorsClearOnEdit(t *testing.T) {
	f := newFixture(200000)

	form := validForm()
	form.SenderPhone = "12345"
	f.o.UpdateForm(form)

	require.Error(t, f.o.ValidateSenderPhone())
	assert.NotEmpty(t, f.o.State().SenderPhoneError)

	form.SenderPhone = "0912345678"
	f.o.UpdateForm(form)
	assert.Empty(t, f.o.State().SenderPhoneError)
	assert.NoError(t, f.o.ValidateSenderPhone())
}

func TestHydrateAlignsStepWithPostStatus(t *testing.T) {
	f := newFixture(200000)

	existing := &postModel.FreightPost{
		ID:           "post-9",
		ProviderID:   7,
		Title:        "Cần chuyển 5 thùng hàng",
		OfferedPrice: 150000,
		Status:       postModel.PostStatusAwaitingPayment,
	}
	f.posts.getByIDPosts = map[string]*postModel.FreightPost{"post-9": existing}

	o := New(Config{
		UserID:       7,
		Actor:        "provider7",
		Posts:        f.posts,
		Wallets:      f.wallets,
		Contracts:    f.contracts,
		Route:        f.route,
		ResumePostID: "post-9",
		ResumeStep:   StepContract, // the committed status wins
	})
	require.NoError(t, o.Hydrate())

	state := o.State()
	assert.Equal(t, StepPayment, state.Step)
	assert.Equal(t, "post-9", state.PostID)
	require.NotNil(t, state.SufficientBalance)
	assert.True(t, *state.SufficientBalance)
}

func TestHydrateRejectsForeignPost(t *testing.T) {
	f := newFixture(200000)
	f.posts.getByIDPosts = map[string]*postModel.FreightPost{
		"post-9": {
			ID:         "post-9",
			ProviderID: 99,
			Status:     postModel.PostStatusAwaitingSignature,
		},
	}

	o := New(Config{
		UserID:       7,
		Actor:        "provider7",
		Posts:        f.posts,
		Wallets:      f.wallets,
		ResumePostID: "post-9",
		ResumeStep:   StepContract,
	})
	require.Error(t, o.Hydrate())
	assert.Empty(t, f.posts.statusCalls)
}

func TestHydrateRejectsNonResumableStatus(t *testing.T) {
	f := newFixture(200000)
	f.posts.getByIDPosts = map[string]*postModel.FreightPost{
		"post-9": {ID: "post-9", ProviderID: 7, Status: postModel.PostStatusCancelled},
	}

	o := New(Config{
		UserID:       7,
		Posts:        f.posts,
		Wallets:      f.wallets,
		ResumePostID: "post-9",
		ResumeStep:   StepContract,
	})
	assert.Error(t, o.Hydrate())
}
