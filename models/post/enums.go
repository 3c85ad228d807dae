package post

// PostStatus represents the lifecycle state of a freight post.
type PostStatus string

const (
	// PostStatusDraft exists only before the post is persisted; it never
	// reaches the database.
	PostStatusDraft             PostStatus = "DRAFT"
	PostStatusPending           PostStatus = "PENDING"
	PostStatusAwaitingSignature PostStatus = "AWAITING_SIGNATURE"
	PostStatusAwaitingPayment   PostStatus = "AWAITING_PAYMENT"
	PostStatusOpen              PostStatus = "OPEN"
	PostStatusInProgress        PostStatus = "IN_PROGRESS"
	PostStatusDone              PostStatus = "DONE"
	PostStatusCancelled         PostStatus = "CANCELLED"
)

// forward transition table; a post never moves backward.
var allowedTransitions = map[PostStatus][]PostStatus{
	PostStatusDraft:             {PostStatusPending, PostStatusAwaitingSignature},
	PostStatusPending:           {PostStatusAwaitingSignature, PostStatusCancelled},
	PostStatusAwaitingSignature: {PostStatusAwaitingPayment, PostStatusCancelled},
	PostStatusAwaitingPayment:   {PostStatusOpen, PostStatusCancelled},
	PostStatusOpen:              {PostStatusInProgress, PostStatusCancelled},
	PostStatusInProgress:        {PostStatusDone, PostStatusCancelled},
}

func (ps PostStatus) String() string {
	return string(ps)
}

func (ps PostStatus) IsValid() bool {
	switch ps {
	case PostStatusDraft, PostStatusPending, PostStatusAwaitingSignature, PostStatusAwaitingPayment,
		PostStatusOpen, PostStatusInProgress, PostStatusDone, PostStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further transition is possible
func (ps PostStatus) IsTerminal() bool {
	return ps == PostStatusDone || ps == PostStatusCancelled
}

// CanTransitionTo reports whether moving from ps to next is allowed.
// Re-applying the current status is always allowed so that status updates
// stay idempotent (setting OPEN twice is safe).
func (ps PostStatus) CanTransitionTo(next PostStatus) bool {
	if ps == next {
		return true
	}
	for _, s := range allowedTransitions[ps] {
		if s == next {
			return true
		}
	}
	return false
}

// GetAllPostStatuses returns all valid post statuses
func GetAllPostStatuses() []PostStatus {
	return []PostStatus{
		PostStatusDraft,
		PostStatusPending,
		PostStatusAwaitingSignature,
		PostStatusAwaitingPayment,
		PostStatusOpen,
		PostStatusInProgress,
		PostStatusDone,
		PostStatusCancelled,
	}
}
