package workflow

import "fmt"

// StartRequest opens a workflow session. Empty ResumePostID starts a fresh
// draft; otherwise the session resumes activation of an existing post.
type StartRequest struct {
	ResumePostID string `json:"resumePostId"`
	ResumeStep   int    `json:"resumeStep"`
}

// Validate validates the start request
func (r *StartRequest) Validate() error {
	if r.ResumePostID == "" && r.ResumeStep != 0 {
		return fmt.Errorf("resumeStep requires resumePostId")
	}
	if r.ResumePostID != "" && (r.ResumeStep < 1 || r.ResumeStep > 4) {
		return fmt.Errorf("resumeStep must be between 1 and 4")
	}
	return nil
}

// TermsRequest toggles the contract terms acknowledgement.
type TermsRequest struct {
	Accepted bool `json:"accepted"`
}

// BackRequest rewinds the local step focus.
type BackRequest struct {
	Step int `json:"step"`
}

// Validate validates the back request
func (r *BackRequest) Validate() error {
	if r.Step < 1 || r.Step > 2 {
		return fmt.Errorf("can only go back to step 1 or 2")
	}
	return nil
}

// StartResult carries the new session id.
type StartResult struct {
	SessionID string `json:"sessionId"`
}
