package models

// PromptCheckRequest is the payload sent to the prompt filter upstream.
type PromptCheckRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	UserID string `json:"user_id" binding:"required"`
}

// PromptCheckResult is the verdict returned by the prompt filter.
type PromptCheckResult struct {
	IsBlocked bool   `json:"is_blocked"`
	Reason    string `json:"reason,omitempty"`
}
