package dto

// ChatRequest is a free-form question for the AI assistant.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse is the assistant reply. Fallback is set when the remote
// service failed and a canned message was substituted.
type ChatResponse struct {
	Reply    string `json:"reply"`
	Fallback bool   `json:"fallback,omitempty"`
}

// BehaviorSummary is the typed contract for AI-generated account summaries.
// All three fields are required; a response missing any of them is treated as
// a remote service error, never as valid business data.
type BehaviorSummary struct {
	Summary         string   `json:"summary"`
	KeyObservations []string `json:"key_observations"`
	PotentialRisks  []string `json:"potential_risks"`
}
