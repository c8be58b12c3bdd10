package model

// Budget categories detected by the model server
const (
	BudgetEconomy  = "economique"
	BudgetStandard = "moyen"
	BudgetLuxury   = "luxe"
)

// AssistantPreferences are the loose preferences the model server detects in a message
type AssistantPreferences struct {
	Budget      *string  `json:"budget"`
	Interests   []string `json:"interests"`
	Destination *string  `json:"destination"`
}

// IsEmpty reports whether nothing was detected
func (p AssistantPreferences) IsEmpty() bool {
	return p.Budget == nil && p.Destination == nil && len(p.Interests) == 0
}

// AssistantChatResponse is returned by the model server /api/chat/
type AssistantChatResponse struct {
	AIResponse          string               `json:"ai_response"`
	Offers              []Offer              `json:"annonces"`
	DetectedPreferences AssistantPreferences `json:"detected_preferences"`
}

// GenerateRequest is the body of the model server /generate endpoints
type GenerateRequest struct {
	Prompt      string   `json:"prompt" binding:"required"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// GenerateResponse is returned by the model server /generate
type GenerateResponse struct {
	Response string `json:"response"`
}

// ResetRequest is the body of the model server /reset
type ResetRequest struct {
	UserID UserID `json:"user_id"`
}

// ResetResponse confirms a history reset
type ResetResponse struct {
	Status string `json:"status"`
	UserID UserID `json:"user_id"`
}

// ModelHealth is returned by the model server /health
type ModelHealth struct {
	Status              string `json:"status"`
	ModelLoaded         bool   `json:"model_loaded"`
	Model               string `json:"model,omitempty"`
	ActiveConversations int    `json:"active_conversations"`
}
