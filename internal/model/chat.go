package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultUserID is used when a request carries no user_id
const DefaultUserID UserID = "1"

// UserID identifies a conversation owner. Clients send either a JSON number or a string.
type UserID string

// UnmarshalJSON accepts numbers, strings and null
func (u *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*u = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*u = UserID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user_id must be a number or a string: %w", err)
	}
	*u = UserID(n.String())
	return nil
}

// MarshalJSON writes numeric ids back as numbers
func (u UserID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(u), 10, 64); err == nil {
		return []byte(u), nil
	}
	return json.Marshal(string(u))
}

// OrDefault returns DefaultUserID for an empty id
func (u UserID) OrDefault() UserID {
	if u == "" {
		return DefaultUserID
	}
	return u
}

// ChatRequest is the body of every chat endpoint
type ChatRequest struct {
	Message string `json:"message"`
	UserID  UserID `json:"user_id"`
}

// TravelChatResponse is returned by /api/intelligent_travel_chat/
type TravelChatResponse struct {
	AIResponse          string          `json:"ai_response"`
	Offers              []Offer         `json:"annonces"`
	TravelIntent        *TravelIntent   `json:"travel_intent"`
	DetectedPreferences Preferences     `json:"detected_preferences"`
	SearchMetadata      *SearchMetadata `json:"search_metadata"`
	Error               string          `json:"error,omitempty"`
}

// SearchMetadata describes how a travel chat answer was produced
type SearchMetadata struct {
	SearchID     string    `json:"search_id"`
	Destination  string    `json:"destination"`
	Budget       int       `json:"budget"`
	ResultsCount int       `json:"results_count"`
	LlamaUsed    bool      `json:"llama_used"`
	FreeMode     bool      `json:"free_mode"`
	Timestamp    time.Time `json:"timestamp"`
	TookMs       int64     `json:"took_ms"`
}

// SimpleChatResponse is returned by the passthrough chat endpoint
type SimpleChatResponse struct {
	Response  string `json:"response"`
	Status    string `json:"status"`
	LlamaUsed bool   `json:"llama_used"`
}

// HealthResponse is returned by the backend health endpoints
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Llama     LlamaStatus       `json:"llama"`
	Endpoints map[string]string `json:"endpoints"`
	Database  string            `json:"database,omitempty"`
}

// LlamaStatus reports the discovered model server
type LlamaStatus struct {
	Status string  `json:"status"`
	URL    *string `json:"url"`
}

// Message is a short acknowledgement payload
type Message struct {
	Message string `json:"message"`
}
