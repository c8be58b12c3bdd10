package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"apptravel/internal/history"
	"apptravel/internal/model"
)

// ErrModelNotLoaded is returned when the model server has no upstream model
var ErrModelNotLoaded = errors.New("model not loaded")

const (
	assistantMaxTokens   = 150
	assistantTemperature = 0.7
	defaultGenerateLimit = 150
	maxGenerateTokens    = 2048
)

// Assistant is the conversational model server: it keeps per-user history
// and builds context-aware prompts for the upstream model.
type Assistant struct {
	model          Completer
	history        history.Store
	contextEntries int
}

// NewAssistant creates a new assistant. contextEntries is how many history
// entries are replayed in each prompt.
func NewAssistant(completer Completer, store history.Store, contextEntries int) *Assistant {
	if contextEntries < 0 {
		contextEntries = 0
	}
	return &Assistant{
		model:          completer,
		history:        store,
		contextEntries: contextEntries,
	}
}

// Chat answers message in the context of the user's recent history
func (a *Assistant) Chat(ctx context.Context, userID model.UserID, message string) (*model.AssistantChatResponse, error) {
	if !a.model.IsEnabled() {
		return nil, ErrModelNotLoaded
	}

	userID = userID.OrDefault()
	log.Printf("📨 Message received (user %s): %s", userID, message)

	var recent []history.Entry
	if a.contextEntries > 0 {
		entries, err := a.history.Recent(ctx, userID, a.contextEntries)
		if err != nil {
			log.Printf("⚠️  History unavailable for user %s: %v", userID, err)
		}
		recent = entries
	}

	prefs := ExtractAssistantPreferences(message)
	prompt := BuildSmartPrompt(recent, prefs, message)

	answer, err := a.model.Complete(ctx, prompt, assistantMaxTokens, assistantTemperature)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}
	answer = strings.TrimSpace(answer)

	log.Printf("[DEBUG] 💬 Assistant reply: %s", answer)

	if err := a.history.Append(ctx, userID,
		history.Entry{Role: history.RoleUser, Content: message},
		history.Entry{Role: history.RoleAssistant, Content: answer},
	); err != nil {
		log.Printf("⚠️  Failed to save history for user %s: %v", userID, err)
	}

	return &model.AssistantChatResponse{
		AIResponse:          answer,
		Offers:              []model.Offer{},
		DetectedPreferences: prefs,
	}, nil
}

// Generate completes a raw prompt without touching history
func (a *Assistant) Generate(ctx context.Context, req model.GenerateRequest) (string, error) {
	if !a.model.IsEnabled() {
		return "", ErrModelNotLoaded
	}
	maxTokens, temperature := generateParams(req)

	answer, err := a.model.Complete(ctx, req.Prompt, maxTokens, temperature)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	return answer, nil
}

// GenerateStream completes a raw prompt, passing each content chunk to onChunk
func (a *Assistant) GenerateStream(ctx context.Context, req model.GenerateRequest, onChunk func(content string) error) error {
	if !a.model.IsEnabled() {
		return ErrModelNotLoaded
	}
	maxTokens, temperature := generateParams(req)

	return a.model.CompleteStream(ctx, req.Prompt, maxTokens, temperature, func(chunk *StreamChunk) error {
		if chunk.Content == "" {
			return nil
		}
		return onChunk(chunk.Content)
	})
}

// Reset forgets the user's conversation
func (a *Assistant) Reset(ctx context.Context, userID model.UserID) error {
	return a.history.Reset(ctx, userID.OrDefault())
}

// Health reports model availability and the number of active conversations
func (a *Assistant) Health(ctx context.Context) model.ModelHealth {
	health := model.ModelHealth{
		Status:      "healthy",
		ModelLoaded: a.model.IsEnabled(),
	}
	if health.ModelLoaded {
		health.Model = a.model.ModelName()
	}

	count, err := a.history.Count(ctx)
	if err != nil {
		log.Printf("⚠️  Failed to count conversations: %v", err)
	}
	health.ActiveConversations = count

	return health
}

func generateParams(req model.GenerateRequest) (int, float64) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultGenerateLimit
	}
	if maxTokens > maxGenerateTokens {
		maxTokens = maxGenerateTokens
	}

	temperature := assistantTemperature
	if req.Temperature != nil && *req.Temperature >= 0 {
		temperature = *req.Temperature
	}
	return maxTokens, temperature
}
