package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"apptravel/internal/llama"
	"apptravel/internal/model"
)

const (
	replyMaxTokens      = 100
	passthroughTokens   = 150
	fallbackReply       = "Service de recherche voyage opérationnel"
	fallbackErrorDetail = "la recherche a échoué, offres par défaut proposées"
)

// ErrEmptyMessage is returned when the chat message is blank
var ErrEmptyMessage = errors.New("message vide")

// chat pipeline states, logged as the request advances
const (
	stateIntentResolved       = "intent_resolved"
	statePreferencesNormalize = "preferences_normalized"
	stateOffersFetched        = "offers_fetched"
	stateResponseAssembled    = "response_assembled"
)

// ChatService orchestrates intent extraction, offer generation and the reply
type ChatService struct {
	extractor    *IntentExtractor
	offers       *OfferGenerator
	llm          ModelClient
	fallbackCity string
}

// NewChatService creates a new chat service
func NewChatService(llm ModelClient, extractor *IntentExtractor, offers *OfferGenerator, fallbackCity string) *ChatService {
	if fallbackCity == "" {
		fallbackCity = "Tunis"
	}
	return &ChatService{
		extractor:    extractor,
		offers:       offers,
		llm:          llm,
		fallbackCity: fallbackCity,
	}
}

// Chat answers a travel request. On any failure it returns the fallback
// payload together with a non-nil error.
func (s *ChatService) Chat(ctx context.Context, message string, userID model.UserID) (resp *model.TravelChatResponse, err error) {
	start := time.Now()
	searchID := uuid.New().String()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Chat pipeline panic (search %s): %v", searchID, r)
			resp, err = s.FallbackResponse(searchID), fmt.Errorf("chat pipeline panic: %v", r)
		}
	}()

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	log.Printf("📨 Message (user %s, search %s): %s", userID.OrDefault(), searchID, message)

	intent := s.extractor.Extract(ctx, message)
	if err := s.advance(ctx, searchID, stateIntentResolved); err != nil {
		return s.FallbackResponse(searchID), err
	}

	prefs := NormalizePreferences(intent)
	if err := s.advance(ctx, searchID, statePreferencesNormalize); err != nil {
		return s.FallbackResponse(searchID), err
	}

	offers := s.offers.Generate(ctx, prefs)
	if err := s.advance(ctx, searchID, stateOffersFetched); err != nil {
		return s.FallbackResponse(searchID), err
	}

	reply, llamaUsed := s.reply(ctx, message, prefs, len(offers))

	resp = &model.TravelChatResponse{
		AIResponse:          reply,
		Offers:              offers,
		TravelIntent:        intent,
		DetectedPreferences: prefs,
		SearchMetadata: &model.SearchMetadata{
			SearchID:     searchID,
			Destination:  prefs.DestinationName(""),
			Budget:       prefs.Budget,
			ResultsCount: len(offers),
			LlamaUsed:    llamaUsed || intent.Source == model.IntentSourceLlama,
			FreeMode:     s.offers.FreeMode(),
			Timestamp:    time.Now(),
			TookMs:       time.Since(start).Milliseconds(),
		},
	}
	_ = s.advance(ctx, searchID, stateResponseAssembled)

	log.Printf("✅ Response sent: %d offers in %dms", len(offers), resp.SearchMetadata.TookMs)
	return resp, nil
}

func (s *ChatService) advance(ctx context.Context, searchID, state string) error {
	log.Printf("[DEBUG] 🔄 search %s -> %s", searchID, state)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("chat aborted after %s: %w", state, err)
	}
	return nil
}

// reply asks the model for a short summary. A simulated answer is replaced by
// a locally composed one.
func (s *ChatService) reply(ctx context.Context, message string, prefs model.Preferences, count int) (string, bool) {
	dest := prefs.DestinationName("votre destination")

	prompt := fmt.Sprintf(`Tu es un assistant voyage expert. Fais un résumé concis.

Demande: %q
Destination: %s
Budget: %d DT
Nombre d'offres trouvées: %d

Fais un résumé friendly en 2-3 phrases maximum.`, message, dest, prefs.Budget, count)

	text := s.llm.Generate(ctx, prompt, replyMaxTokens)
	if llama.IsSimulated(text) || strings.TrimSpace(text) == "" {
		return LocalSummary(prefs, count), false
	}
	return text, true
}

// LocalSummary composes the French reply used when no model answered
func LocalSummary(prefs model.Preferences, count int) string {
	dest := prefs.DestinationName("")
	if dest == "" {
		return fmt.Sprintf("J'ai trouvé %d offres pour votre voyage (%d nuits, %d personnes, budget %d DT/nuit). Précisez une destination pour affiner la recherche !",
			count, prefs.Duration, prefs.Travelers, prefs.Budget)
	}
	return fmt.Sprintf("Voici %d offres pour %s : %d nuits pour %d personnes avec un budget d'environ %d DT/nuit. Bon voyage !",
		count, dest, prefs.Duration, prefs.Travelers, prefs.Budget)
}

// FallbackResponse is the fixed payload returned when the pipeline fails
func (s *ChatService) FallbackResponse(searchID string) *model.TravelChatResponse {
	dest := s.fallbackCity
	intent := ExtractIntentManual("")
	intent.Destination = &dest
	prefs := NormalizePreferences(intent)
	offers := FallbackOffers(dest, DefaultBudget)

	return &model.TravelChatResponse{
		AIResponse:          fallbackReply,
		Offers:              offers,
		TravelIntent:        intent,
		DetectedPreferences: prefs,
		SearchMetadata: &model.SearchMetadata{
			SearchID:     searchID,
			Destination:  dest,
			Budget:       DefaultBudget,
			ResultsCount: len(offers),
			Timestamp:    time.Now(),
		},
		Error: fallbackErrorDetail,
	}
}

// SimpleChat forwards the message to the model and returns its raw answer
func (s *ChatService) SimpleChat(ctx context.Context, message string) model.SimpleChatResponse {
	text := s.llm.Generate(ctx, message, passthroughTokens)
	return model.SimpleChatResponse{
		Response:  text,
		Status:    "success",
		LlamaUsed: !llama.IsSimulated(text),
	}
}

// LlamaStatus reports whether a model server is currently reachable
func (s *ChatService) LlamaStatus(ctx context.Context) model.LlamaStatus {
	if base, ok := s.llm.Available(ctx); ok {
		return model.LlamaStatus{Status: "connected", URL: &base}
	}
	return model.LlamaStatus{Status: "simulation"}
}
