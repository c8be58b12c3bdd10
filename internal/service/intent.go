package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"apptravel/internal/llama"
	"apptravel/internal/model"
	"apptravel/internal/utils"
)

const intentMaxTokens = 150

var errSimulated = errors.New("model server unavailable")

// IntentExtractor turns a free-text travel request into a TravelIntent,
// asking the model server first and falling back to keyword heuristics.
type IntentExtractor struct {
	llm TextGenerator
}

// NewIntentExtractor creates a new intent extractor. llm may be nil.
func NewIntentExtractor(llm TextGenerator) *IntentExtractor {
	return &IntentExtractor{llm: llm}
}

// Extract always returns an intent
func (p *IntentExtractor) Extract(ctx context.Context, message string) *model.TravelIntent {
	message = strings.TrimSpace(message)
	if message == "" {
		return ExtractIntentManual("")
	}

	if p.llm == nil {
		log.Printf("⚠️  No model client configured, using manual intent extraction")
		return ExtractIntentManual(message)
	}

	intent, err := p.extractWithModel(ctx, message)
	if err != nil {
		log.Printf("⚠️  Model intent extraction failed, using heuristics: %v", err)
		return ExtractIntentManual(message)
	}

	log.Printf("[DEBUG] 🎯 Model intent: destination=%v budget=%v duree=%v personnes=%v",
		derefOr(intent.Destination, "<nil>"), intent.Budget, intent.Duration, intent.Travelers)
	return intent
}

// extractWithModel asks the model for a JSON intent. Panics are turned into errors.
func (p *IntentExtractor) extractWithModel(ctx context.Context, message string) (intent *model.TravelIntent, err error) {
	defer func() {
		if r := recover(); r != nil {
			intent, err = nil, fmt.Errorf("panic while parsing model output: %v", r)
		}
	}()

	response := p.llm.Generate(ctx, buildIntentPrompt(message), intentMaxTokens)
	if llama.IsSimulated(response) {
		return nil, errSimulated
	}

	obj, ok := utils.LastObjectWithKey(response, "destination")
	if !ok {
		obj, err = utils.ParseObject(response)
		if err != nil {
			return nil, fmt.Errorf("no JSON object in model output: %w", err)
		}
	}

	return intentFromObject(obj), nil
}

func buildIntentPrompt(message string) string {
	return fmt.Sprintf(`Tu es un expert en analyse de voyages. Analyse cette demande et retourne UNIQUEMENT du JSON valide.

Message: %q

Format JSON requis:
{
    "destination": "ville principale",
    "budget": nombre,
    "type_hebergement": "hôtel/appartement/maison",
    "duree": nombre de jours,
    "personnes": nombre,
    "interets": ["plage", "culture", "nature", "ville"]
}

Exemple:
Message: "Je veux un hôtel pas cher à Tunis pour 3 jours"
Réponse: {"destination": "Tunis", "budget": 100, "type_hebergement": "hôtel", "duree": 3, "personnes": 2, "interets": ["ville"]}

Réponse JSON:`, message)
}

// intentFromObject maps a decoded model answer onto a TravelIntent. Numeric
// fields are copied raw and coerced later by NormalizePreferences.
func intentFromObject(obj map[string]any) *model.TravelIntent {
	intent := &model.TravelIntent{
		Budget:      obj["budget"],
		LodgingType: DefaultLodging,
		Duration:    obj["duree"],
		Travelers:   obj["personnes"],
		Interests:   []string{},
		Source:      model.IntentSourceLlama,
	}

	if dest, ok := obj["destination"].(string); ok {
		if dest = strings.TrimSpace(dest); dest != "" {
			intent.Destination = &dest
		}
	}

	if lodging, ok := obj["type_hebergement"].(string); ok && strings.TrimSpace(lodging) != "" {
		intent.LodgingType = strings.TrimSpace(lodging)
	}

	switch v := obj["interets"].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				intent.Interests = model.AddInterest(intent.Interests, strings.TrimSpace(s))
			}
		}
	case string:
		if s := strings.TrimSpace(v); s != "" {
			intent.Interests = append(intent.Interests, s)
		}
	}

	return intent
}

func derefOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
