package service

import (
	"context"
	"strings"
	"testing"

	"apptravel/internal/llama"
	"apptravel/internal/model"
)

// fakeModel answers prompts with a canned function
type fakeModel struct {
	answer  func(prompt string) string
	url     string
	prompts []string
}

func (f *fakeModel) Generate(_ context.Context, prompt string, _ int) string {
	f.prompts = append(f.prompts, prompt)
	return f.answer(prompt)
}

func (f *fakeModel) Available(context.Context) (string, bool) {
	return f.url, f.url != ""
}

func fixedAnswer(text string) func(string) string {
	return func(string) string { return text }
}

func TestIntentExtractor_UsesLastObjectWithDestination(t *testing.T) {
	llm := &fakeModel{answer: fixedAnswer(`Exemple: {"destination": "Tunis", "budget": 100}
Réponse: {"destination": "Rome", "budget": "300", "duree": 4, "personnes": 2, "interets": ["culture", "culture"]}`)}

	intent := NewIntentExtractor(llm).Extract(context.Background(), "Un séjour à Rome")

	if intent.Source != model.IntentSourceLlama {
		t.Fatalf("source = %q, want llama", intent.Source)
	}
	if intent.Destination == nil || *intent.Destination != "Rome" {
		t.Errorf("destination = %v, want Rome", intent.Destination)
	}
	if len(intent.Interests) != 1 {
		t.Errorf("interets = %v, want deduplicated", intent.Interests)
	}

	prefs := NormalizePreferences(intent)
	if prefs.Budget != 300 || prefs.Duration != 4 {
		t.Errorf("budget/duree = %d/%d, want 300/4", prefs.Budget, prefs.Duration)
	}
	if !strings.Contains(llm.prompts[0], "Un séjour à Rome") {
		t.Error("prompt does not embed the user message")
	}
}

func TestIntentExtractor_NullDestination(t *testing.T) {
	llm := &fakeModel{answer: fixedAnswer(`{"destination": null, "budget": 80}`)}

	intent := NewIntentExtractor(llm).Extract(context.Background(), "un voyage")
	if intent.Source != model.IntentSourceLlama {
		t.Fatalf("source = %q, want llama", intent.Source)
	}
	if intent.Destination != nil {
		t.Errorf("destination = %q, want nil", *intent.Destination)
	}
	if got := NormalizePreferences(intent).Budget; got != 80 {
		t.Errorf("budget = %d, want 80", got)
	}
}

func TestIntentExtractor_WholeResponseObject(t *testing.T) {
	llm := &fakeModel{answer: fixedAnswer("```json\n{'budget': 250, 'duree': 2,}\n```")}

	intent := NewIntentExtractor(llm).Extract(context.Background(), "2 nuits")
	if intent.Source != model.IntentSourceLlama {
		t.Fatalf("source = %q, want llama", intent.Source)
	}
	if got := NormalizePreferences(intent).Budget; got != 250 {
		t.Errorf("budget = %d, want 250", got)
	}
}

func TestIntentExtractor_FallsBackToHeuristics(t *testing.T) {
	tests := []struct {
		name string
		llm  TextGenerator
	}{
		{name: "No model client", llm: nil},
		{name: "Simulated answer", llm: &fakeModel{answer: llama.Simulate}},
		{name: "Prose answer", llm: &fakeModel{answer: fixedAnswer("Je ne sais pas, désolé.")}},
		{name: "Embedded object without destination", llm: &fakeModel{answer: fixedAnswer(`Voici le budget estimé: {"budget": 200}`)}},
		{name: "Panicking model", llm: &fakeModel{answer: func(string) string { panic("boom") }}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := NewIntentExtractor(tt.llm).Extract(context.Background(), "Un week-end à Djerba pour 3 personnes")

			if intent.Source != model.IntentSourceManual {
				t.Errorf("source = %q, want manual", intent.Source)
			}
			if intent.Destination == nil || *intent.Destination != "Djerba" {
				t.Errorf("destination = %v, want Djerba", intent.Destination)
			}
			if intent.Travelers != 3 {
				t.Errorf("personnes = %v, want 3", intent.Travelers)
			}
		})
	}
}

func TestIntentExtractor_EmptyMessage(t *testing.T) {
	llm := &fakeModel{answer: fixedAnswer(`{"destination": "Paris"}`)}

	intent := NewIntentExtractor(llm).Extract(context.Background(), "   ")
	if intent.Destination != nil {
		t.Errorf("destination = %q, want nil for empty input", *intent.Destination)
	}
	if len(llm.prompts) != 0 {
		t.Error("model should not be called for an empty message")
	}
}
