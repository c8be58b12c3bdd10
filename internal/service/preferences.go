package service

import (
	"fmt"
	"strings"

	"apptravel/internal/history"
	"apptravel/internal/model"
	"apptravel/internal/utils"
)

// checked in order; the first category with a keyword present wins
var budgetCategories = []utils.KeywordGroup{
	{Canonical: model.BudgetEconomy, Keywords: []string{"pas cher", "économique", "petit budget"}},
	{Canonical: model.BudgetLuxury, Keywords: []string{"luxe", "premium"}},
	{Canonical: model.BudgetStandard, Keywords: []string{"moyen", "standard"}},
}

var assistantInterests = []utils.KeywordGroup{
	{Canonical: "plage", Keywords: []string{"plage", "mer"}},
	{Canonical: "culture", Keywords: []string{"culture", "musée", "histoire"}},
	{Canonical: "nature", Keywords: []string{"nature", "randonnée", "montagne"}},
	{Canonical: "aventure", Keywords: []string{"aventure", "sport"}},
}

var assistantDestinations = []utils.KeywordGroup{
	{Canonical: "Paris", Keywords: []string{"paris"}},
	{Canonical: "Rome", Keywords: []string{"rome"}},
	{Canonical: "London", Keywords: []string{"london", "londres"}},
	{Canonical: "Barcelone", Keywords: []string{"barcelone", "barcelona"}},
	{Canonical: "New York", Keywords: []string{"new york"}},
	{Canonical: "Tokyo", Keywords: []string{"tokyo"}},
	{Canonical: "Dubai", Keywords: []string{"dubai"}},
	{Canonical: "Marrakech", Keywords: []string{"marrakech"}},
	{Canonical: "Istanbul", Keywords: []string{"istanbul"}},
	{Canonical: "Tunis", Keywords: []string{"tunis"}},
}

// ExtractAssistantPreferences detects budget category, interests and destination
func ExtractAssistantPreferences(message string) model.AssistantPreferences {
	text := utils.NewText(message)
	prefs := model.AssistantPreferences{
		Interests: text.MatchAll(assistantInterests),
	}

	if budget, ok := text.MatchFirst(budgetCategories); ok {
		prefs.Budget = &budget
	}
	if dest, ok := text.MatchFirst(assistantDestinations); ok {
		prefs.Destination = &dest
	}

	return prefs
}

// BuildSmartPrompt assembles the assistant rules, recent history, detected
// preferences and the current message.
func BuildSmartPrompt(recent []history.Entry, prefs model.AssistantPreferences, message string) string {
	var b strings.Builder

	b.WriteString("Tu es un assistant de voyage amical et expert.\n")
	b.WriteString("Règles:\n")
	b.WriteString("- Réponds de manière conversationnelle et naturelle\n")
	b.WriteString("- Pose des questions pour mieux comprendre les besoins\n")
	b.WriteString("- Sois enthousiaste et utile\n")
	b.WriteString("- Garde tes réponses courtes (2-3 phrases max)\n\n")

	if len(recent) > 0 {
		b.WriteString("Historique récent:\n")
		for _, entry := range recent {
			fmt.Fprintf(&b, "- %s: %s\n", entry.Role, entry.Content)
		}
		b.WriteString("\n")
	}

	if !prefs.IsEmpty() {
		b.WriteString("Préférences détectées:\n")
		if prefs.Budget != nil {
			fmt.Fprintf(&b, "- Budget: %s\n", *prefs.Budget)
		}
		if len(prefs.Interests) > 0 {
			fmt.Fprintf(&b, "- Intérêts: %s\n", strings.Join(prefs.Interests, ", "))
		}
		if prefs.Destination != nil {
			fmt.Fprintf(&b, "- Destination: %s\n", *prefs.Destination)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%s: %s\n%s:", history.RoleUser, message, history.RoleAssistant)
	return b.String()
}
