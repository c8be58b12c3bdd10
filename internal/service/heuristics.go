package service

import (
	"regexp"
	"strconv"
	"strings"

	"apptravel/internal/model"
	"apptravel/internal/utils"
)

// Defaults applied when a field cannot be extracted
const (
	DefaultBudget    = 100
	DefaultDuration  = 3
	DefaultTravelers = 2
	DefaultLodging   = "hôtel"

	euroToDinar = 3
)

var (
	// à/vers/pour/to followed by up to four capitalized words
	prepositionDestination = regexp.MustCompile(`(?:^|[\s,;:(])(?i:à|vers|pour|to)\s+(\p{Lu}[\p{L}'’-]*(?:\s+\p{Lu}[\p{L}'’-]*){0,3})`)
	capitalizedWord        = regexp.MustCompile(`\p{Lu}[\p{L}'’-]*`)
	budgetPattern          = regexp.MustCompile(`(\d+)\s*(dt|dinars?|euros?|€)`)
	durationPattern        = regexp.MustCompile(`(\d+)\s*(nuits?|jours?)`)
	travelersPattern       = regexp.MustCompile(`pour\s+(\d+)\s*(personnes?|pers|pax?)`)
)

// a capitalized preposition ends the captured place name ("à Tunis Pour 3 nuits")
var destinationAnchors = map[string]bool{"a": true, "vers": true, "pour": true, "to": true}

// knownDestinations is checked in order; the first match wins
var knownDestinations = []utils.KeywordGroup{
	{Canonical: "Paris", Keywords: []string{"paris"}},
	{Canonical: "Marrakech", Keywords: []string{"marrakech", "maroc"}},
	{Canonical: "Barcelone", Keywords: []string{"barcelone", "barcelona"}},
	{Canonical: "Rome", Keywords: []string{"rome"}},
	{Canonical: "Dubaï", Keywords: []string{"dubai"}},
	{Canonical: "Tunis", Keywords: []string{"tunis"}},
	{Canonical: "Sousse", Keywords: []string{"sousse"}},
	{Canonical: "Hammamet", Keywords: []string{"hammamet"}},
	{Canonical: "Djerba", Keywords: []string{"djerba"}},
	{Canonical: "Monastir", Keywords: []string{"monastir"}},
	{Canonical: "Tozeur", Keywords: []string{"tozeur"}},
	{Canonical: "Tabarka", Keywords: []string{"tabarka"}},
	{Canonical: "Londres", Keywords: []string{"londres", "london"}},
	{Canonical: "New York", Keywords: []string{"new york"}},
	{Canonical: "Tokyo", Keywords: []string{"tokyo"}},
	{Canonical: "Istanbul", Keywords: []string{"istanbul"}},
	{Canonical: "Madrid", Keywords: []string{"madrid"}},
	{Canonical: "Lisbonne", Keywords: []string{"lisbonne", "lisbon"}},
	{Canonical: "Amsterdam", Keywords: []string{"amsterdam"}},
	{Canonical: "Le Caire", Keywords: []string{"le caire", "cairo"}},
}

var interestCategories = []utils.KeywordGroup{
	{Canonical: "plage", Keywords: []string{"plage", "mer"}},
	{Canonical: "culture", Keywords: []string{"culture", "musée"}},
	{Canonical: "nature", Keywords: []string{"nature", "montagne"}},
}

var lodgingTypes = []utils.KeywordGroup{
	{Canonical: "appartement", Keywords: []string{"appartement", "appart", "studio"}},
	{Canonical: "maison", Keywords: []string{"maison"}},
	{Canonical: "villa", Keywords: []string{"villa"}},
	{Canonical: "auberge", Keywords: []string{"auberge", "hostel"}},
	{Canonical: "hôtel", Keywords: []string{"hôtel", "hotel"}},
}

// capitalized words that open sentences or name lodging rather than places
var notDestinations = map[string]bool{
	"je": true, "j": true, "nous": true, "on": true, "moi": true, "mon": true, "ma": true, "mes": true,
	"bonjour": true, "bonsoir": true, "salut": true, "merci": true, "svp": true, "stp": true,
	"le": true, "la": true, "les": true, "un": true, "une": true, "des": true, "quel": true, "quelle": true,
	"i": true, "we": true, "my": true, "hello": true, "hi": true, "please": true,
	"hotel": true, "appartement": true, "maison": true, "villa": true, "auberge": true,
	"dt": true, "eur": true,
}

// ExtractIntentManual extracts a travel intent with keyword and pattern heuristics only
func ExtractIntentManual(message string) *model.TravelIntent {
	intent := &model.TravelIntent{
		Budget:      DefaultBudget,
		LodgingType: DefaultLodging,
		Duration:    DefaultDuration,
		Travelers:   DefaultTravelers,
		Interests:   []string{},
		Source:      model.IntentSourceManual,
	}

	text := utils.NewText(message)
	lower := strings.ToLower(message)

	if dest, ok := resolveDestination(message, text); ok {
		intent.Destination = &dest
	}

	if m := budgetPattern.FindStringSubmatch(lower); m != nil {
		if amount, err := strconv.Atoi(m[1]); err == nil {
			if strings.HasPrefix(m[2], "euro") || m[2] == "€" {
				amount *= euroToDinar
			}
			intent.Budget = amount
		}
	}

	if m := durationPattern.FindStringSubmatch(lower); m != nil {
		if nights, err := strconv.Atoi(m[1]); err == nil {
			intent.Duration = nights
		}
	}

	if m := travelersPattern.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			intent.Travelers = n
		}
	}

	if lodging, ok := text.MatchFirst(lodgingTypes); ok {
		intent.LodgingType = lodging
	}

	intent.Interests = text.MatchAll(interestCategories)

	return intent
}

// resolveDestination tries the preposition pattern, then the known-city
// table, then the last capitalized word of the message.
func resolveDestination(message string, text utils.Text) (string, bool) {
	if m := prepositionDestination.FindStringSubmatch(message); m != nil {
		if dest := trimAtAnchor(m[1]); dest != "" && !notDestinations[utils.Fold(dest)] {
			if known, ok := utils.NewText(dest).MatchFirst(knownDestinations); ok {
				return known, true
			}
			return dest, true
		}
	}

	if dest, ok := text.MatchFirst(knownDestinations); ok {
		return dest, true
	}

	words := capitalizedWord.FindAllString(message, -1)
	for i := len(words) - 1; i >= 0; i-- {
		if !notDestinations[utils.Fold(words[i])] {
			return words[i], true
		}
	}

	return "", false
}

// trimAtAnchor keeps the words of a captured place name up to the first anchor word
func trimAtAnchor(captured string) string {
	words := strings.Fields(captured)
	for i, w := range words {
		if destinationAnchors[utils.Fold(w)] {
			words = words[:i]
			break
		}
	}
	return strings.Join(words, " ")
}
