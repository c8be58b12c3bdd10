package model

// Intent sources
const (
	IntentSourceLlama  = "llama"
	IntentSourceManual = "manual"
)

// TravelIntent represents the structured request extracted from a free-text message.
// Numeric fields keep whatever was decoded (model output may carry strings,
// floats or booleans) and are only trusted after normalization into Preferences.
type TravelIntent struct {
	Destination *string  `json:"destination"`
	Budget      any      `json:"budget"`
	LodgingType string   `json:"type_hebergement"`
	Duration    any      `json:"duree"`
	Travelers   any      `json:"personnes"`
	Interests   []string `json:"interets"`
	Source      string   `json:"source"`
}

// Preferences is the normalized form of a TravelIntent
type Preferences struct {
	Destination *string  `json:"destination"`
	Budget      int      `json:"budget"`
	LodgingType string   `json:"type_hebergement"`
	Duration    int      `json:"duree"`
	Travelers   int      `json:"personnes"`
	Interests   []string `json:"interets"`
}

// DestinationName returns the destination or fallback when none was resolved
func (p Preferences) DestinationName(fallback string) string {
	if p.Destination == nil || *p.Destination == "" {
		return fallback
	}
	return *p.Destination
}

// AddInterest appends tag unless it is already present
func AddInterest(interests []string, tag string) []string {
	for _, existing := range interests {
		if existing == tag {
			return interests
		}
	}
	return append(interests, tag)
}
