package model

// Offer sources
const (
	SourceBooking     = "Booking"
	SourceExpedia     = "Expedia"
	SourceAirbnb      = "Airbnb"
	SourceTripAdvisor = "TripAdvisor"
	SourceGoogle      = "Google"
	SourceFallback    = "Fallback"
)

// Offer is a single lodging/flight suggestion returned to the caller
type Offer struct {
	Name      string   `json:"nom"`
	Price     *int     `json:"prix"`
	Rating    *float64 `json:"note"`
	Link      string   `json:"lien"`
	Source    string   `json:"source"`
	Synthetic bool     `json:"synthetic,omitempty"` // price/rating were fabricated
}
