package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"apptravel/internal/config"
	"apptravel/internal/model"
)

func newTestGenerator(cfg config.OffersConfig) *OfferGenerator {
	g := NewOfferGenerator(cfg, nil)
	g.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	return g
}

func strPtr(s string) *string { return &s }

func TestDeepLinks(t *testing.T) {
	g := newTestGenerator(config.OffersConfig{FreeMode: true, MaxResults: 10, CheckinOffsetDays: 7})

	for _, dest := range []string{"New York", "Dubaï", "Rome"} {
		t.Run(dest, func(t *testing.T) {
			offers := g.Generate(context.Background(), model.Preferences{
				Destination: strPtr(dest), Budget: 120, Duration: 4, Travelers: 3,
			})

			wantSources := []string{model.SourceBooking, model.SourceExpedia, model.SourceAirbnb, model.SourceTripAdvisor, model.SourceGoogle}
			if len(offers) != len(wantSources) {
				t.Fatalf("expected %d offers, got %d", len(wantSources), len(offers))
			}

			for i, offer := range offers {
				if offer.Source != wantSources[i] {
					t.Errorf("offers[%d].source = %q, want %q", i, offer.Source, wantSources[i])
				}
				if !strings.Contains(offer.Link, url.QueryEscape(dest)) && !strings.Contains(offer.Link, url.PathEscape(dest)) {
					t.Errorf("offers[%d] link %q does not embed escaped destination", i, offer.Link)
				}
				if offer.Rating != nil || offer.Synthetic {
					t.Errorf("deep link %d must not carry a fabricated rating", i)
				}
			}

			if offers[0].Price == nil || *offers[0].Price != 120 {
				t.Errorf("expected budget estimate as price, got %v", offers[0].Price)
			}
			if !strings.Contains(offers[0].Link, "checkin=2024-06-08") || !strings.Contains(offers[0].Link, "checkout=2024-06-12") {
				t.Errorf("unexpected stay dates in %q", offers[0].Link)
			}
			if !strings.Contains(offers[0].Link, "group_adults=3") {
				t.Errorf("party size missing from %q", offers[0].Link)
			}
		})
	}
}

func TestGenerate_FallbackWithoutDestination(t *testing.T) {
	g := newTestGenerator(config.OffersConfig{FreeMode: true, MaxResults: 10, DefaultCity: "Tunis"})

	offers := g.Generate(context.Background(), model.Preferences{Budget: 100, Duration: 3, Travelers: 2})
	if len(offers) != 3 {
		t.Fatalf("expected 3 fallback offers, got %d", len(offers))
	}
	for _, offer := range offers {
		if offer.Source != model.SourceFallback || !strings.Contains(offer.Name, "Tunis") {
			t.Errorf("unexpected fallback offer %+v", offer)
		}
	}
}

func TestGenerate_TruncatesToMaxResults(t *testing.T) {
	g := newTestGenerator(config.OffersConfig{FreeMode: true, MaxResults: 2})

	offers := g.Generate(context.Background(), model.Preferences{Destination: strPtr("Paris"), Budget: 90, Duration: 2, Travelers: 1})
	if len(offers) != 2 {
		t.Errorf("expected 2 offers, got %d", len(offers))
	}
}

func TestFallbackOffers(t *testing.T) {
	tests := []struct {
		budget     int
		wantPrices []int
	}{
		{budget: 100, wantPrices: []int{80, 110, 50}},
		{budget: 7, wantPrices: []int{5, 7, 3}},
		{budget: 0, wantPrices: []int{80, 110, 50}},
	}
	wantRatings := []float64{4.2, 4.5, 3.9}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.budget), func(t *testing.T) {
			offers := FallbackOffers("Sousse", tt.budget)
			if len(offers) != 3 {
				t.Fatalf("expected 3 offers, got %d", len(offers))
			}
			for i, offer := range offers {
				if *offer.Price != tt.wantPrices[i] {
					t.Errorf("offers[%d].prix = %d, want %d", i, *offer.Price, tt.wantPrices[i])
				}
				if *offer.Rating != wantRatings[i] {
					t.Errorf("offers[%d].note = %v, want %v", i, *offer.Rating, wantRatings[i])
				}
				if !offer.Synthetic {
					t.Errorf("offers[%d] should be marked synthetic", i)
				}
			}
		})
	}
}

func tripAdvisorPage(cards int) string {
	var b strings.Builder
	b.WriteString("<html><body><div>")
	for i := 1; i <= cards; i++ {
		fmt.Fprintf(&b, `<div class="result-card"><a href="/Hotel_Review-%d"><h3 class="result-title">Dar %d</h3></a></div>`, i, i)
	}
	b.WriteString(`<div class="footer">ignored</div></div></body></html>`)
	return b.String()
}

func TestScrapeTripAdvisor(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(tripAdvisorPage(3)))
	}))
	defer srv.Close()

	g := newTestGenerator(config.OffersConfig{TripAdvisorBase: srv.URL, ScrapeTimeout: 2 * time.Second})
	offers, err := g.scrapeTripAdvisor(context.Background(), "Djerba", 100)
	if err != nil {
		t.Fatalf("scrapeTripAdvisor() error = %v", err)
	}

	if query != "Djerba hotel" {
		t.Errorf("search query = %q", query)
	}
	if len(offers) != 3 {
		t.Fatalf("expected 3 offers, got %d", len(offers))
	}
	for i, offer := range offers {
		if offer.Name != fmt.Sprintf("Dar %d", i+1) {
			t.Errorf("offers[%d].nom = %q", i, offer.Name)
		}
		if offer.Link != fmt.Sprintf("%s/Hotel_Review-%d", srv.URL, i+1) {
			t.Errorf("offers[%d].lien = %q", i, offer.Link)
		}
		if *offer.Price < 60 || *offer.Price > 120 {
			t.Errorf("offers[%d].prix = %d, outside [60, 120]", i, *offer.Price)
		}
		if *offer.Rating < 3.5 || *offer.Rating > 4.9 {
			t.Errorf("offers[%d].note = %v, outside [3.5, 4.9]", i, *offer.Rating)
		}
	}
}

func TestScrapeTripAdvisor_CardLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(tripAdvisorPage(12)))
	}))
	defer srv.Close()

	g := newTestGenerator(config.OffersConfig{TripAdvisorBase: srv.URL})
	offers, err := g.scrapeTripAdvisor(context.Background(), "Rome", 100)
	if err != nil {
		t.Fatalf("scrapeTripAdvisor() error = %v", err)
	}
	if len(offers) != maxTripAdvisorCards {
		t.Errorf("expected %d offers, got %d", maxTripAdvisorCards, len(offers))
	}
}

func TestGenerate_SyntheticSurvivesScrapeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	g := newTestGenerator(config.OffersConfig{FreeMode: false, MaxResults: 10, TripAdvisorBase: srv.URL})
	offers := g.Generate(context.Background(), model.Preferences{Destination: strPtr("Tozeur"), Budget: 100, Duration: 3, Travelers: 2})

	if len(offers) < 4 || len(offers) > 9 {
		t.Fatalf("expected Booking and Expedia simulations only, got %d offers", len(offers))
	}
	for i, offer := range offers {
		if offer.Source == model.SourceTripAdvisor {
			t.Errorf("offers[%d] came from a failed source", i)
		}
		if offer.Source == model.SourceBooking && *offer.Price > 120 {
			t.Errorf("booking offer above 1.2x budget: %d", *offer.Price)
		}
		if i > 0 && g.ranker.Score(offers[i-1], 100) < g.ranker.Score(offer, 100) {
			t.Errorf("offers not ranked at %d", i)
		}
	}
}

func TestRandomPrice_Bounds(t *testing.T) {
	g := newTestGenerator(config.OffersConfig{})
	for i := 0; i < 200; i++ {
		if p := g.randomPrice(100, 0.4, 1.4); p < 40 || p > 140 {
			t.Fatalf("randomPrice() = %d, outside [40, 140]", p)
		}
		if p := g.randomPrice(1, 0.6, 1.2); p < 0 || p > 1 {
			t.Fatalf("randomPrice() = %d, outside [0, 1]", p)
		}
	}
}
