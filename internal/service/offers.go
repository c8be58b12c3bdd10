package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"apptravel/internal/config"
	"apptravel/internal/model"
)

const (
	dateLayout          = "2006-01-02"
	maxTripAdvisorCards = 8
	scrapeUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

var (
	cardClassPattern = regexp.MustCompile(`result|listing|card|property`)
	nameClassPattern = regexp.MustCompile(`title|name|headline`)
)

// OfferGenerator produces offers for normalized preferences, either as
// deep links into travel sites or as synthetic listings.
type OfferGenerator struct {
	cfg        config.OffersConfig
	ranker     *Ranker
	httpClient *http.Client
	now        func() time.Time

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewOfferGenerator creates a new offer generator
func NewOfferGenerator(cfg config.OffersConfig, ranker *Ranker) *OfferGenerator {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 10
	}
	if cfg.ScrapeTimeout <= 0 {
		cfg.ScrapeTimeout = 10 * time.Second
	}
	if cfg.CheckinOffsetDays <= 0 {
		cfg.CheckinOffsetDays = 7
	}
	if cfg.DefaultCity == "" {
		cfg.DefaultCity = "Tunis"
	}
	cfg.TripAdvisorBase = strings.TrimRight(cfg.TripAdvisorBase, "/")
	if cfg.TripAdvisorBase == "" {
		cfg.TripAdvisorBase = "https://www.tripadvisor.com"
	}
	if ranker == nil {
		ranker = NewRanker(0.6, 0.4)
	}

	return &OfferGenerator{
		cfg:        cfg,
		ranker:     ranker,
		httpClient: &http.Client{Timeout: cfg.ScrapeTimeout},
		now:        time.Now,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// FreeMode reports whether only deep links are produced
func (g *OfferGenerator) FreeMode() bool {
	return g.cfg.FreeMode
}

// Generate returns between 1 and MaxResults offers
func (g *OfferGenerator) Generate(ctx context.Context, prefs model.Preferences) []model.Offer {
	var offers []model.Offer

	if g.cfg.FreeMode {
		if dest := prefs.DestinationName(""); dest != "" {
			offers = g.DeepLinks(dest, prefs)
		}
	} else {
		offers = g.synthetic(ctx, prefs.DestinationName(g.cfg.DefaultCity), prefs.Budget)
	}

	if len(offers) == 0 {
		log.Printf("⚠️  No offers produced, using fallback offers")
		offers = FallbackOffers(prefs.DestinationName(g.cfg.DefaultCity), prefs.Budget)
	}

	if len(offers) > g.cfg.MaxResults {
		offers = offers[:g.cfg.MaxResults]
	}
	return offers
}

// DeepLinks builds search URLs into the major travel sites. No network access.
func (g *OfferGenerator) DeepLinks(dest string, prefs model.Preferences) []model.Offer {
	nights := prefs.Duration
	if nights < 1 {
		nights = DefaultDuration
	}
	adults := prefs.Travelers
	if adults < 1 {
		adults = DefaultTravelers
	}

	checkin := g.now().AddDate(0, 0, g.cfg.CheckinOffsetDays)
	checkout := checkin.AddDate(0, 0, nights)
	in, out := checkin.Format(dateLayout), checkout.Format(dateLayout)
	guests := fmt.Sprint(adults)

	var price *int
	if prefs.Budget > 0 {
		estimate := prefs.Budget
		price = &estimate
	}

	booking := url.Values{
		"ss":           {dest},
		"checkin":      {in},
		"checkout":     {out},
		"group_adults": {guests},
		"no_rooms":     {"1"},
	}
	expedia := url.Values{
		"destination": {dest},
		"startDate":   {in},
		"endDate":     {out},
		"adults":      {guests},
	}
	airbnb := url.Values{
		"checkin":  {in},
		"checkout": {out},
		"adults":   {guests},
	}

	return []model.Offer{
		{
			Name:   fmt.Sprintf("Booking.com : hébergements à %s", dest),
			Price:  price,
			Link:   "https://www.booking.com/searchresults.html?" + booking.Encode(),
			Source: model.SourceBooking,
		},
		{
			Name:   fmt.Sprintf("Expedia : hôtels à %s", dest),
			Price:  price,
			Link:   "https://www.expedia.com/Hotel-Search?" + expedia.Encode(),
			Source: model.SourceExpedia,
		},
		{
			Name:   fmt.Sprintf("Airbnb : logements à %s", dest),
			Price:  price,
			Link:   "https://www.airbnb.com/s/" + url.PathEscape(dest) + "/homes?" + airbnb.Encode(),
			Source: model.SourceAirbnb,
		},
		{
			Name:   fmt.Sprintf("TripAdvisor : avis et hôtels à %s", dest),
			Price:  price,
			Link:   "https://www.tripadvisor.com/Search?" + url.Values{"q": {dest}}.Encode(),
			Source: model.SourceTripAdvisor,
		},
		{
			Name:   fmt.Sprintf("Google Flights : vols vers %s", dest),
			Link:   "https://www.google.com/travel/flights?" + url.Values{"q": {"Flights to " + dest}}.Encode(),
			Source: model.SourceGoogle,
		},
	}
}

// FallbackOffers returns the three fixed offers used when nothing else was produced
func FallbackOffers(dest string, budget int) []model.Offer {
	if budget < 1 {
		budget = DefaultBudget
	}
	link := "https://www.booking.com/searchresults.html?" + url.Values{"ss": {dest}}.Encode()

	return []model.Offer{
		fallbackOffer(fmt.Sprintf("Hôtel %s Centre", dest), budget*8/10, 4.2, link),
		fallbackOffer(fmt.Sprintf("Résidence %s", dest), budget*11/10, 4.5, link),
		fallbackOffer(fmt.Sprintf("Auberge %s", dest), budget*5/10, 3.9, link),
	}
}

func fallbackOffer(name string, price int, rating float64, link string) model.Offer {
	return model.Offer{
		Name:      name,
		Price:     &price,
		Rating:    &rating,
		Link:      link,
		Source:    model.SourceFallback,
		Synthetic: true,
	}
}

// synthetic gathers TripAdvisor cards plus simulated Booking and Expedia
// listings, then ranks them. Each source contributes nothing on failure.
func (g *OfferGenerator) synthetic(ctx context.Context, dest string, budget int) []model.Offer {
	var offers []model.Offer

	tripAdvisor, err := g.scrapeTripAdvisor(ctx, dest, budget)
	if err != nil {
		log.Printf("❌ TripAdvisor scraping failed: %v", err)
	} else {
		log.Printf("✅ TripAdvisor: %d offers", len(tripAdvisor))
	}
	offers = append(offers, tripAdvisor...)

	booking := g.bookingSimulation(dest, budget)
	log.Printf("✅ Booking.com: %d offers", len(booking))
	offers = append(offers, booking...)

	expedia := g.expediaSimulation(dest, budget)
	log.Printf("✅ Expedia: %d offers", len(expedia))
	offers = append(offers, expedia...)

	return g.ranker.RankOffers(offers, budget)
}

// scrapeTripAdvisor parses the public search page. Card names and links are
// real, prices and ratings are fabricated.
func (g *OfferGenerator) scrapeTripAdvisor(ctx context.Context, dest string, budget int) ([]model.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.ScrapeTimeout)
	defer cancel()

	searchURL := g.cfg.TripAdvisorBase + "/Search?" + url.Values{"q": {dest + " hotel"}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", scrapeUserAgent)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9,en;q=0.8")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search page: %w", err)
	}

	var offers []model.Offer
	doc.Find("div").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		class, _ := card.Attr("class")
		if !cardClassPattern.MatchString(class) {
			return true
		}

		name := strings.TrimSpace(card.Find("h3, h2, span").FilterFunction(func(_ int, s *goquery.Selection) bool {
			c, _ := s.Attr("class")
			return nameClassPattern.MatchString(c)
		}).First().Text())
		if name == "" {
			name = fmt.Sprintf("Hôtel %s", dest)
		}

		link := g.cfg.TripAdvisorBase
		if href, ok := card.Find("a[href]").First().Attr("href"); ok && href != "" {
			link = g.absoluteLink(href)
		}

		price := g.randomPrice(budget, 0.6, 1.2)
		rating := g.randomRating(3.5, 4.9)
		offers = append(offers, model.Offer{
			Name:      name,
			Price:     &price,
			Rating:    &rating,
			Link:      link,
			Source:    model.SourceTripAdvisor,
			Synthetic: true,
		})
		return len(offers) < maxTripAdvisorCards
	})

	return offers, nil
}

func (g *OfferGenerator) absoluteLink(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return g.cfg.TripAdvisorBase + href
}

func (g *OfferGenerator) bookingSimulation(dest string, budget int) []model.Offer {
	names := []string{
		fmt.Sprintf("Hôtel %s Central", dest),
		fmt.Sprintf("Résidence %s Premium", dest),
		fmt.Sprintf("Appartement %s Vue Mer", dest),
		fmt.Sprintf("Suites %s Business", dest),
		fmt.Sprintf("Villa %s Jardin", dest),
	}
	link := "https://www.booking.com/searchresults.html?" + url.Values{"ss": {dest}}.Encode()
	ceiling := int(math.Floor(float64(budget) * 1.2))

	var offers []model.Offer
	for _, name := range names {
		price := g.randomPrice(budget, 0.5, 1.3)
		rating := g.randomRating(3.8, 4.9)
		if price > ceiling {
			continue
		}
		offers = append(offers, model.Offer{
			Name:      name,
			Price:     &price,
			Rating:    &rating,
			Link:      link,
			Source:    model.SourceBooking,
			Synthetic: true,
		})
	}
	return offers
}

func (g *OfferGenerator) expediaSimulation(dest string, budget int) []model.Offer {
	kinds := []string{"Hôtel", "Resort", "Guesthouse", "Hostel", "Lodge"}
	link := "https://www.expedia.com/Hotel-Search?" + url.Values{"destination": {dest}}.Encode()

	offers := make([]model.Offer, 0, 4)
	for i := 0; i < 4; i++ {
		price := g.randomPrice(budget, 0.4, 1.4)
		rating := g.randomRating(3.6, 4.8)
		offers = append(offers, model.Offer{
			Name:      fmt.Sprintf("%s %s", kinds[g.randIntn(len(kinds))], dest),
			Price:     &price,
			Rating:    &rating,
			Link:      link,
			Source:    model.SourceExpedia,
			Synthetic: true,
		})
	}
	return offers
}

// randomPrice draws uniformly from [lo*budget, hi*budget], both bounds truncated
func (g *OfferGenerator) randomPrice(budget int, lo, hi float64) int {
	low := int(float64(budget) * lo)
	high := int(float64(budget) * hi)
	if high < low {
		low, high = high, low
	}
	return low + g.randIntn(high-low+1)
}

// randomRating draws uniformly from [lo, hi] rounded to one decimal
func (g *OfferGenerator) randomRating(lo, hi float64) float64 {
	g.mu.Lock()
	r := g.rng.Float64()
	g.mu.Unlock()
	return math.Round((lo+r*(hi-lo))*10) / 10
}

func (g *OfferGenerator) randIntn(n int) int {
	if n <= 1 {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Intn(n)
}
