package service

import (
	"sort"

	"apptravel/internal/model"
)

const maxRating = 5.0

// Ranker orders offers by rating and by how well their price fits the budget
type Ranker struct {
	weightRating float64
	weightPrice  float64
}

// NewRanker creates a new ranker with specified weights
func NewRanker(weightRating, weightPrice float64) *Ranker {
	return &Ranker{
		weightRating: weightRating,
		weightPrice:  weightPrice,
	}
}

// Score combines the rating and price scores of one offer
func (r *Ranker) Score(offer model.Offer, budget int) float64 {
	return r.weightRating*r.calculateRatingScore(offer.Rating) +
		r.weightPrice*r.calculatePriceScore(offer.Price, budget)
}

// RankOffers returns offers sorted by score descending; ties keep their input order
func (r *Ranker) RankOffers(offers []model.Offer, budget int) []model.Offer {
	type scoredOffer struct {
		offer model.Offer
		score float64
	}

	scored := make([]scoredOffer, 0, len(offers))
	for _, offer := range offers {
		scored = append(scored, scoredOffer{offer: offer, score: r.Score(offer, budget)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	result := make([]model.Offer, len(scored))
	for i, s := range scored {
		result[i] = s.offer
	}
	return result
}

// calculateRatingScore normalizes a 0-5 rating to 0-1
func (r *Ranker) calculateRatingScore(rating *float64) float64 {
	if rating == nil {
		return 0.5 // Neutral score if no rating
	}
	score := *rating / maxRating
	if score > 1.0 {
		return 1.0
	}
	if score < 0 {
		return 0
	}
	return score
}

// calculatePriceScore gives full marks within budget and decays above it
func (r *Ranker) calculatePriceScore(price *int, budget int) float64 {
	if price == nil {
		return 0.5 // Neutral score if no price
	}
	if budget <= 0 || *price <= budget {
		return 1.0
	}
	return float64(budget) / float64(*price)
}
