package service

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"

	"apptravel/internal/model"
)

const maxCoercedInt = 1_000_000_000

// CoerceInt turns an untrusted decoded value into an integer >= 1.
// Booleans are rejected, strings lose every non-digit character, and
// anything unusable yields def.
func CoerceInt(v any, def int) int {
	n, ok := toInt(v)
	if !ok {
		n = def
	}
	if n < 1 {
		return 1
	}
	if n > maxCoercedInt {
		return maxCoercedInt
	}
	return n
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case nil, bool:
		return 0, false
	case int:
		return x, true
	case int32:
		return int(x), true
	case int64:
		return clampInt64(x), true
	case float32:
		return toInt(float64(x))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		if x > maxCoercedInt {
			return maxCoercedInt, true
		}
		return int(x), true
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return clampInt64(i), true
		}
		if f, err := x.Float64(); err == nil {
			return toInt(f)
		}
		return toInt(string(x))
	case string:
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, x)
		if digits == "" {
			return 0, false
		}
		if len(digits) > 10 {
			return maxCoercedInt, true
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func clampInt64(i int64) int {
	if i > maxCoercedInt {
		return maxCoercedInt
	}
	if i < -maxCoercedInt {
		return -maxCoercedInt
	}
	return int(i)
}

// NormalizePreferences re-coerces every field of an intent before it is used downstream
func NormalizePreferences(intent *model.TravelIntent) model.Preferences {
	if intent == nil {
		intent = &model.TravelIntent{}
	}

	prefs := model.Preferences{
		Budget:      CoerceInt(intent.Budget, DefaultBudget),
		LodgingType: strings.TrimSpace(intent.LodgingType),
		Duration:    CoerceInt(intent.Duration, DefaultDuration),
		Travelers:   CoerceInt(intent.Travelers, DefaultTravelers),
		Interests:   []string{},
	}

	if intent.Destination != nil {
		if dest := strings.TrimFunc(*intent.Destination, func(r rune) bool {
			return unicode.IsSpace(r) || unicode.IsPunct(r)
		}); dest != "" {
			prefs.Destination = &dest
		}
	}

	if prefs.LodgingType == "" {
		prefs.LodgingType = DefaultLodging
	}

	for _, interest := range intent.Interests {
		if interest = strings.ToLower(strings.TrimSpace(interest)); interest != "" {
			prefs.Interests = model.AddInterest(prefs.Interests, interest)
		}
	}

	return prefs
}
