package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// City mirrors the unmanaged cities table
type City struct {
	ID        int64    `json:"id" db:"id"`
	CountryID int      `json:"country_id" db:"country_id"`
	Name      string   `json:"name" db:"name"`
	Lat       *float64 `json:"lat,omitempty" db:"lat"`
	Lng       *float64 `json:"lng,omitempty" db:"lng"`
}

// Destination mirrors the unmanaged destinations table
type Destination struct {
	ID              int64    `json:"id" db:"id"`
	CityID          int64    `json:"city_id" db:"city_id"`
	Title           string   `json:"title" db:"title"`
	Description     *string  `json:"description,omitempty" db:"description"`
	AvgPriceLevel   *int     `json:"avg_price_level,omitempty" db:"avg_price_level"`
	PopularityScore *float64 `json:"popularity_score,omitempty" db:"popularity_score"`
	ImageURL        *string  `json:"image_url,omitempty" db:"image_url"`
}

// DestinationSummary is the listing shape served by /api/destinations/
type DestinationSummary struct {
	ID    int64  `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
	City  string `json:"city" db:"city"`
}

// Attraction mirrors the unmanaged attractions table
type Attraction struct {
	ID       int64   `json:"id" db:"id"`
	CityID   int64   `json:"city_id" db:"city_id"`
	Category *string `json:"category,omitempty" db:"category"`
}

// RoomOffer mirrors the unmanaged room_offers table
type RoomOffer struct {
	ID            int64     `json:"id" db:"id"`
	RoomTypeID    int64     `json:"room_type_id" db:"room_type_id"`
	PricePerNight float64   `json:"price_per_night" db:"price_per_night"`
	Currency      string    `json:"currency" db:"currency"`
	AvailableFrom time.Time `json:"available_from" db:"available_from"`
	AvailableTo   time.Time `json:"available_to" db:"available_to"`
}

// UserPreference mirrors the unmanaged user_preferences table
type UserPreference struct {
	UserID    int64     `json:"user_id" db:"user_id"`
	Currency  string    `json:"currency" db:"currency"`
	MinBudget *float64  `json:"min_budget,omitempty" db:"min_budget"`
	MaxBudget *float64  `json:"max_budget,omitempty" db:"max_budget"`
	Interests JSONArray `json:"interests,omitempty" db:"interests"`
}

// JSONArray represents a JSON array column
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("unsupported JSONArray source type %T", value)
	}
}
