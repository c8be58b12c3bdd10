package service

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"apptravel/internal/model"
)

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{name: "Nil", in: nil, want: 100},
		{name: "True is not a number", in: true, want: 100},
		{name: "False is not a number", in: false, want: 100},
		{name: "Int", in: 5, want: 5},
		{name: "Zero clamps to one", in: 0, want: 1},
		{name: "Negative clamps to one", in: -3, want: 1},
		{name: "Float truncated", in: 4.9, want: 4},
		{name: "NaN", in: math.NaN(), want: 100},
		{name: "JSON integer", in: json.Number("7"), want: 7},
		{name: "JSON float", in: json.Number("2.5"), want: 2},
		{name: "String with unit", in: "150 DT", want: 150},
		{name: "String sign dropped", in: "-5", want: 5},
		{name: "String without digits", in: "beaucoup", want: 100},
		{name: "Empty string", in: "", want: 100},
		{name: "Huge float", in: 1e300, want: maxCoercedInt},
		{name: "Unsupported type", in: []int{1}, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoerceInt(tt.in, 100); got != tt.want {
				t.Errorf("CoerceInt(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizePreferences(t *testing.T) {
	dest := "  Rome. "
	prefs := NormalizePreferences(&model.TravelIntent{
		Destination: &dest,
		Budget:      true,
		Duration:    "3 nuits",
		Travelers:   2.0,
		Interests:   []string{"plage", "Plage", " culture ", ""},
	})

	if prefs.DestinationName("") != "Rome" {
		t.Errorf("destination = %q, want Rome", prefs.DestinationName(""))
	}
	if prefs.Budget != DefaultBudget {
		t.Errorf("budget = %d, want default for a boolean", prefs.Budget)
	}
	if prefs.Duration != 3 || prefs.Travelers != 2 {
		t.Errorf("duree/personnes = %d/%d, want 3/2", prefs.Duration, prefs.Travelers)
	}
	if prefs.LodgingType != DefaultLodging {
		t.Errorf("type_hebergement = %q, want %q", prefs.LodgingType, DefaultLodging)
	}
	if want := []string{"plage", "culture"}; !reflect.DeepEqual(prefs.Interests, want) {
		t.Errorf("interets = %v, want %v", prefs.Interests, want)
	}
}

func TestNormalizePreferences_BlankDestination(t *testing.T) {
	blank := "   "
	prefs := NormalizePreferences(&model.TravelIntent{Destination: &blank})
	if prefs.Destination != nil {
		t.Errorf("expected blank destination to be dropped, got %q", *prefs.Destination)
	}

	prefs = NormalizePreferences(nil)
	if prefs.Budget != DefaultBudget || prefs.Duration != DefaultDuration || prefs.Travelers != DefaultTravelers {
		t.Errorf("unexpected defaults: %+v", prefs)
	}
}
