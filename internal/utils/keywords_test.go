package utils

import (
	"reflect"
	"testing"
)

func TestFold(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hôtel à Dubaï", "hotel a dubai"},
		{"MUSÉE", "musee"},
		{"Barcelone", "barcelone"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Fold(tt.input); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestText_Has(t *testing.T) {
	text := NewText("Je rêve de plages, de musées et d'un séjour à New York")

	tests := []struct {
		keyword string
		want    bool
	}{
		{"plage", true},
		{"musée", true},
		{"new york", true},
		{"york", true},
		{"mer", false}, // must not match inside another word
		{"sejour", true},
		{"", false},
	}

	for _, tt := range tests {
		if got := text.Has(tt.keyword); got != tt.want {
			t.Errorf("Has(%q) = %v, want %v", tt.keyword, got, tt.want)
		}
	}
}

func TestText_MatchFirst(t *testing.T) {
	groups := []KeywordGroup{
		{Canonical: "Marrakech", Keywords: []string{"marrakech", "maroc"}},
		{Canonical: "Rome", Keywords: []string{"rome"}},
	}

	got, ok := NewText("Rome ou le Maroc ?").MatchFirst(groups)
	if !ok || got != "Marrakech" {
		t.Errorf("MatchFirst() = %q, %v; want first group in priority order", got, ok)
	}

	if _, ok := NewText("Oslo").MatchFirst(groups); ok {
		t.Error("MatchFirst() matched an unknown city")
	}
}

func TestText_MatchAll(t *testing.T) {
	groups := []KeywordGroup{
		{Canonical: "plage", Keywords: []string{"plage", "mer"}},
		{Canonical: "culture", Keywords: []string{"culture", "musée"}},
		{Canonical: "plage", Keywords: []string{"sable"}},
		{Canonical: "nature", Keywords: []string{"nature", "montagne"}},
	}

	got := NewText("la mer, le sable et un musée").MatchAll(groups)
	want := []string{"plage", "culture"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MatchAll() = %v, want %v", got, want)
	}
}
