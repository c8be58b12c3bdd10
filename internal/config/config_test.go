package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LLAMA_CANDIDATE_URLS", "")
	t.Setenv("OFFERS_FREE_MODE", "")
	t.Setenv("OPENAI_API_BASE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Llama.CandidateURLs) != 3 {
		t.Errorf("expected 3 candidate URLs, got %v", cfg.Llama.CandidateURLs)
	}
	if !cfg.Offers.FreeMode {
		t.Error("expected free mode to be enabled by default")
	}
	if cfg.Offers.MaxResults != 10 {
		t.Errorf("expected max results 10, got %d", cfg.Offers.MaxResults)
	}
	if cfg.OpenAI.Enabled {
		t.Error("expected upstream to be disabled without OPENAI_API_BASE")
	}
	if cfg.Llama.HealthTimeout != 2*time.Second {
		t.Errorf("expected 2s health timeout, got %s", cfg.Llama.HealthTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LLAMA_CANDIDATE_URLS", " http://a:1/ , ,http://b:2 ")
	t.Setenv("OFFERS_FREE_MODE", "false")
	t.Setenv("LLAMA_DISCOVERY_COOLDOWN", "5s")
	t.Setenv("OPENAI_API_BASE", "http://127.0.0.1:8080/v1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"http://a:1", "http://b:2"}
	if len(cfg.Llama.CandidateURLs) != len(want) {
		t.Fatalf("CandidateURLs = %v, want %v", cfg.Llama.CandidateURLs, want)
	}
	for i := range want {
		if cfg.Llama.CandidateURLs[i] != want[i] {
			t.Errorf("CandidateURLs[%d] = %q, want %q", i, cfg.Llama.CandidateURLs[i], want[i])
		}
	}
	if cfg.Offers.FreeMode {
		t.Error("expected free mode to be disabled")
	}
	if cfg.Llama.DiscoveryCooldown != 5*time.Second {
		t.Errorf("expected 5s cooldown, got %s", cfg.Llama.DiscoveryCooldown)
	}
	if !cfg.OpenAI.Enabled {
		t.Error("expected upstream to be enabled when a base URL is set")
	}
}

func TestLoad_RejectsNonPositiveLimits(t *testing.T) {
	t.Setenv("OFFERS_MAX_RESULTS", "0")
	if _, err := Load(); err == nil {
		t.Error("expected an error for OFFERS_MAX_RESULTS=0")
	}
}

func TestGetPostgreSQLDSN(t *testing.T) {
	cfg := &Config{PostgreSQL: PostgreSQLConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Database: "travel_app", SSLMode: "disable",
	}}
	want := "host=db port=5432 user=u password=p dbname=travel_app sslmode=disable"
	if got := cfg.GetPostgreSQLDSN(); got != want {
		t.Errorf("GetPostgreSQLDSN() = %q, want %q", got, want)
	}

	cfg.PostgreSQL.DSN = "postgres://x"
	if got := cfg.GetPostgreSQLDSN(); got != "postgres://x" {
		t.Errorf("GetPostgreSQLDSN() = %q, want DSN override", got)
	}
}
