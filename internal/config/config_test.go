package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:       HTTPConfig{Port: 8080},
		Database:   DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Embedding:  EmbeddingConfig{APIKey: "emb-key"},
		Generation: GenerationConfig{APIKey: "gen-key"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_MissingAPIKeys(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing embedding api key")
	}

	cfg = validConfig()
	cfg.Generation.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing generation api key")
	}
}

func TestValidate_MinSimilarityRange(t *testing.T) {
	cfg := validConfig()
	cfg.Retrieval.MinSimilarity = 1.5

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for min_similarity out of range")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Retrieval.TopK != 20 {
		t.Errorf("expected TopK=20, got %d", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.ContextBudget != 4000 {
		t.Errorf("expected ContextBudget=4000, got %d", cfg.Retrieval.ContextBudget)
	}
	if cfg.Embedding.Dimensions != 1536 {
		t.Errorf("expected Dimensions=1536, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Generation.MaxTokens != 1024 {
		t.Errorf("expected MaxTokens=1024, got %d", cfg.Generation.MaxTokens)
	}
	if cfg.Pipeline.GenerateTimeoutSec != 30 {
		t.Errorf("expected GenerateTimeoutSec=30, got %d", cfg.Pipeline.GenerateTimeoutSec)
	}
	if cfg.Pipeline.OverallTimeoutSec != 55 {
		t.Errorf("expected OverallTimeoutSec=55, got %d", cfg.Pipeline.OverallTimeoutSec)
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("SURFCOACH_TEST_KEY", "secret")
	defer os.Unsetenv("SURFCOACH_TEST_KEY")

	in := []byte("api_key: ${SURFCOACH_TEST_KEY}\nmodel: ${SURFCOACH_TEST_MODEL:-gpt-4o-mini}\n")
	out := string(expandEnvVars(in))

	want := "api_key: secret\nmodel: gpt-4o-mini\n"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}
