package llm

import (
	"math"
	"testing"
	"time"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SKILLPULSE_LLM_PROVIDER", "SKILLPULSE_LLM_TIMEOUT", "SKILLPULSE_LLM_MAX_ATTEMPTS",
		"SKILLPULSE_ANTHROPIC_API_KEY", "SKILLPULSE_ANTHROPIC_MODEL",
		"SKILLPULSE_OPENAI_API_KEY", "SKILLPULSE_OPENAI_MODEL", "SKILLPULSE_OPENAI_BASE_URL",
		"SKILLPULSE_GEMINI_API_KEY", "SKILLPULSE_GEMINI_MODEL",
		"SKILLPULSE_OPENROUTER_API_KEY", "SKILLPULSE_OPENROUTER_MODEL",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("SKILLPULSE_LLM_PROVIDER", "openai")
	t.Setenv("SKILLPULSE_OPENAI_API_KEY", "sk-test")
	t.Setenv("SKILLPULSE_OPENAI_MODEL", "gpt-4o")
	t.Setenv("SKILLPULSE_LLM_TIMEOUT", "5s")
	t.Setenv("SKILLPULSE_LLM_MAX_ATTEMPTS", "5")

	cfg := ConfigFromEnv()
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("max attempts = %d, want 5", cfg.Retry.MaxAttempts)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("provider = %q, want openai", cfg.Provider)
	}
	if cfg.OpenAI.APIKey != "sk-test" || cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("openai config = %+v", cfg.OpenAI)
	}
	if cfg.Anthropic.Model != "claude-haiku" {
		t.Errorf("anthropic default model = %q", cfg.Anthropic.Model)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %s, want 5s", cfg.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestDiscoverConfig(t *testing.T) {
	clearLLMEnv(t)
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("GEMINI_API_KEY", "g")
	t.Setenv("OPENAI_API_KEY", "o")
	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("expected a provider")
	}
	if cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "o" {
		t.Errorf("discovered %q, want openai first", cfg.Provider)
	}
}

func TestResolveConfig(t *testing.T) {
	t.Run("falls back to discovery", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("ANTHROPIC_API_KEY", "a")
		cfg, err := ResolveConfig()
		if err != nil {
			t.Fatalf("ResolveConfig: %v", err)
		}
		if cfg.Anthropic.APIKey != "a" {
			t.Errorf("anthropic key = %q", cfg.Anthropic.APIKey)
		}
	})

	t.Run("explicit provider is not overridden", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("SKILLPULSE_LLM_PROVIDER", "gemini")
		t.Setenv("ANTHROPIC_API_KEY", "a")
		if _, err := ResolveConfig(); err == nil {
			t.Fatal("expected missing gemini key error")
		}
	})

	t.Run("mock", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("SKILLPULSE_LLM_PROVIDER", "mock")
		cfg, err := ResolveConfig()
		if err != nil || cfg.Provider != ProviderMock {
			t.Fatalf("cfg = %+v, err = %v", cfg, err)
		}
	})
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	if c == nil {
		t.Fatal("expected pricing for gpt-4o-mini")
	}
	if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("cost = %v, want 0.75", got)
	}
	if LookupCost("claude-haiku") == nil {
		t.Error("friendly name should resolve to priced model")
	}
	if LookupCost("unknown-model") != nil {
		t.Error("expected nil for unknown model")
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"3", 3 * time.Second},
		{" 10 ", 10 * time.Second},
		{"", 0},
		{"-1", 0},
		{"Wed, 21 Oct 2015 07:28:00 GMT", 0},
	}
	for _, tt := range tests {
		if got := parseRetryAfter(tt.in); got != tt.want {
			t.Errorf("parseRetryAfter(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
