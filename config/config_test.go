package config

import (
	"slices"
	"testing"
	"time"

	"github.com/sagan/laras/constants"
	"github.com/sagan/laras/features/store"
)

func TestParseModels(t *testing.T) {
	got := ParseModels(" gemini-2.5-pro, ,gemini-2.5-flash,")
	if want := []string{"gemini-2.5-pro", "gemini-2.5-flash"}; !slices.Equal(got, want) {
		t.Errorf("ParseModels = %v, want %v", got, want)
	}
	if got := ParseModels(""); len(got) != 0 {
		t.Errorf("ParseModels(\"\") = %v", got)
	}
}

func TestGetModelsAndTimeout(t *testing.T) {
	t.Setenv(constants.ENV_MODELS, "")
	if got := GetModels(); !slices.Equal(got, constants.DEFAULT_MODELS) {
		t.Errorf("GetModels = %v, want defaults", got)
	}
	t.Setenv(constants.ENV_MODELS, "a,b")
	if got := GetModels(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("GetModels = %v", got)
	}

	t.Setenv(constants.ENV_TIMEOUT, "90s")
	if got := GetTimeout(); got != 90*time.Second {
		t.Errorf("GetTimeout = %v", got)
	}
	t.Setenv(constants.ENV_TIMEOUT, "soon")
	if got := GetTimeout(); got != constants.DEFAULT_TIMEOUT {
		t.Errorf("GetTimeout with invalid env = %v", got)
	}
}

func TestGetAPIKey(t *testing.T) {
	s := store.NewMemoryStore()
	t.Setenv(constants.ENV_GEMINI_API_KEY, "")
	if got := GetAPIKey(s); got != "" {
		t.Errorf("GetAPIKey = %q, want empty", got)
	}
	if err := store.Save(s, constants.KEY_API_KEY, " from-store "); err != nil {
		t.Fatal(err)
	}
	if got := GetAPIKey(s); got != "from-store" {
		t.Errorf("GetAPIKey = %q, want store value", got)
	}
	t.Setenv(constants.ENV_GEMINI_API_KEY, "from-env")
	if got := GetAPIKey(s); got != "from-env" {
		t.Errorf("GetAPIKey = %q, want env value", got)
	}
	if got := GetAPIKey(nil); got != "from-env" {
		t.Errorf("GetAPIKey(nil) = %q", got)
	}
}

func TestGetRelayKey(t *testing.T) {
	t.Setenv(constants.ENV_RELAY_KEY, "")
	t.Setenv(constants.ENV_GEMINI_API_KEY, "gemini")
	if got := GetRelayKey(""); got != "gemini" {
		t.Errorf("gemini mode key = %q", got)
	}
	if got := GetRelayKey("https://openrouter.ai/api/v1"); got != "" {
		t.Errorf("upstream mode key = %q, want empty", got)
	}
	t.Setenv(constants.ENV_RELAY_KEY, "relay")
	if got := GetRelayKey("https://openrouter.ai/api/v1"); got != "relay" {
		t.Errorf("upstream mode key = %q", got)
	}
}
