package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/sagan/laras/constants"
	"github.com/sagan/laras/features/store"
)

// LoadDotEnv loads env variables from file (or ".env" in current dir if file is empty).
// Variables already set in the process environment are never overridden.
// A missing default ".env" is not an error.
func LoadDotEnv(file string) {
	if file == "" {
		if _, err := os.Stat(".env"); err != nil {
			return
		}
		file = ".env"
	}
	if err := godotenv.Load(file); err != nil {
		log.Warnf("failed to load env file %q: %v", file, err)
	}
}

// GetModels returns the model fallback chain.
// It checks the LARAS_MODELS environment variable first, then falls back to constants.DEFAULT_MODELS.
func GetModels() []string {
	if models := ParseModels(os.Getenv(constants.ENV_MODELS)); len(models) > 0 {
		return models
	}
	return append([]string(nil), constants.DEFAULT_MODELS...)
}

// ParseModels splits a comma-separated model list, dropping empty entries.
func ParseModels(s string) (models []string) {
	for _, m := range strings.Split(s, ",") {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}
	return models
}

// GetTimeout returns the enhancement request timeout from LARAS_TIMEOUT env,
// or constants.DEFAULT_TIMEOUT if unset or invalid.
func GetTimeout() time.Duration {
	if v := os.Getenv(constants.ENV_TIMEOUT); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		log.Warnf("ignore invalid %s env %q", constants.ENV_TIMEOUT, v)
	}
	return constants.DEFAULT_TIMEOUT
}

func GetProxyURL() string {
	return strings.TrimSpace(os.Getenv(constants.ENV_PROXY_URL))
}

func GetGeminiURL() string {
	return strings.TrimSpace(os.Getenv(constants.ENV_GEMINI_URL))
}

// GetDataDir returns the local store dir: LARAS_DATA_DIR env, or ~/.laras.
func GetDataDir() string {
	if dir := os.Getenv(constants.ENV_DATA_DIR); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return constants.DEFAULT_DATA_DIR
	}
	return filepath.Join(home, constants.DEFAULT_DATA_DIR)
}

func GetRelayAddr() string {
	if addr := os.Getenv(constants.ENV_RELAY_ADDR); addr != "" {
		return addr
	}
	return constants.DEFAULT_RELAY_ADDR
}

// GetAPIKey returns the Gemini api key: GEMINI_API_KEY env, then the "api_key" entry of s.
// s may be nil.
func GetAPIKey(s store.Store) string {
	if key := strings.TrimSpace(os.Getenv(constants.ENV_GEMINI_API_KEY)); key != "" {
		return key
	}
	if s == nil {
		return ""
	}
	return strings.TrimSpace(store.Load(s, constants.KEY_API_KEY, ""))
}

func GetRelayUpstream() string {
	return strings.TrimSpace(os.Getenv(constants.ENV_RELAY_UPSTREAM))
}

// GetRelayKey returns the relay upstream api key: LARAS_RELAY_KEY env,
// then GEMINI_API_KEY env if the relay calls Gemini directly (no upstream).
func GetRelayKey(upstream string) string {
	if key := strings.TrimSpace(os.Getenv(constants.ENV_RELAY_KEY)); key != "" {
		return key
	}
	if upstream == "" {
		return strings.TrimSpace(os.Getenv(constants.ENV_GEMINI_API_KEY))
	}
	return ""
}
