package offerskit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultBaseURL points at the reference exercise host.
const DefaultBaseURL = "https://python.exercise.applifting.cz"

// Settings is the immutable SDK configuration, loaded once at client
// construction and never mutated afterwards.
type Settings struct {
	// RefreshToken is the long-lived secret exchanged for access tokens.
	RefreshToken string
	// BaseURL is the API root, without a trailing slash.
	BaseURL string
	// Timeout bounds every transport call unless overridden per request.
	Timeout time.Duration
	// Transport selects a registered backend by name ("pooled", "simple").
	Transport string
	// OffersCacheTTL is how long cached offers stay fresh.
	OffersCacheTTL time.Duration
	// TokenCachePath is where the file token store keeps its JSON document.
	TokenCachePath string
}

// DefaultSettings returns settings with every default applied and no
// credential.
func DefaultSettings() Settings {
	home, _ := os.UserHomeDir()
	return Settings{
		BaseURL:        DefaultBaseURL,
		Timeout:        30 * time.Second,
		Transport:      "pooled",
		OffersCacheTTL: 60 * time.Second,
		TokenCachePath: filepath.Join(home, ".offerskit", "token_cache.json"),
	}
}

// LoadSettings reads configuration from the environment with the OFFERS_API
// prefix (OFFERS_API_REFRESH_TOKEN, OFFERS_API_BASE_URL, OFFERS_API_TIMEOUT,
// OFFERS_API_TRANSPORT, OFFERS_API_OFFERS_CACHE_TTL,
// OFFERS_API_TOKEN_CACHE_PATH). A .env file in the working directory is
// loaded first when present. The refresh token is required.
func LoadSettings() (Settings, error) {
	// Missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("OFFERS_API")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultSettings()
	v.SetDefault("base_url", defaults.BaseURL)
	v.SetDefault("timeout", defaults.Timeout.Seconds())
	v.SetDefault("transport", defaults.Transport)
	v.SetDefault("offers_cache_ttl", int(defaults.OffersCacheTTL.Seconds()))
	v.SetDefault("token_cache_path", defaults.TokenCachePath)

	settings := Settings{
		RefreshToken:   v.GetString("refresh_token"),
		BaseURL:        strings.TrimRight(v.GetString("base_url"), "/"),
		Timeout:        time.Duration(v.GetFloat64("timeout") * float64(time.Second)),
		Transport:      v.GetString("transport"),
		OffersCacheTTL: time.Duration(v.GetInt("offers_cache_ttl")) * time.Second,
		TokenCachePath: v.GetString("token_cache_path"),
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Validate checks that the settings describe a usable configuration.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.RefreshToken) == "" {
		return fmt.Errorf("refresh token is required (set OFFERS_API_REFRESH_TOKEN)")
	}
	if s.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if s.OffersCacheTTL <= 0 {
		return fmt.Errorf("offers cache TTL must be positive")
	}
	return nil
}
