package claude

import (
	"errors"
	"fmt"
	"os"
)

const defaultBaseURL = "https://api.anthropic.com"

// EnvAPIKey is the environment variable consulted when no explicit key is
// given to NewClient.
const EnvAPIKey = "ANTHROPIC_API_KEY"

// ErrMissingAPIKey is returned by the constructors when no API key could be
// resolved.
var ErrMissingAPIKey = errors.New("missing API key")

type Config struct {
	baseURL string
	apiKey  string
}

// NewConfig is for callers pointing the client somewhere other than
// api.anthropic.com (a proxy, a recording server).
func NewConfig(baseURL, apiKey string) *Config {
	return &Config{
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// resolveConfig applies the credential precedence: an explicit key wins and
// the environment is never consulted; otherwise EnvAPIKey is the fallback.
func resolveConfig(apiKey string) (*Config, error) {
	if apiKey == "" {
		apiKey = os.Getenv(EnvAPIKey)
	}

	if apiKey == "" {
		return nil, fmt.Errorf("%w: pass an API key or set %s", ErrMissingAPIKey, EnvAPIKey)
	}

	return NewConfig(defaultBaseURL, apiKey), nil
}
