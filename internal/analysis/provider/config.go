package provider

import (
	"os"
	"strings"
)

// ProviderType identifies which analysis provider to use.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderMock   ProviderType = "mock"
)

// Config holds configuration for the analysis provider.
type Config struct {
	// Provider type: "openai" or "mock"
	Provider ProviderType

	// OpenAI-specific config
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	TTSModel      string
	TTSVoice      string

	// Path to the prompt template YAML. Empty means built-in defaults.
	PromptsPath string
}

// DefaultOpenAIBaseURL is the default API endpoint.
const DefaultOpenAIBaseURL = "https://api.openai.com"

// LoadFromEnv loads provider configuration from environment variables.
//
// Environment variables:
//   - ANALYSIS_PROVIDER: "openai" or "mock" (default: "openai")
//   - OPENAI_API_KEY: API key (required if using openai)
//   - OPENAI_BASE_URL: API endpoint (default: https://api.openai.com)
//   - OPENAI_MODEL: chat model for analysis/extraction (default: gpt-4o-mini)
//   - OPENAI_TTS_MODEL / OPENAI_TTS_VOICE: speech synthesis; TTS is disabled
//     when the model is unset
//   - ANALYSIS_PROMPTS: path to prompt template YAML (optional)
func LoadFromEnv() Config {
	providerStr := strings.ToLower(strings.TrimSpace(os.Getenv("ANALYSIS_PROVIDER")))

	var p ProviderType
	switch providerStr {
	case "mock":
		p = ProviderMock
	default:
		p = ProviderOpenAI
	}

	baseURL := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	model := strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if model == "" {
		model = "gpt-4o-mini"
	}
	voice := strings.TrimSpace(os.Getenv("OPENAI_TTS_VOICE"))
	if voice == "" {
		voice = "alloy"
	}

	return Config{
		Provider:      p,
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: strings.TrimRight(baseURL, "/"),
		OpenAIModel:   model,
		TTSModel:      strings.TrimSpace(os.Getenv("OPENAI_TTS_MODEL")),
		TTSVoice:      voice,
		PromptsPath:   os.Getenv("ANALYSIS_PROMPTS"),
	}
}

// Validate checks that the configuration is valid for the selected provider.
func (c Config) Validate() error {
	if c.Provider == ProviderOpenAI && c.OpenAIKey == "" {
		return ErrMissingOpenAIKey
	}
	return nil
}
