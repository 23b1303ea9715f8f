package provider

import (
	"context"
	"errors"
	"fmt"
)

// Common errors
var (
	ErrMissingOpenAIKey = errors.New("OPENAI_API_KEY environment variable is required for openai provider")
	ErrUnknownProvider  = errors.New("unknown provider type")

	// ErrTTSUnavailable signals that speech synthesis is not configured.
	ErrTTSUnavailable = errors.New("speech synthesis is not configured")
)

// AnalysisProvider is the interface every analysis backend must implement.
// Calls are fallible, latency-bearing and non-idempotent: identical queries
// may return different generated content, so callers must not cache.
type AnalysisProvider interface {
	// Name returns the provider name for logging purposes.
	Name() string

	// Analyze runs a full climate-risk analysis for the query. The returned
	// result has passed Result.Validate.
	Analyze(ctx context.Context, q Query) (*Result, error)

	// ExtractFields pulls crop/location/date out of a voice transcript.
	// Fields not present in the transcript come back empty.
	ExtractFields(ctx context.Context, transcript, language string) (*PartialQuery, error)

	// Speak synthesizes text to audio. Returns the audio bytes and their
	// MIME type, or ErrTTSUnavailable when synthesis is not configured.
	Speak(ctx context.Context, text, language string) ([]byte, string, error)

	// FollowUp answers a free-form question about a prior analysis.
	FollowUp(ctx context.Context, question, analysisContext, language string) (string, error)

	// HealthCheck verifies the provider can reach its backing service.
	HealthCheck(ctx context.Context) error
}

// providerRegistry holds registered provider constructors, keyed by type.
// New providers register themselves from init() in their own package.
var providerRegistry = make(map[ProviderType]func(Config) (AnalysisProvider, error))

// RegisterProvider registers a provider constructor for a given provider type.
func RegisterProvider(providerType ProviderType, constructor func(Config) (AnalysisProvider, error)) {
	providerRegistry[providerType] = constructor
}

// NewProvider creates an AnalysisProvider from the configuration. It returns
// an error if the configuration is invalid or the provider is unknown.
func NewProvider(cfg Config) (AnalysisProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	constructor, ok := providerRegistry[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}

	return constructor(cfg)
}
