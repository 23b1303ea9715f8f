package openai

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/KisanMitra/KM-Backend/internal/analysis/provider"
	"github.com/KisanMitra/KM-Backend/internal/logger"
)

func init() {
	provider.RegisterProvider(provider.ProviderOpenAI, NewProvider)
}

// openAIProvider delegates analysis, field extraction, speech synthesis and
// follow-up answers to an OpenAI-compatible API.
type openAIProvider struct {
	client  *client
	prompts Prompts
}

// NewProvider creates the OpenAI analysis provider from config.
func NewProvider(cfg provider.Config) (provider.AnalysisProvider, error) {
	if cfg.OpenAIKey == "" {
		return nil, provider.ErrMissingOpenAIKey
	}

	log, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	prompts, err := LoadPrompts(cfg.PromptsPath)
	if err != nil {
		// Defaults still work; note the override failure and continue.
		log.Warn("prompt overrides not loaded", "error", err.Error())
	}

	return &openAIProvider{
		client: &client{
			log:        log.With("service", "openai"),
			baseURL:    cfg.OpenAIBaseURL,
			apiKey:     cfg.OpenAIKey,
			model:      cfg.OpenAIModel,
			ttsModel:   cfg.TTSModel,
			ttsVoice:   cfg.TTSVoice,
			httpClient: &http.Client{Timeout: 90 * time.Second},
			maxRetries: 3,
		},
		prompts: prompts,
	}, nil
}

func (p *openAIProvider) Name() string { return "openai" }

// monthValueSchema describes one point of an activity series.
func monthValueSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"month": map[string]any{"type": "string"},
			"value": map[string]any{"type": "number"},
		},
		"required":             []string{"month", "value"},
		"additionalProperties": false,
	}
}

func analysisSchema() map[string]any {
	series := map[string]any{
		"type":     "array",
		"items":    monthValueSchema(),
		"minItems": provider.SeriesLength,
		"maxItems": provider.SeriesLength,
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"riskLevel":          map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}},
			"riskScore":          map[string]any{"type": "number"},
			"yieldImpactPct":     map[string]any{"type": "number"},
			"climaticConditions": map[string]any{"type": "string"},
			"lat":                map[string]any{"type": "number"},
			"lng":                map[string]any{"type": "number"},
			"bloom":              series,
			"pollination":        series,
			"advisory": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"explanation": map[string]any{"type": "string"},
					"optionA":     map[string]any{"type": "string"},
					"optionB":     map[string]any{"type": "string"},
				},
				"required":             []string{"explanation", "optionA", "optionB"},
				"additionalProperties": false,
			},
			"sources": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{
			"riskLevel", "riskScore", "yieldImpactPct", "climaticConditions",
			"lat", "lng", "bloom", "pollination", "advisory", "sources",
		},
		"additionalProperties": false,
	}
}

func extractSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"crop":     map[string]any{"type": "string"},
			"location": map[string]any{"type": "string"},
			"date":     map[string]any{"type": "string"},
		},
		"required":             []string{"crop", "location", "date"},
		"additionalProperties": false,
	}
}

// rawResult matches the schema above; lat/lng arrive as plain numbers with 0
// meaning unresolved.
type rawResult struct {
	RiskLevel          string                `json:"riskLevel"`
	RiskScore          float64               `json:"riskScore"`
	YieldImpactPct     float64               `json:"yieldImpactPct"`
	ClimaticConditions string                `json:"climaticConditions"`
	Lat                float64               `json:"lat"`
	Lng                float64               `json:"lng"`
	Bloom              []provider.MonthValue `json:"bloom"`
	Pollination        []provider.MonthValue `json:"pollination"`
	Advisory           provider.Advisory     `json:"advisory"`
	Sources            []string              `json:"sources"`
}

func (p *openAIProvider) Analyze(ctx context.Context, q provider.Query) (*provider.Result, error) {
	var raw rawResult
	err := p.client.generateJSON(ctx,
		p.prompts.Analysis,
		renderAnalysisPrompt(q.Crop, q.Location, q.Date, q.Language),
		"crop_risk_analysis", analysisSchema(), &raw)
	if err != nil {
		return nil, fmt.Errorf("analysis request: %w", err)
	}

	result := &provider.Result{
		RiskLevel:          raw.RiskLevel,
		RiskScore:          raw.RiskScore,
		YieldImpactPct:     raw.YieldImpactPct,
		ClimaticConditions: raw.ClimaticConditions,
		Bloom:              raw.Bloom,
		Pollination:        raw.Pollination,
		Advisory:           raw.Advisory,
		Sources:            raw.Sources,
	}
	if raw.Lat != 0 || raw.Lng != 0 {
		lat, lng := raw.Lat, raw.Lng
		result.Lat, result.Lng = &lat, &lng
	}

	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("model returned invalid analysis: %w", err)
	}
	return result, nil
}

func (p *openAIProvider) ExtractFields(ctx context.Context, transcript, language string) (*provider.PartialQuery, error) {
	var partial provider.PartialQuery
	err := p.client.generateJSON(ctx,
		p.prompts.Extract,
		renderExtractPrompt(transcript, language),
		"query_fields", extractSchema(), &partial)
	if err != nil {
		return nil, fmt.Errorf("extraction request: %w", err)
	}
	return &partial, nil
}

func (p *openAIProvider) Speak(ctx context.Context, text, language string) ([]byte, string, error) {
	if p.client.ttsModel == "" {
		return nil, "", provider.ErrTTSUnavailable
	}
	audio, err := p.client.synthesize(ctx, text)
	if err != nil {
		return nil, "", fmt.Errorf("speech request: %w", err)
	}
	return audio, "audio/mpeg", nil
}

func (p *openAIProvider) FollowUp(ctx context.Context, question, analysisContext, language string) (string, error) {
	answer, err := p.client.generateText(ctx,
		p.prompts.FollowUp,
		renderFollowUpPrompt(question, analysisContext, language))
	if err != nil {
		return "", fmt.Errorf("follow-up request: %w", err)
	}
	return answer, nil
}

func (p *openAIProvider) HealthCheck(ctx context.Context) error {
	_, err := p.client.do(ctx, "GET", "/v1/models", nil)
	return err
}
