package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KisanMitra/KM-Backend/internal/analysis/provider"
)

var months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// chatReply wraps content into the chat-completions response envelope.
func chatReply(t *testing.T, content any) []byte {
	t.Helper()
	raw, err := json.Marshal(content)
	if err != nil {
		t.Fatalf("marshaling fake content: %v", err)
	}
	envelope := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": string(raw)}},
		},
	}
	out, _ := json.Marshal(envelope)
	return out
}

func fakeAnalysis(seriesLen int) map[string]any {
	bloom := make([]map[string]any, seriesLen)
	pollination := make([]map[string]any, seriesLen)
	for i := 0; i < seriesLen; i++ {
		bloom[i] = map[string]any{"month": months[i%12], "value": 0.3}
		pollination[i] = map[string]any{"month": months[i%12], "value": 0.6}
	}
	return map[string]any{
		"riskLevel":          "high",
		"riskScore":          78,
		"yieldImpactPct":     55,
		"climaticConditions": "Pre-monsoon heat waves",
		"lat":                17.385,
		"lng":                78.4867,
		"bloom":              bloom,
		"pollination":        pollination,
		"advisory": map[string]any{
			"explanation": "Flowering overlaps the hottest weeks.",
			"optionA":     "Switch to millets.",
			"optionB":     "Mulch and irrigate at dawn.",
		},
		"sources": []string{},
	}
}

func newFakeProvider(t *testing.T, handler http.HandlerFunc) provider.AnalysisProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewProvider(provider.Config{
		Provider:      provider.ProviderOpenAI,
		OpenAIKey:     "test-key",
		OpenAIBaseURL: server.URL,
		OpenAIModel:   "test-model",
	})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	return p
}

func TestNewProviderRequiresKey(t *testing.T) {
	_, err := NewProvider(provider.Config{Provider: provider.ProviderOpenAI})
	if err != provider.ErrMissingOpenAIKey {
		t.Fatalf("expected ErrMissingOpenAIKey, got %v", err)
	}
}

func TestAnalyzeParsesStructuredOutput(t *testing.T) {
	p := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("missing auth header, got %q", auth)
		}
		w.Write(chatReply(t, fakeAnalysis(12)))
	})

	result, err := p.Analyze(context.Background(), provider.Query{
		Crop: "Mango", Location: "Hyderabad", Date: "2026-03-01", Language: "en",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.RiskLevel != "high" {
		t.Errorf("expected high risk, got %q", result.RiskLevel)
	}
	if !result.HasCoordinates() {
		t.Error("expected resolved coordinates")
	}
	if len(result.Bloom) != provider.SeriesLength {
		t.Errorf("expected %d bloom points, got %d", provider.SeriesLength, len(result.Bloom))
	}
}

func TestAnalyzeRejectsMalformedSeries(t *testing.T) {
	p := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatReply(t, fakeAnalysis(7)))
	})

	_, err := p.Analyze(context.Background(), provider.Query{
		Crop: "Mango", Location: "Hyderabad", Date: "2026-03-01", Language: "en",
	})
	if err == nil {
		t.Fatal("expected validation error for 7-point series")
	}
	if !strings.Contains(err.Error(), "invalid analysis") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAnalyzeRejectsUnparseableReply(t *testing.T) {
	p := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		envelope := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "sorry, I cannot produce JSON today"}},
			},
		}
		_ = json.NewEncoder(w).Encode(envelope)
	})

	_, err := p.Analyze(context.Background(), provider.Query{
		Crop: "Mango", Location: "Hyderabad", Date: "2026-03-01", Language: "en",
	})
	if err == nil {
		t.Fatal("expected parse error for non-JSON model reply")
	}
}

func TestAnalyzeDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	p := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error": "bad request"}`, http.StatusBadRequest)
	})

	_, err := p.Analyze(context.Background(), provider.Query{
		Crop: "Mango", Location: "Hyderabad", Date: "2026-03-01", Language: "en",
	})
	if err == nil {
		t.Fatal("expected error from 400 response")
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 call for a non-retryable status, got %d", calls)
	}
}

func TestExtractFields(t *testing.T) {
	p := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatReply(t, map[string]string{
			"crop": "Mango", "location": "Hyderabad", "date": "",
		}))
	})

	partial, err := p.ExtractFields(context.Background(), "I want to plant mango near Hyderabad", "en")
	if err != nil {
		t.Fatalf("ExtractFields failed: %v", err)
	}
	if partial.Crop != "Mango" || partial.Location != "Hyderabad" {
		t.Errorf("unexpected extraction: %+v", partial)
	}
	if partial.Date != "" {
		t.Errorf("expected empty date, got %q", partial.Date)
	}
}

func TestSpeakWithoutTTSModel(t *testing.T) {
	p := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected when TTS is unconfigured")
	})

	_, _, err := p.Speak(context.Background(), "hello", "en")
	if err != provider.ErrTTSUnavailable {
		t.Fatalf("expected ErrTTSUnavailable, got %v", err)
	}
}

func TestFollowUp(t *testing.T) {
	p := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		envelope := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Water in the early morning."}},
			},
		}
		_ = json.NewEncoder(w).Encode(envelope)
	})

	answer, err := p.FollowUp(context.Background(), "When should I water?", "high risk for mango", "en")
	if err != nil {
		t.Fatalf("FollowUp failed: %v", err)
	}
	if answer != "Water in the early morning." {
		t.Errorf("unexpected answer: %q", answer)
	}
}

func TestRequestCarriesSchemaFormat(t *testing.T) {
	p := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		rf, ok := req["response_format"].(map[string]any)
		if !ok {
			t.Fatal("expected response_format in request")
		}
		if rf["type"] != "json_schema" {
			t.Errorf("expected json_schema format, got %v", rf["type"])
		}
		w.Write(chatReply(t, fakeAnalysis(12)))
	})

	if _, err := p.Analyze(context.Background(), provider.Query{
		Crop: "Rice", Location: "Thanjavur", Date: "2026-06-15", Language: "ta",
	}); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
}

func TestLoadPromptsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	content := "analysis: |\n  Custom analysis prompt.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing prompts file: %v", err)
	}

	prompts, err := LoadPrompts(path)
	if err != nil {
		t.Fatalf("LoadPrompts failed: %v", err)
	}
	if !strings.Contains(prompts.Analysis, "Custom analysis prompt") {
		t.Errorf("override not applied: %q", prompts.Analysis)
	}
	// Keys absent from the file keep their defaults.
	if prompts.Extract != DefaultPrompts().Extract {
		t.Error("extract prompt should keep its default")
	}
}

func TestLoadPromptsEmptyPathUsesDefaults(t *testing.T) {
	prompts, err := LoadPrompts("")
	if err != nil {
		t.Fatalf("LoadPrompts failed: %v", err)
	}
	if prompts != DefaultPrompts() {
		t.Error("expected defaults for empty path")
	}
}

