package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/KisanMitra/KM-Backend/internal/analysis/provider"
)

// analyzeTimeout bounds a single model call including retries.
const analyzeTimeout = 120 * time.Second

// normalizeLanguage validates a BCP-47 tag and returns its canonical string.
// Empty input defaults to English.
func normalizeLanguage(lang string) (string, error) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return "en", nil
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return "", err
	}
	return tag.String(), nil
}

// gatewayReady answers 503 when no provider is configured. The missing API
// key surfaces here, on use, not at process start.
func gatewayReady(w http.ResponseWriter) bool {
	if Gateway == nil {
		respondError(w, http.StatusServiceUnavailable, "Analysis provider is not configured")
		return false
	}
	return true
}

func AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !gatewayReady(w) {
		return
	}

	var q provider.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if q.Crop == "" || q.Location == "" || q.Date == "" {
		respondError(w, http.StatusBadRequest, "crop, location and date are required")
		return
	}
	lang, err := normalizeLanguage(q.Language)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unrecognized language tag")
		return
	}
	q.Language = lang

	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	result, err := Gateway.Analyze(ctx, q)
	if err != nil {
		Log.Error("analysis failed", "crop", q.Crop, "location", q.Location, "error", err.Error())
		respondError(w, http.StatusBadGateway, "Analysis failed, please try again")
		return
	}

	if warning := result.ConsistencyWarning(); warning != "" {
		Log.Warn("inconsistent model output", "crop", q.Crop, "warning", warning)
	}

	// Model could not place the location; try the geocoding fallback.
	if !result.HasCoordinates() && Geocoder != nil {
		if geo, geoErr := Geocoder.Geocode(ctx, q.Location); geoErr == nil {
			result.Lat, result.Lng = &geo.Lat, &geo.Lng
		} else {
			Log.Warn("geocode fallback failed", "location", q.Location, "error", geoErr.Error())
		}
	}

	respondJSON(w, http.StatusOK, result)
}

func ExtractHandler(w http.ResponseWriter, r *http.Request) {
	if !gatewayReady(w) {
		return
	}

	var body struct {
		Transcript string `json:"transcript"`
		Language   string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(body.Transcript) == "" {
		respondError(w, http.StatusBadRequest, "transcript is required")
		return
	}
	lang, err := normalizeLanguage(body.Language)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unrecognized language tag")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	partial, err := Gateway.ExtractFields(ctx, body.Transcript, lang)
	if err != nil {
		Log.Error("field extraction failed", "error", err.Error())
		respondError(w, http.StatusBadGateway, "Extraction failed, please try again")
		return
	}
	respondJSON(w, http.StatusOK, partial)
}

func SpeakHandler(w http.ResponseWriter, r *http.Request) {
	if !gatewayReady(w) {
		return
	}

	var body struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	lang, err := normalizeLanguage(body.Language)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unrecognized language tag")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	audio, mime, err := Gateway.Speak(ctx, body.Text, lang)
	if errors.Is(err, provider.ErrTTSUnavailable) {
		// Client falls back to browser speech synthesis.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		Log.Error("speech synthesis failed", "error", err.Error())
		respondError(w, http.StatusBadGateway, "Speech synthesis failed")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

func FollowUpHandler(w http.ResponseWriter, r *http.Request) {
	if !gatewayReady(w) {
		return
	}

	var body struct {
		Question string `json:"question"`
		Context  string `json:"context"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(body.Question) == "" {
		respondError(w, http.StatusBadRequest, "question is required")
		return
	}
	lang, err := normalizeLanguage(body.Language)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unrecognized language tag")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	answer, err := Gateway.FollowUp(ctx, body.Question, body.Context, lang)
	if err != nil {
		Log.Error("follow-up failed", "error", err.Error())
		respondError(w, http.StatusBadGateway, "Follow-up failed, please try again")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"answer": answer})
}
