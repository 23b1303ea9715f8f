package submissions

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Current is the active store backend, set by Init().
var Current Store

func ListHandler(w http.ResponseWriter, r *http.Request) {
	subs, err := Current.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to read submissions")
		return
	}
	respondJSON(w, http.StatusOK, subs)
}

func CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input SubmissionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Crop == "" || input.Location == "" || input.Date == "" {
		respondError(w, http.StatusBadRequest, "crop, location and date are required")
		return
	}
	if input.RiskLevel != "" && !ValidRiskLevel(input.RiskLevel) {
		respondError(w, http.StatusBadRequest, "riskLevel must be low, medium or high")
		return
	}

	sub, err := Current.Append(input)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save submission")
		return
	}
	respondJSON(w, http.StatusCreated, sub)
}

func UpdateChoiceHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Choice *string `json:"choice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !ValidChoice(body.Choice) {
		respondError(w, http.StatusBadRequest, `choice must be "A", "B" or null`)
		return
	}

	sub, err := Current.UpdateChoice(id, body.Choice)
	if errors.Is(err, ErrNotFound) {
		respondError(w, http.StatusNotFound, "Submission not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update choice")
		return
	}
	respondJSON(w, http.StatusOK, sub)
}

func ClearHandler(w http.ResponseWriter, r *http.Request) {
	if err := Current.Clear(); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to clear submissions")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "All submissions cleared"})
}

func StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := Current.Aggregate()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to aggregate submissions")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
