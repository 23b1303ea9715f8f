package submissions_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/KisanMitra/KM-Backend/internal/submissions"
)

// newTestServer wires the submissions routes onto a fresh file store, the
// same way main.go mounts them under /api.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := submissions.NewFileStore(filepath.Join(t.TempDir(), "submissions.json"))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	submissions.Current = store

	r := chi.NewRouter()
	r.Mount("/api", submissions.SetupRoutes())

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func patchJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPatch, url, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH %s failed: %v", url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

// TestSubmitThenChooseScenario walks the full flow: create a high-risk
// submission, record choice A, and confirm both the list view and the admin
// stats reflect it.
func TestSubmitThenChooseScenario(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/submissions", map[string]any{
		"crop":               "Mango",
		"location":           "Hyderabad",
		"date":               "2026-03-01",
		"riskLevel":          "high",
		"climaticConditions": "Pre-monsoon heat",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created submissions.Submission
	decode(t, resp, &created)
	if created.ID == "" {
		t.Fatal("expected server-assigned id")
	}
	if created.RiskLevel != "high" {
		t.Errorf("expected riskLevel high, got %q", created.RiskLevel)
	}
	if created.Choice != nil {
		t.Errorf("expected null choice, got %v", *created.Choice)
	}

	resp = patchJSON(t, fmt.Sprintf("%s/api/submissions/%s/choice", server.URL, created.ID),
		map[string]any{"choice": "A"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from PATCH, got %d", resp.StatusCode)
	}
	var updated submissions.Submission
	decode(t, resp, &updated)
	if updated.Choice == nil || *updated.Choice != "A" {
		t.Errorf("expected choice A, got %v", updated.Choice)
	}

	resp, err := http.Get(server.URL + "/api/submissions")
	if err != nil {
		t.Fatalf("GET submissions failed: %v", err)
	}
	var listed []submissions.Submission
	decode(t, resp, &listed)
	if len(listed) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(listed))
	}
	if listed[0].Choice == nil || *listed[0].Choice != "A" {
		t.Errorf("list view missing choice: %v", listed[0].Choice)
	}

	resp, err = http.Get(server.URL + "/api/admin/stats")
	if err != nil {
		t.Fatalf("GET stats failed: %v", err)
	}
	var stats submissions.Stats
	decode(t, resp, &stats)
	if stats.ByChoice.Change != 1 {
		t.Errorf("expected byChoice.change == 1, got %d", stats.ByChoice.Change)
	}
	if stats.ByRisk.High != 1 {
		t.Errorf("expected byRisk.high == 1, got %d", stats.ByRisk.High)
	}
}

func TestCreateRejectsIncompleteBody(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/submissions", map[string]any{"crop": "Mango"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}

	resp = postJSON(t, server.URL+"/api/submissions", map[string]any{
		"crop": "Mango", "location": "Hyderabad", "date": "2026-03-01", "riskLevel": "extreme",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad riskLevel, got %d", resp.StatusCode)
	}
}

func TestPatchChoiceNotFound(t *testing.T) {
	server := newTestServer(t)

	resp := patchJSON(t, server.URL+"/api/submissions/no-such-id/choice", map[string]any{"choice": "A"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	var body map[string]string
	decode(t, resp, &body)
	if body["error"] == "" {
		t.Error("expected {\"error\": ...} body")
	}
}

func TestPatchChoiceRejectsBadValue(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/submissions", map[string]any{
		"crop": "Rice", "location": "Thanjavur", "date": "2026-06-15", "riskLevel": "low",
	})
	var created submissions.Submission
	decode(t, resp, &created)

	resp = patchJSON(t, fmt.Sprintf("%s/api/submissions/%s/choice", server.URL, created.ID),
		map[string]any{"choice": "C"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDeleteAllThenStatsZeroed(t *testing.T) {
	server := newTestServer(t)

	postJSON(t, server.URL+"/api/submissions", map[string]any{
		"crop": "Cotton", "location": "Nagpur", "date": "2026-05-20", "riskLevel": "medium",
	}).Body.Close()

	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/api/submissions", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var confirmation map[string]string
	decode(t, resp, &confirmation)
	if confirmation["message"] == "" {
		t.Error("expected confirmation message")
	}

	resp, err = http.Get(server.URL + "/api/admin/stats")
	if err != nil {
		t.Fatalf("GET stats failed: %v", err)
	}
	var stats submissions.Stats
	decode(t, resp, &stats)
	if stats.Total != 0 {
		t.Errorf("expected zeroed stats, got total %d", stats.Total)
	}
	if stats.ByCrop == nil || len(stats.ByCrop) != 0 {
		t.Errorf("expected empty byCrop map, got %v", stats.ByCrop)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET health failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	decode(t, resp, &body)
	if body["timestamp"] == "" {
		t.Error("expected a timestamp in the health response")
	}
}
