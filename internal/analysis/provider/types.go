package provider

import (
	"fmt"
	"strings"
)

// SeriesLength is the number of points in the bloom and pollination series:
// one per month, paired by index.
const SeriesLength = 12

// Query is one analysis request as received from the client.
type Query struct {
	Crop     string `json:"crop"`
	Location string `json:"location"`
	Date     string `json:"date"`
	Language string `json:"language"`
}

// PartialQuery holds whatever fields could be extracted from a voice
// transcript. Empty strings mean the field was not mentioned.
type PartialQuery struct {
	Crop     string `json:"crop"`
	Location string `json:"location"`
	Date     string `json:"date"`
}

// MonthValue is one point of an activity series.
type MonthValue struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// Advisory is the structured recommendation attached to a result. OptionA is
// "change crop", OptionB is "continue with precautions".
type Advisory struct {
	Explanation string `json:"explanation"`
	OptionA     string `json:"optionA"`
	OptionB     string `json:"optionB"`
}

// Result is the validated analysis produced by a provider. Nothing
// partially-populated escapes the gateway: every result returned to a
// handler has passed Validate.
type Result struct {
	RiskLevel          string       `json:"riskLevel"`
	RiskScore          float64      `json:"riskScore"`
	YieldImpactPct     float64      `json:"yieldImpactPct"`
	ClimaticConditions string       `json:"climaticConditions"`
	Lat                *float64     `json:"lat,omitempty"`
	Lng                *float64     `json:"lng,omitempty"`
	Bloom              []MonthValue `json:"bloom"`
	Pollination        []MonthValue `json:"pollination"`
	Advisory           Advisory     `json:"advisory"`
	Sources            []string     `json:"sources,omitempty"`
}

// Validate enforces the boundary schema on model output.
func (r *Result) Validate() error {
	switch strings.ToLower(r.RiskLevel) {
	case "low", "medium", "high":
		r.RiskLevel = strings.ToLower(r.RiskLevel)
	default:
		return fmt.Errorf("riskLevel %q is not low/medium/high", r.RiskLevel)
	}
	if r.RiskScore < 0 || r.RiskScore > 100 {
		return fmt.Errorf("riskScore %.1f out of range [0,100]", r.RiskScore)
	}
	if r.YieldImpactPct < 0 || r.YieldImpactPct > 100 {
		return fmt.Errorf("yieldImpactPct %.1f out of range [0,100]", r.YieldImpactPct)
	}
	if len(r.Bloom) != SeriesLength {
		return fmt.Errorf("bloom series has %d points, want %d", len(r.Bloom), SeriesLength)
	}
	if len(r.Pollination) != SeriesLength {
		return fmt.Errorf("pollination series has %d points, want %d", len(r.Pollination), SeriesLength)
	}
	for i := range r.Bloom {
		if r.Bloom[i].Month != r.Pollination[i].Month {
			return fmt.Errorf("series month mismatch at index %d: %q vs %q",
				i, r.Bloom[i].Month, r.Pollination[i].Month)
		}
	}
	if r.Advisory.Explanation == "" || r.Advisory.OptionA == "" || r.Advisory.OptionB == "" {
		return fmt.Errorf("advisory is incomplete")
	}
	return nil
}

// HasCoordinates reports whether the result carries usable coordinates.
// (0,0) is treated as unresolved, matching how consumers handle it.
func (r *Result) HasCoordinates() bool {
	return r.Lat != nil && r.Lng != nil && !(*r.Lat == 0 && *r.Lng == 0)
}

// ConsistencyWarning returns a non-empty message when the AI-asserted yield
// impact disagrees with its own risk bucket. The result still passes —
// the check is advisory, logged by the caller.
func (r *Result) ConsistencyWarning() string {
	var expected string
	switch {
	case r.YieldImpactPct >= 50:
		expected = "high"
	case r.YieldImpactPct >= 20:
		expected = "medium"
	default:
		expected = "low"
	}
	if expected != r.RiskLevel {
		return fmt.Sprintf("yield impact %.1f%% suggests %s risk but model asserted %s",
			r.YieldImpactPct, expected, r.RiskLevel)
	}
	return ""
}
