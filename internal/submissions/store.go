package submissions

import (
	"errors"
	"strings"
)

// ErrNotFound signals a choice update against an id that is not in the store.
var ErrNotFound = errors.New("submission not found")

// Store is the durable record of all submissions. Implementations must keep
// store order stable (oldest first) and assign ids and timestamps themselves.
type Store interface {
	// List returns all submissions in store order. A missing backing file or
	// empty table yields an empty slice, never an error.
	List() ([]Submission, error)

	// Append assigns an id and timestamp, persists the submission with a
	// null choice, and returns the stored record.
	Append(in SubmissionInput) (*Submission, error)

	// UpdateChoice sets the choice on an existing submission. Returns
	// ErrNotFound when the id is absent; it never creates a record.
	UpdateChoice(id string, choice *string) (*Submission, error)

	// Clear resets the store to an empty collection. Idempotent.
	Clear() error

	// Aggregate computes stats over the current contents.
	Aggregate() (*Stats, error)
}

// ValidChoice reports whether c is an acceptable choice value: nil, "A" or "B".
func ValidChoice(c *string) bool {
	if c == nil {
		return true
	}
	return *c == ChoiceChange || *c == ChoiceContinue
}

// ValidRiskLevel reports whether s is one of the three risk buckets.
func ValidRiskLevel(s string) bool {
	switch strings.ToLower(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// ComputeStats aggregates a snapshot of the collection. Both store backends
// share it so the bucket-sum invariants hold regardless of backend. Risk
// levels outside the known buckets (possible when the backing file was edited
// by hand) count as "low" rather than breaking the partition.
func ComputeStats(subs []Submission) *Stats {
	stats := &Stats{ByCrop: map[string]int{}}
	for _, s := range subs {
		stats.Total++

		switch strings.ToLower(s.RiskLevel) {
		case RiskHigh:
			stats.ByRisk.High++
		case RiskMedium:
			stats.ByRisk.Medium++
		default:
			stats.ByRisk.Low++
		}

		switch {
		case s.Choice == nil:
			stats.ByChoice.None++
		case *s.Choice == ChoiceChange:
			stats.ByChoice.Change++
		case *s.Choice == ChoiceContinue:
			stats.ByChoice.Continue++
		default:
			stats.ByChoice.None++
		}

		if s.Crop != "" {
			stats.ByCrop[s.Crop]++
		}
	}
	return stats
}
