package submissions

import (
	"time"

	"gorm.io/datatypes"
)

// Risk level buckets assigned by the analysis provider.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Choice values for the post-advisory decision.
const (
	ChoiceChange   = "A" // change crop
	ChoiceContinue = "B" // continue with precautions
)

// Submission is one persisted crop/location/date query together with its
// analysis result and the user's optional decision. Fields other than Choice
// are immutable after creation; ID and Timestamp are server-assigned.
type Submission struct {
	ID                 string         `gorm:"primaryKey" json:"id"`
	Crop               string         `json:"crop"`
	Location           string         `json:"location"`
	Date               string         `json:"date"`
	Lat                *float64       `json:"lat,omitempty"`
	Lng                *float64       `json:"lng,omitempty"`
	RiskLevel          string         `json:"riskLevel"`
	ClimaticConditions string         `json:"climaticConditions"`
	FullAnalysis       datatypes.JSON `json:"fullAnalysis,omitempty"`
	Choice             *string        `json:"choice"`
	Timestamp          time.Time      `json:"timestamp"`
}

func (Submission) TableName() string {
	return "submissions"
}

// SubmissionInput is the client-supplied portion of a submission. The store
// fills ID, Timestamp and Choice.
type SubmissionInput struct {
	Crop               string         `json:"crop"`
	Location           string         `json:"location"`
	Date               string         `json:"date"`
	Lat                *float64       `json:"lat,omitempty"`
	Lng                *float64       `json:"lng,omitempty"`
	RiskLevel          string         `json:"riskLevel"`
	ClimaticConditions string         `json:"climaticConditions"`
	FullAnalysis       datatypes.JSON `json:"fullAnalysis,omitempty"`
}

type RiskCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type ChoiceCounts struct {
	Change   int `json:"change"`
	Continue int `json:"continue"`
	None     int `json:"none"`
}

// Stats is the admin aggregation shape. ByRisk and ByChoice each partition
// the full collection, so their bucket sums always equal Total.
type Stats struct {
	Total    int            `json:"total"`
	ByRisk   RiskCounts     `json:"byRisk"`
	ByChoice ChoiceCounts   `json:"byChoice"`
	ByCrop   map[string]int `json:"byCrop"`
}
