package openai

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Prompts holds the system prompts sent with each request type. The user
// message is rendered from the query at call time.
type Prompts struct {
	Analysis string `yaml:"analysis"`
	Extract  string `yaml:"extract"`
	FollowUp string `yaml:"followup"`
}

// DefaultPrompts are the compiled-in templates, used when no YAML file is
// configured.
func DefaultPrompts() Prompts {
	return Prompts{
		Analysis: "You are an agronomist advising smallholder farmers on climate risk to crop yield. " +
			"Given a crop, a location and a planting date, assess bloom and pollinator activity across " +
			"the twelve months of the growing year, the overall yield risk, and the climatic conditions " +
			"expected around the planting date. Risk level must be exactly one of low, medium or high, " +
			"and the risk score and yield impact percentage must agree with that bucket. Resolve the " +
			"location to latitude and longitude when you can; use 0 for both when you cannot. Write the " +
			"explanation and both options in the requested language, in plain words a farmer can act on. " +
			"Option A recommends changing the crop; option B recommends continuing with precautions.",
		Extract: "You extract structured fields from a farmer's spoken request. Return the crop name, " +
			"the location, and the intended planting date as an ISO date when one is mentioned. Leave a " +
			"field empty when the transcript does not mention it. Do not guess.",
		FollowUp: "You are an agronomist answering a farmer's follow-up question about a crop risk " +
			"analysis they just received. Answer briefly and concretely in the requested language, " +
			"grounded in the analysis context provided.",
	}
}

// LoadPrompts reads prompt overrides from a YAML file. Missing keys fall back
// to the defaults; an empty path returns the defaults unchanged.
func LoadPrompts(path string) (Prompts, error) {
	prompts := DefaultPrompts()
	if path == "" {
		return prompts, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return prompts, fmt.Errorf("reading prompts file: %w", err)
	}

	var loaded Prompts
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return prompts, fmt.Errorf("parsing prompts file: %w", err)
	}

	if loaded.Analysis != "" {
		prompts.Analysis = loaded.Analysis
	}
	if loaded.Extract != "" {
		prompts.Extract = loaded.Extract
	}
	if loaded.FollowUp != "" {
		prompts.FollowUp = loaded.FollowUp
	}
	return prompts, nil
}

func renderAnalysisPrompt(crop, location, date, language string) string {
	return fmt.Sprintf("Crop: %s\nLocation: %s\nPlanting date: %s\nRespond in language: %s",
		crop, location, date, language)
}

func renderExtractPrompt(transcript, language string) string {
	return fmt.Sprintf("Transcript (spoken in %s):\n%s", language, transcript)
}

func renderFollowUpPrompt(question, analysisContext, language string) string {
	return fmt.Sprintf("Analysis context:\n%s\n\nQuestion (answer in %s):\n%s",
		analysisContext, language, question)
}
