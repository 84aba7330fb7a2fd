// Package ai is the Gemini gateway: image classification for new reports,
// repair briefs for employees and a streaming Q&A assistant grounded in
// the current report snapshot. Without an API key the gateway degrades to
// a deterministic offline mock so the rest of the app keeps working.
package ai

import (
	"context"
	"errors"

	"fixfirst/internal/types"
)

// ErrUnavailable indicates the upstream model could not be reached or
// returned a non-success result.
var ErrUnavailable = errors.New("ai gateway unavailable")

// ErrBadResponse indicates the model answered but the payload did not
// match the requested schema.
var ErrBadResponse = errors.New("ai gateway returned malformed response")

// Classification is the structured result of analyzing a pothole photo.
type Classification struct {
	IsPothole     bool              `json:"is_pothole"`
	Severity      types.DangerLevel `json:"severity"`
	ContainsWater bool              `json:"contains_water"`
	Description   string            `json:"description"`
}

// Assessment is the AI-generated repair brief an employee sees on a report
// detail page.
type Assessment struct {
	VisualAnalysis     string `json:"visualAnalysis"`
	PriorityAssessment string `json:"priorityAssessment"`
	SuggestedAction    string `json:"suggestedAction"`
	SafetyProtocol     string `json:"safetyProtocol"`
}

// Gateway is the AI surface the app consumes. Both the Gemini client and
// the offline mock implement it.
type Gateway interface {
	// ClassifyImage analyzes a photo and returns a structured verdict.
	ClassifyImage(ctx context.Context, imageData []byte, mimeType string) (Classification, error)

	// RepairBrief generates an operational assessment for a report.
	RepairBrief(ctx context.Context, report types.Report) (Assessment, error)

	// StreamAnswer answers a free-form question about the given snapshot,
	// invoking emit once per text chunk as it arrives. Returning an error
	// from emit aborts the stream.
	StreamAnswer(ctx context.Context, reports []types.Report, question string, emit func(chunk string) error) error

	// Online reports whether a real model backs this gateway.
	Online() bool
}

// New returns the Gemini gateway when an API key is configured and the
// offline mock otherwise.
func New(ctx context.Context, apiKey, model string) (Gateway, error) {
	if apiKey == "" {
		return NewOffline(), nil
	}
	return NewGemini(ctx, apiKey, model)
}
