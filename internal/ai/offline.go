package ai

import (
	"context"
	"fmt"
	"hash/fnv"

	"fixfirst/internal/types"
)

// Offline is the no-key fallback gateway. Results are deterministic for a
// given input so the UI (and tests) behave consistently, and every call
// succeeds without touching the network.
type Offline struct{}

// NewOffline creates the offline mock gateway.
func NewOffline() *Offline {
	return &Offline{}
}

// Online reports that no real model backs this gateway.
func (o *Offline) Online() bool { return false }

// ClassifyImage fabricates a plausible verdict from a hash of the image
// bytes. Empty input is not a pothole.
func (o *Offline) ClassifyImage(_ context.Context, imageData []byte, _ string) (Classification, error) {
	if len(imageData) == 0 {
		return Classification{
			IsPothole:   false,
			Severity:    types.DangerUnknown,
			Description: "No image data provided.",
		}, nil
	}

	h := fnv.New32a()
	h.Write(imageData)
	sum := h.Sum32()

	severity := types.DangerLevels[sum%uint32(len(types.DangerLevels))]
	return Classification{
		IsPothole:     true,
		Severity:      severity,
		ContainsWater: sum%3 == 0,
		Description:   fmt.Sprintf("%s severity pothole with visible surface damage.", severity),
	}, nil
}

// RepairBrief returns a canned assessment shaped from the report fields.
func (o *Offline) RepairBrief(_ context.Context, report types.Report) (Assessment, error) {
	water := "No standing water reported."
	if report.ContainsWater {
		water = "Standing water present; expect subsurface erosion."
	}
	return Assessment{
		VisualAnalysis: fmt.Sprintf("%s severity pothole on a %s road. %s",
			report.DangerLevel, report.RoadType, water),
		PriorityAssessment: fmt.Sprintf("Danger score %.1f/10 with %d citizen upvotes.",
			report.DangerScore, report.Upvotes),
		SuggestedAction: "Saw-cut the damaged section, clear debris and apply hot-mix asphalt patch.",
		SafetyProtocol:  "Set up advance warning signs and cone off the work zone before starting.",
	}, nil
}

// StreamAnswer emits a short canned answer in a few chunks.
func (o *Offline) StreamAnswer(_ context.Context, reports []types.Report, _ string, emit func(chunk string) error) error {
	open := 0
	for _, r := range reports {
		if !r.Status.Terminal() {
			open++
		}
	}
	chunks := []string{
		"The assistant is running in offline mode. ",
		fmt.Sprintf("There are %d reports in the system, %d of them still open. ", len(reports), open),
		"Configure a Gemini API key to get grounded answers.",
	}
	for _, c := range chunks {
		if err := emit(c); err != nil {
			return err
		}
	}
	return nil
}
