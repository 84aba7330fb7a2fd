package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"fixfirst/internal/logging"
	"fixfirst/internal/types"
)

const defaultModel = "gemini-2.5-flash"

// Gemini calls the Gemini API through the Google GenAI SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates the online gateway.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	logging.AI("Gemini gateway online (model=%s)", model)
	return &Gemini{client: client, model: model}, nil
}

// Online reports that a real model backs this gateway.
func (g *Gemini) Online() bool { return true }

// classificationSchema constrains the classify response so the JSON always
// unmarshals into Classification.
var classificationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"is_pothole": {Type: genai.TypeBoolean},
		"severity": {
			Type: genai.TypeString,
			Enum: []string{"Low", "Medium", "High", "Critical"},
		},
		"contains_water": {Type: genai.TypeBoolean},
		"description":    {Type: genai.TypeString},
	},
	Required: []string{"is_pothole", "severity", "contains_water", "description"},
}

const classifyPrompt = `Analyze this photo of a road surface. Determine whether it shows a pothole.
If it does, rate the severity (Low, Medium, High, Critical), note whether
standing water is visible inside it, and write a one-sentence description
of the damage.`

// ClassifyImage sends the photo to the model with a strict JSON response
// schema and decodes the verdict.
func (g *Gemini) ClassifyImage(ctx context.Context, imageData []byte, mimeType string) (Classification, error) {
	timer := logging.StartTimer(logging.CategoryAI, "ClassifyImage")
	defer timer.Stop()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(classifyPrompt),
			genai.NewPartFromBytes(imageData, mimeType),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   classificationSchema,
		Temperature:      genai.Ptr[float32](0.4),
	})
	if err != nil {
		return Classification{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var out Classification
	if err := json.Unmarshal([]byte(resp.Text()), &out); err != nil {
		logging.AIDebug("Unparseable classify payload: %s", resp.Text())
		return Classification{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	logging.AI("Classified image: pothole=%t severity=%s water=%t",
		out.IsPothole, out.Severity, out.ContainsWater)
	return out, nil
}

// assessmentSchema constrains the repair brief response.
var assessmentSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"visualAnalysis":     {Type: genai.TypeString},
		"priorityAssessment": {Type: genai.TypeString},
		"suggestedAction":    {Type: genai.TypeString},
		"safetyProtocol":     {Type: genai.TypeString},
	},
	Required: []string{"visualAnalysis", "priorityAssessment", "suggestedAction", "safetyProtocol"},
}

// RepairBrief asks the model for an operational assessment of one report.
func (g *Gemini) RepairBrief(ctx context.Context, report types.Report) (Assessment, error) {
	timer := logging.StartTimer(logging.CategoryAI, "RepairBrief")
	defer timer.Stop()

	prompt := fmt.Sprintf(`You are a road maintenance operations expert. Assess this pothole report
for the repair crew.

Address: %s
Road type: %s
Danger level: %s (score %.1f/10)
Standing water: %t
Upvotes: %d
Citizen description: %s

Provide a visual analysis, a priority assessment, a suggested repair
action and a safety protocol for the crew.`,
		report.Location.Address, report.RoadType, report.DangerLevel,
		report.DangerScore, report.ContainsWater, report.Upvotes, report.Description)

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   assessmentSchema,
		Temperature:      genai.Ptr[float32](0.4),
	})
	if err != nil {
		return Assessment{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var out Assessment
	if err := json.Unmarshal([]byte(resp.Text()), &out); err != nil {
		logging.AIDebug("Unparseable brief payload: %s", resp.Text())
		return Assessment{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return out, nil
}

// StreamAnswer streams a grounded answer to a free-form question. The
// current snapshot is serialized into the prompt so the model only talks
// about reports that actually exist.
func (g *Gemini) StreamAnswer(ctx context.Context, reports []types.Report, question string, emit func(chunk string) error) error {
	timer := logging.StartTimer(logging.CategoryAI, "StreamAnswer")
	defer timer.Stop()

	contents := []*genai.Content{
		genai.NewContentFromText(question, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(snapshotInstruction(reports), genai.RoleUser),
	}

	for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, contents, cfg) {
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		chunk := resp.Text()
		if chunk == "" {
			continue
		}
		if err := emit(chunk); err != nil {
			return err
		}
	}
	return nil
}

// snapshotInstruction renders the report snapshot into the assistant's
// system prompt. Only fields useful for answering operational questions
// are included.
func snapshotInstruction(reports []types.Report) string {
	var b strings.Builder
	b.WriteString(`You are the FixFirst assistant for municipal road maintenance staff.
Answer questions using only the report data below. Be concise. If the data
does not contain the answer, say so.

Current reports:
`)
	for _, r := range reports {
		fmt.Fprintf(&b, "- %s | %s | status=%s | danger=%s (%.1f) | worker=%s | upvotes=%d | %s\n",
			r.ID, r.Location.Address, r.Status, r.DangerLevel, r.DangerScore,
			orUnassigned(r.WorkerName()), r.Upvotes, r.Description)
	}
	return b.String()
}

func orUnassigned(name string) string {
	if name == "" {
		return "Unassigned"
	}
	return name
}
