package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fixfirst/internal/ai"
)

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "AI features: photo classification, repair briefs, Q&A",
	Long: `AI commands use the Gemini API when GEMINI_API_KEY (or ai.api_key in
config.yaml) is set. Without a key they fall back to a deterministic
offline mock so the commands still work.`,
}

var aiClassifyCmd = &cobra.Command{
	Use:   "classify [image-file]",
	Short: "Classify a pothole photo",
	Args:  cobra.ExactArgs(1),
	RunE:  runAIClassify,
}

var aiBriefCmd = &cobra.Command{
	Use:   "brief [report-id]",
	Short: "Generate a repair brief for a report",
	Args:  cobra.ExactArgs(1),
	RunE:  runAIBrief,
}

var aiAskCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the assistant a question about the current reports",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAIAsk,
}

func init() {
	aiCmd.AddCommand(aiClassifyCmd)
	aiCmd.AddCommand(aiBriefCmd)
	aiCmd.AddCommand(aiAskCmd)
}

func runAIClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.AITimeout())
	defer cancel()

	gw, err := ai.New(ctx, cfg.AI.APIKey, cfg.AI.Model)
	if err != nil {
		return err
	}
	if !gw.Online() {
		fmt.Fprintln(os.Stderr, "No API key configured; using offline mock.")
	}

	result, err := gw.ClassifyImage(ctx, data, http.DetectContentType(data))
	if err != nil {
		return err
	}

	logger.Info("Image classified", zap.Bool("pothole", result.IsPothole), zap.String("severity", string(result.Severity)))
	fmt.Printf("Pothole:     %t\n", result.IsPothole)
	fmt.Printf("Severity:    %s\n", result.Severity)
	fmt.Printf("Water:       %t\n", result.ContainsWater)
	fmt.Printf("Description: %s\n", result.Description)
	return nil
}

func runAIBrief(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	blob, st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer blob.Close()

	report, ok := st.Get(args[0])
	if !ok {
		return fmt.Errorf("report %q not found", args[0])
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.AITimeout())
	defer cancel()

	gw, err := ai.New(ctx, cfg.AI.APIKey, cfg.AI.Model)
	if err != nil {
		return err
	}

	brief, err := gw.RepairBrief(ctx, report)
	if err != nil {
		return err
	}

	fmt.Printf("Visual analysis:     %s\n", brief.VisualAnalysis)
	fmt.Printf("Priority assessment: %s\n", brief.PriorityAssessment)
	fmt.Printf("Suggested action:    %s\n", brief.SuggestedAction)
	fmt.Printf("Safety protocol:     %s\n", brief.SafetyProtocol)
	return nil
}

func runAIAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	blob, st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer blob.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.AITimeout())
	defer cancel()

	gw, err := ai.New(ctx, cfg.AI.APIKey, cfg.AI.Model)
	if err != nil {
		return err
	}

	question := strings.Join(args, " ")
	err = gw.StreamAnswer(ctx, st.All(), question, func(chunk string) error {
		_, werr := fmt.Print(chunk)
		return werr
	})
	if err != nil {
		return err
	}
	fmt.Println()
	return nil
}
