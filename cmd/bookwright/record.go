package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bookwright/bookwright/internal/api"
)

var recordConfigPath string

var recordCmd = &cobra.Command{
	Use:   "record <prompts.json>",
	Short: "Seed the recording store from live AI calls",
	Long: `Execute a corpus of prompts against the live Anthropic API and
record every response, so later mock-mode runs replay the real
responses instead of synthetic templates.

The prompts file is a JSON array of objects:
  [{"prompt": "...", "validator_id": "prose_quality",
    "content_type": "chapter", "expected_scenario": "high_quality"}]

Requires a usable Anthropic credential; seeding has no mock path.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().StringVar(&recordConfigPath, "config", "", "Path to a config file (overrides discovery)")
}

func runRecord(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading prompts file: %w", err)
	}

	var prompts []api.SeedPrompt
	if err := json.Unmarshal(data, &prompts); err != nil {
		return fmt.Errorf("parsing prompts file: %w", err)
	}
	if len(prompts) == 0 {
		return fmt.Errorf("prompts file is empty")
	}

	cfg, err := loadConfig(recordConfigPath)
	if err != nil {
		return err
	}

	eng, err := createEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	live, ok := eng.Responder().(*api.LiveResponder)
	if !ok {
		return fmt.Errorf("recording requires a live responder; configure ANTHROPIC_API_KEY or Bedrock")
	}

	seeder := api.NewSeeder(live)
	summary, err := seeder.Seed(context.Background(), prompts)
	if err != nil {
		return err
	}

	for _, result := range summary.Results {
		if result.OK {
			color.Green("✓ %s %s ($%.4f)", result.ValidatorID, result.RequestHash[:12], result.Cost)
		} else {
			color.Red("✗ %s %s: %s", result.ValidatorID, result.RequestHash[:12], result.Error)
		}
	}
	fmt.Printf("\nrecorded %d/%d prompts, total cost $%.4f\n",
		summary.Succeeded, len(prompts), summary.TotalCost)

	if summary.Failed > 0 {
		os.Exit(1)
	}
	return nil
}
