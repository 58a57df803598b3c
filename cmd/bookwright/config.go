package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bookwright/bookwright/internal/config"
)

var configInitPath string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Display the effective configuration after layering defaults, the
user config (~/.config/bookwright/config.yaml), the project config
(.bookwright.yaml), and environment variables.

Use "config init" to write a default config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		displayConfig(cfg)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configInitPath
		if path == "" {
			path = config.GetUserConfigPath()
		}

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}

		if err := config.SaveFile(config.Default(), path); err != nil {
			return err
		}
		fmt.Printf("wrote default configuration to %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVar(&configInitPath, "path", "", "Where to write the config file (default: user config path)")
	configCmd.AddCommand(configInitCmd)
}

// displayConfig prints the effective configuration, masking the API key.
func displayConfig(cfg *config.Config) {
	apiKeyDisplay := "(not set)"
	if cfg.AI.APIKey != "" {
		apiKeyDisplay = "****"
	}

	fmt.Printf("project_id: %s\n", cfg.ProjectID)
	fmt.Printf("human_review_threshold: %.1f\n", cfg.HumanReviewThreshold)
	fmt.Printf("enabled_validators: %s\n", listOrAll(cfg.EnabledValidators))
	fmt.Printf("parallel_processing: %t\n", cfg.ParallelProcessing)
	fmt.Printf("max_parallel_requests: %d\n", cfg.MaxParallelRequests)
	fmt.Printf("request_timeout: %ds\n", cfg.RequestTimeout)
	fmt.Printf("fail_fast: %t\n", cfg.FailFast)
	fmt.Printf("output_formats: %s\n", strings.Join(cfg.OutputFormats, ", "))
	fmt.Printf("temp_directory: %s\n", cfg.TempDirectory)
	fmt.Printf("cleanup_on_completion: %t\n", cfg.CleanupOnCompletion)
	fmt.Printf("ai.api_key: %s\n", apiKeyDisplay)
	fmt.Printf("ai.model: %s\n", cfg.AI.Model)
	fmt.Printf("ai.use_aws_bedrock: %t\n", cfg.AI.UseAWSBedrock)
	fmt.Printf("ai.recording_path: %s\n", cfg.AI.RecordingPath)
}

func listOrAll(ids []string) string {
	if len(ids) == 0 {
		return "(all registered)"
	}
	return strings.Join(ids, ", ")
}
