package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bookwright/bookwright/internal/config"
	"github.com/bookwright/bookwright/internal/engine"
	"github.com/bookwright/bookwright/internal/report"
	"github.com/bookwright/bookwright/internal/validator"
	"github.com/bookwright/bookwright/pkg/models"
)

var (
	validateConfigPath  string
	validateProjectID   string
	validateContentType string
	validateContentID   string
	validateFormats     []string
	validateWatch       bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate book content",
	Long: `Validate a piece of book content against the enabled validators.

Reads content from the given file, or from stdin when no file is given.
The content type (--type) selects which validators run: chapter,
outline, concept, or project.

Exits with status 1 when the result requires human review or the run
failed, so the command composes into pipeline scripts.

With --watch, the command keeps running and re-validates the content
whenever the config file changes, so thresholds and validator settings
can be tuned against a live result.

Examples:
  bookwright validate chapters/ch01.md
  bookwright validate --type outline outline.md
  bookwright validate --config .bookwright.yaml --watch chapters/ch01.md
  cat draft.md | bookwright validate --type chapter --project my-novel`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateConfigPath, "config", "", "Path to a config file (overrides discovery)")
	validateCmd.Flags().StringVar(&validateProjectID, "project", "", "Project ID for the run")
	validateCmd.Flags().StringVar(&validateContentType, "type", "chapter", "Content type: chapter, outline, concept, or project")
	validateCmd.Flags().StringVar(&validateContentID, "content-id", "", "Content identifier, e.g. a chapter ID")
	validateCmd.Flags().StringSliceVar(&validateFormats, "format", nil, "Output formats (terminal, markdown, json); overrides config")
	validateCmd.Flags().BoolVar(&validateWatch, "watch", false, "Re-validate when the config file changes (requires --config)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	content, err := readContent(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(validateConfigPath)
	if err != nil {
		return err
	}

	eng, err := createEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	result, err := validateOnce(eng, cfg, content)
	if err != nil {
		return err
	}

	if validateWatch {
		return watchAndRevalidate(eng, content)
	}

	switch result.Status {
	case models.ValidationCompleted:
		color.Green("✓ validation passed")
		return nil
	case models.ValidationNeedsHumanReview:
		color.Yellow("⚠ human review required")
	default:
		color.Red("✗ validation %s", result.Status)
	}
	os.Exit(1)
	return nil
}

// validateOnce runs one validation and renders the report.
func validateOnce(eng *engine.Engine, cfg *config.Config, content string) (*models.ValidationResult, error) {
	// Per-validator timeouts are enforced inside the engine.
	ctx := context.Background()

	var (
		result *models.ValidationResult
		err    error
	)
	if validateContentType == "project" {
		result, err = eng.ValidateProject(ctx, content, validateProjectID)
	} else {
		result, err = eng.ValidateChapter(ctx, content, validator.Context{
			"project_id":   validateProjectID,
			"content_type": validateContentType,
			"content_id":   validateContentID,
		})
	}
	if err != nil {
		return nil, err
	}

	formats := validateFormats
	if len(formats) == 0 {
		formats = cfg.OutputFormats
	}
	if len(formats) == 0 {
		formats = []string{"terminal"}
	}

	formatter := report.NewFormatter()
	for _, format := range formats {
		rendered, err := formatter.Render(result, format)
		if err != nil {
			return nil, err
		}
		fmt.Println(rendered)
	}

	return result, nil
}

// watchAndRevalidate blocks, re-running the validation whenever the
// config file is rewritten, until interrupted.
func watchAndRevalidate(eng *engine.Engine, content string) error {
	if validateConfigPath == "" {
		return fmt.Errorf("--watch requires --config")
	}

	watcher, err := config.NewWatcher(validateConfigPath, func(next *config.Config) {
		eng.OnConfigurationChange(next)
		if _, err := validateOnce(eng, next, content); err != nil {
			color.Red("revalidation failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("watching %s: %w", validateConfigPath, err)
	}
	defer watcher.Close()

	color.Yellow("watching %s for changes (ctrl-c to stop)", validateConfigPath)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	<-interrupt
	return nil
}

// readContent reads the content under validation from the file argument
// or stdin.
func readContent(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no content: pass a file or pipe content on stdin")
	}
	return string(data), nil
}
