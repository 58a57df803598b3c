package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/bookwright/bookwright/pkg/models"
)

func sampleResult() *models.ValidationResult {
	vr := models.NewValidatorResult("structure")
	vr.AddFinding(models.NewFinding("structure", models.FindingContentQuality, models.SeverityHigh,
		"Unresolved placeholder", "template marker left in | generated content").
		WithLocation(models.Location{ContentType: "chapter", ContentID: "ch-01", Line: 12}).
		WithRemediation("regenerate the section"))

	result := models.NewValidationResult("my-novel")
	result.Status = models.ValidationNeedsHumanReview
	result.OverallQualityScore = 88
	result.HumanReviewRequired = true
	result.ValidatorResults["structure"] = vr
	result.Summary = models.Summary{
		TotalFindings: 1,
		BySeverity:    map[models.Severity]int{models.SeverityHigh: 1},
		ByType:        map[models.FindingType]int{models.FindingContentQuality: 1},
		ValidatorsRun: 1,
	}
	result.TotalExecutionTime = 1500 * time.Millisecond
	result.TotalAIUsage = models.AIUsage{Calls: 1, TokensUsed: 1070, Cost: 0.0058}
	return result
}

func TestTerminalOutput(t *testing.T) {
	out := NewFormatter().Terminal(sampleResult())

	for _, want := range []string{
		"Validation Report",
		"my-novel",
		"88.0/100",
		"Human review required",
		"Unresolved placeholder",
		"fix: regenerate the section",
		"at chapter:12",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("terminal output missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownOutput(t *testing.T) {
	out := NewFormatter().Markdown(sampleResult())

	for _, want := range []string{
		"# Validation Report",
		"**Quality score:** 88.0/100",
		"**Human review required:** true",
		"| Severity | Validator | Title | Message |",
		"| high | structure |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q:\n%s", want, out)
		}
	}

	// Pipes inside finding text must not break the table.
	if !strings.Contains(out, `left in \| generated`) {
		t.Error("finding text pipe not escaped in markdown table")
	}
}

func TestJSONOutputRoundTrips(t *testing.T) {
	out, err := NewFormatter().JSON(sampleResult())
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var decoded models.ValidationResult
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.OverallQualityScore != 88 {
		t.Errorf("decoded score = %v, want 88", decoded.OverallQualityScore)
	}
	if decoded.ValidatorResults["structure"] == nil {
		t.Error("validator results lost in JSON output")
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := NewFormatter().Render(sampleResult(), "carrier-pigeon")
	if err == nil {
		t.Error("unknown format accepted")
	}
}

func TestRenderDispatch(t *testing.T) {
	f := NewFormatter()
	result := sampleResult()

	for _, format := range []string{"terminal", "markdown", "json"} {
		out, err := f.Render(result, format)
		if err != nil {
			t.Errorf("Render(%s): %v", format, err)
		}
		if out == "" {
			t.Errorf("Render(%s) produced empty output", format)
		}
	}
}
