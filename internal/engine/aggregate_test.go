package engine

import (
	"testing"
	"time"

	"github.com/bookwright/bookwright/internal/config"
	"github.com/bookwright/bookwright/pkg/models"
)

func aggregateFindings(t *testing.T, cfg *config.Config, findings ...models.Finding) *models.ValidationResult {
	t.Helper()

	vr := models.NewValidatorResult("v1")
	vr.Findings = append(vr.Findings, findings...)

	result := models.NewValidationResult("p")
	aggregate(result, map[string]*models.ValidatorResult{"v1": vr}, cfg, time.Millisecond)
	return result
}

func TestAggregateScorePenalties(t *testing.T) {
	cfg := testConfig()
	cfg.HumanReviewThreshold = 75.0

	// One HIGH finding: 100 - 12 = 88, above the review threshold.
	result := aggregateFindings(t, cfg, finding("v1", models.SeverityHigh))
	if result.OverallQualityScore != 88 {
		t.Errorf("score = %v, want 88", result.OverallQualityScore)
	}
	if result.HumanReviewRequired {
		t.Error("HumanReviewRequired = true, want false at score 88")
	}
	if result.Status != models.ValidationCompleted {
		t.Errorf("Status = %s, want %s", result.Status, models.ValidationCompleted)
	}

	// Adding one CRITICAL finding: 88 - 25 = 63, below the threshold.
	result = aggregateFindings(t, cfg,
		finding("v1", models.SeverityHigh),
		finding("v1", models.SeverityCritical),
	)
	if result.OverallQualityScore != 63 {
		t.Errorf("score = %v, want 63", result.OverallQualityScore)
	}
	if !result.HumanReviewRequired {
		t.Error("HumanReviewRequired = false, want true at score 63")
	}
	if result.Status != models.ValidationNeedsHumanReview {
		t.Errorf("Status = %s, want %s", result.Status, models.ValidationNeedsHumanReview)
	}
}

func TestAggregateCriticalMonotonicity(t *testing.T) {
	cfg := testConfig()

	sets := [][]models.Finding{
		nil,
		{finding("v1", models.SeverityInfo)},
		{finding("v1", models.SeverityLow), finding("v1", models.SeverityMedium)},
		{finding("v1", models.SeverityHigh), finding("v1", models.SeverityHigh), finding("v1", models.SeverityCritical)},
	}

	for i, set := range sets {
		before := aggregateFindings(t, cfg, set...)
		after := aggregateFindings(t, cfg, append(append([]models.Finding{}, set...), finding("v1", models.SeverityCritical))...)

		if after.OverallQualityScore > before.OverallQualityScore {
			t.Errorf("set %d: adding a critical finding raised the score %v -> %v",
				i, before.OverallQualityScore, after.OverallQualityScore)
		}
		if after.Status == models.ValidationCompleted {
			t.Errorf("set %d: status = COMPLETED despite a critical finding", i)
		}
	}
}

func TestAggregateScoreClampsAtZero(t *testing.T) {
	cfg := testConfig()

	findings := make([]models.Finding, 0, 6)
	for i := 0; i < 6; i++ {
		findings = append(findings, finding("v1", models.SeverityCritical))
	}

	result := aggregateFindings(t, cfg, findings...)
	if result.OverallQualityScore != 0 {
		t.Errorf("score = %v, want clamped to 0", result.OverallQualityScore)
	}
}

func TestAggregateSummaryCounts(t *testing.T) {
	cfg := testConfig()

	vrA := models.NewValidatorResult("a")
	vrA.AddFinding(models.NewFinding("a", models.FindingContentQuality, models.SeverityLow, "t", "m"))
	vrA.AddFinding(models.NewFinding("a", models.FindingDocumentation, models.SeverityLow, "t", "m"))
	vrA.AIUsage = models.AIUsage{Calls: 2, TokensUsed: 300, Cost: 0.02}

	vrB := models.NewValidatorResult("b")
	vrB.Status = models.ValidatorError
	vrB.AddFinding(models.NewFinding("b", models.FindingSystemError, models.SeverityHigh, "t", "m"))

	result := models.NewValidationResult("p")
	cfg.FailFast = false
	aggregate(result, map[string]*models.ValidatorResult{"a": vrA, "b": vrB}, cfg, 2*time.Second)

	if result.Summary.TotalFindings != 3 {
		t.Errorf("TotalFindings = %d, want 3", result.Summary.TotalFindings)
	}
	if result.Summary.BySeverity[models.SeverityLow] != 2 {
		t.Errorf("BySeverity[low] = %d, want 2", result.Summary.BySeverity[models.SeverityLow])
	}
	if result.Summary.ByType[models.FindingSystemError] != 1 {
		t.Errorf("ByType[system_error] = %d, want 1", result.Summary.ByType[models.FindingSystemError])
	}
	if result.Summary.ValidatorsRun != 2 {
		t.Errorf("ValidatorsRun = %d, want 2", result.Summary.ValidatorsRun)
	}
	if result.Summary.ValidatorsErrored != 1 {
		t.Errorf("ValidatorsErrored = %d, want 1", result.Summary.ValidatorsErrored)
	}
	if result.TotalAIUsage.Calls != 2 || result.TotalAIUsage.TokensUsed != 300 {
		t.Errorf("TotalAIUsage = %+v, want the summed usage", result.TotalAIUsage)
	}
	if result.TotalExecutionTime != 2*time.Second {
		t.Errorf("TotalExecutionTime = %v, want 2s", result.TotalExecutionTime)
	}
}

func TestAggregateHumanReviewMetadataFlag(t *testing.T) {
	cfg := testConfig()

	// A perfect score still requires review when a validator says so.
	vr := models.NewValidatorResult("v1")
	vr.Metadata["human_review_recommended"] = true

	result := models.NewValidationResult("p")
	aggregate(result, map[string]*models.ValidatorResult{"v1": vr}, cfg, 0)

	if result.OverallQualityScore != 100 {
		t.Errorf("score = %v, want 100", result.OverallQualityScore)
	}
	if !result.HumanReviewRequired {
		t.Error("metadata flag did not force HumanReviewRequired")
	}
	if result.Status != models.ValidationNeedsHumanReview {
		t.Errorf("Status = %s, want %s", result.Status, models.ValidationNeedsHumanReview)
	}
}

func TestAggregateErrorWithoutFailFast(t *testing.T) {
	cfg := testConfig()
	cfg.FailFast = false

	vr := models.NewValidatorResult("v1")
	vr.Status = models.ValidatorError

	result := models.NewValidationResult("p")
	aggregate(result, map[string]*models.ValidatorResult{"v1": vr}, cfg, 0)

	// Not failed (no fail-fast), not completed (the validator broke).
	if result.Status != models.ValidationNeedsHumanReview {
		t.Errorf("Status = %s, want %s", result.Status, models.ValidationNeedsHumanReview)
	}
}

func TestAggregateEmptyResultsIsError(t *testing.T) {
	cfg := testConfig()

	result := models.NewValidationResult("p")
	aggregate(result, map[string]*models.ValidatorResult{}, cfg, 0)

	if result.Status != models.ValidationError {
		t.Errorf("Status = %s, want %s", result.Status, models.ValidationError)
	}
}
