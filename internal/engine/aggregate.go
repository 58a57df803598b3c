package engine

import (
	"sort"
	"time"

	"github.com/bookwright/bookwright/internal/config"
	"github.com/bookwright/bookwright/pkg/models"
)

// aggregate folds collected validator results into the run's
// ValidationResult. It is deterministic: every pass over the results is
// ordered by validator ID, never by completion order.
func aggregate(result *models.ValidationResult, results map[string]*models.ValidatorResult, cfg *config.Config, elapsed time.Duration) {
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	summary := models.Summary{
		BySeverity:    make(map[models.Severity]int),
		ByType:        make(map[models.FindingType]int),
		ValidatorsRun: len(ids),
	}

	score := 100.0
	allCompleted := true
	anyFailedOrErrored := false
	hasCritical := false
	humanReviewRecommended := false

	for _, id := range ids {
		vr := results[id]
		result.ValidatorResults[id] = vr
		result.TotalAIUsage.Add(vr.AIUsage)

		switch vr.Status {
		case models.ValidatorCompleted:
		case models.ValidatorError, models.ValidatorFailed:
			allCompleted = false
			anyFailedOrErrored = true
			if vr.Status == models.ValidatorError {
				summary.ValidatorsErrored++
			}
		default:
			allCompleted = false
		}

		if flagged, ok := vr.Metadata["human_review_recommended"].(bool); ok && flagged {
			humanReviewRecommended = true
		}

		for _, f := range vr.Findings {
			summary.TotalFindings++
			summary.BySeverity[f.Severity]++
			summary.ByType[f.Type]++
			score -= f.Severity.Weight()
			if f.Severity == models.SeverityCritical {
				hasCritical = true
			}
		}
	}

	result.OverallQualityScore = clampScore(score)
	result.Summary = summary
	result.TotalExecutionTime = elapsed
	result.HumanReviewRequired = result.OverallQualityScore < cfg.HumanReviewThreshold || humanReviewRecommended

	switch {
	case len(ids) == 0:
		result.Status = models.ValidationError
	case anyFailedOrErrored && cfg.FailFast:
		result.Status = models.ValidationFailed
	case result.HumanReviewRequired:
		result.Status = models.ValidationNeedsHumanReview
	case allCompleted && !hasCritical:
		result.Status = models.ValidationCompleted
	default:
		// A validator failed without fail-fast, stopped short of
		// completion, or reported a critical finding: a human decides.
		result.Status = models.ValidationNeedsHumanReview
	}
}

// clampScore bounds a quality score to [0,100].
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
