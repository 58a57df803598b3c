package validator

import (
	"context"
	"errors"
	"testing"

	"github.com/bookwright/bookwright/internal/api"
	"github.com/bookwright/bookwright/pkg/models"
)

func newProseForScenario(t *testing.T, scenario api.Scenario) *ProseQuality {
	t.Helper()

	store, err := api.OpenRecordingStore("")
	if err != nil {
		t.Fatalf("OpenRecordingStore: %v", err)
	}
	mock := api.NewMockResponder("", store, api.NewUsageTracker())

	v := NewProseQuality(mock)
	if err := v.Initialize(map[string]any{
		"rules": map[string]any{"mock_scenario": string(scenario)},
	}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return v
}

func TestProseQualityHighQuality(t *testing.T) {
	v := newProseForScenario(t, api.ScenarioHighQuality)

	result, err := RunLifecycle(context.Background(), v, "A fine chapter.", Context{"content_type": "chapter"})
	if err != nil {
		t.Fatalf("RunLifecycle: %v", err)
	}

	if result.Status != models.ValidatorCompleted {
		t.Errorf("Status = %s, want %s", result.Status, models.ValidatorCompleted)
	}
	if score := result.Metrics["quality_score"]; score <= 90 {
		t.Errorf("quality_score = %v, want > 90", score)
	}
	if len(result.Findings) != 0 {
		t.Errorf("findings = %d, want 0", len(result.Findings))
	}
	if _, flagged := result.Metadata["human_review_recommended"]; flagged {
		t.Error("high quality content flagged for human review")
	}
	if result.AIUsage.Calls != 1 {
		t.Errorf("AIUsage.Calls = %d, want 1", result.AIUsage.Calls)
	}
}

func TestProseQualityLowQuality(t *testing.T) {
	v := newProseForScenario(t, api.ScenarioLowQuality)

	result, err := RunLifecycle(context.Background(), v, "A rough chapter.", Context{"content_type": "chapter"})
	if err != nil {
		t.Fatalf("RunLifecycle: %v", err)
	}

	// The low-quality scenario scores below the default fail_below (50).
	if result.Status != models.ValidatorFailed {
		t.Errorf("Status = %s, want %s", result.Status, models.ValidatorFailed)
	}
	if score := result.Metrics["quality_score"]; score >= 70 {
		t.Errorf("quality_score = %v, want < 70", score)
	}
	if len(result.Findings) == 0 {
		t.Error("low quality content produced no findings")
	}
	for _, f := range result.Findings {
		if f.ValidatorID != v.ID() {
			t.Errorf("finding validator ID = %q, want %q", f.ValidatorID, v.ID())
		}
		if f.Severity != models.SeverityHigh {
			t.Errorf("finding severity = %s, want %s below fail threshold", f.Severity, models.SeverityHigh)
		}
	}
	if flagged, _ := result.Metadata["human_review_recommended"].(bool); !flagged {
		t.Error("low quality content not flagged for human review")
	}
}

func TestProseQualityInvalidResponse(t *testing.T) {
	v := newProseForScenario(t, api.ScenarioInvalidResponse)

	result, err := RunLifecycle(context.Background(), v, "chapter", Context{"content_type": "chapter"})
	if err != nil {
		t.Fatalf("RunLifecycle: %v", err)
	}

	found := false
	for _, f := range result.Findings {
		if f.Type == models.FindingAIOutputQuality {
			found = true
		}
	}
	if !found {
		t.Error("unparseable response produced no ai_output_quality finding")
	}
	// Zero score flags the result for review via the post hook.
	if result.Status != models.ValidatorNeedsHumanReview {
		t.Errorf("Status = %s, want %s", result.Status, models.ValidatorNeedsHumanReview)
	}
}

func TestProseQualityTimeoutPropagates(t *testing.T) {
	v := newProseForScenario(t, api.ScenarioTimeout)

	_, err := RunLifecycle(context.Background(), v, "chapter", Context{"content_type": "chapter"})
	if !errors.Is(err, api.ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}

func TestProseQualityRateLimitDegrades(t *testing.T) {
	v := newProseForScenario(t, api.ScenarioRateLimit)

	result, err := RunLifecycle(context.Background(), v, "chapter", Context{"content_type": "chapter"})
	if err != nil {
		t.Fatalf("rate limit was not absorbed: %v", err)
	}
	if degraded, _ := result.Metadata["degraded"].(bool); !degraded {
		t.Error("expected a degraded result after rate limiting")
	}
}

func TestProseQualityEdgeCaseBoundary(t *testing.T) {
	v := newProseForScenario(t, api.ScenarioEdgeCase)

	result, err := RunLifecycle(context.Background(), v, "chapter", Context{"content_type": "chapter"})
	if err != nil {
		t.Fatalf("RunLifecycle: %v", err)
	}

	// The edge case scores exactly at the default review threshold, which
	// must not flag.
	if score := result.Metrics["quality_score"]; score != 70 {
		t.Errorf("quality_score = %v, want 70", score)
	}
	if _, flagged := result.Metadata["human_review_recommended"]; flagged {
		t.Error("boundary score flagged for human review")
	}
}
