package validator

import (
	"testing"

	"github.com/bookwright/bookwright/pkg/models"
)

func TestBaseInitialize(t *testing.T) {
	b := NewBase("test", "Test", "1.0.0", []string{"chapter"})

	if b.Initialized() {
		t.Error("Initialized before Initialize")
	}

	err := b.Initialize(map[string]any{
		"rules": map[string]any{
			"model":     "claude-3-5-haiku-20241022",
			"strict":    true,
			"min_words": float64(250), // numbers arrive as float64 from JSON
		},
		"thresholds": map[string]any{
			"human_review": 80.0,
			"fail_below":   40,
		},
	})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if !b.Initialized() {
		t.Error("not Initialized after Initialize")
	}
	if got := b.RuleString("model", ""); got != "claude-3-5-haiku-20241022" {
		t.Errorf("RuleString(model) = %q", got)
	}
	if !b.RuleBool("strict", false) {
		t.Error("RuleBool(strict) = false, want true")
	}
	if got := b.RuleInt("min_words", 0); got != 250 {
		t.Errorf("RuleInt(min_words) = %d, want 250", got)
	}
	if got := b.Threshold("human_review", 0); got != 80.0 {
		t.Errorf("Threshold(human_review) = %v, want 80", got)
	}
	if got := b.Threshold("fail_below", 0); got != 40.0 {
		t.Errorf("Threshold(fail_below) = %v, want 40", got)
	}
}

func TestBaseGetterDefaults(t *testing.T) {
	b := NewBase("test", "Test", "1.0.0", nil)

	if got := b.RuleString("missing", "fallback"); got != "fallback" {
		t.Errorf("RuleString default = %q", got)
	}
	if got := b.RuleInt("missing", 7); got != 7 {
		t.Errorf("RuleInt default = %d", got)
	}
	if got := b.RuleFloat("missing", 1.5); got != 1.5 {
		t.Errorf("RuleFloat default = %v", got)
	}
	if got := b.Threshold("missing", 33); got != 33 {
		t.Errorf("Threshold default = %v", got)
	}
}

func TestShouldFlagForHumanReview(t *testing.T) {
	b := NewBase("test", "Test", "1.0.0", nil)

	// Default threshold is 70.
	if b.ShouldFlagForHumanReview(70.0, "human_review") {
		t.Error("score at the default threshold should not flag")
	}
	if !b.ShouldFlagForHumanReview(69.9, "human_review") {
		t.Error("score below the default threshold should flag")
	}

	b.ConfigureQualityThresholds(map[string]float64{"human_review": 90})
	if !b.ShouldFlagForHumanReview(85, "human_review") {
		t.Error("score below the configured threshold should flag")
	}
}

func TestBaseNewFindingStampsValidatorID(t *testing.T) {
	b := NewBase("structure", "Structure", "1.0.0", nil)

	f := b.NewFinding(models.FindingContentQuality, models.SeverityLow, "t", "m")
	if f.ValidatorID != "structure" {
		t.Errorf("ValidatorID = %q, want %q", f.ValidatorID, "structure")
	}
}

func TestSupportsContentType(t *testing.T) {
	v := NewStructure()
	if !SupportsContentType(v, "chapter") {
		t.Error("structure should support chapter")
	}
	if SupportsContentType(v, "screenplay") {
		t.Error("structure should not support screenplay")
	}
}
