package models

import "testing"

func TestValidatorStatusTerminal(t *testing.T) {
	terminal := []ValidatorStatus{ValidatorCompleted, ValidatorFailed, ValidatorNeedsHumanReview, ValidatorError}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("Terminal(%s) = false, want true", s)
		}
	}
	for _, s := range []ValidatorStatus{ValidatorNotStarted, ValidatorInProgress} {
		if s.Terminal() {
			t.Errorf("Terminal(%s) = true, want false", s)
		}
	}
}

func TestAIUsageAdd(t *testing.T) {
	var total AIUsage
	total.Add(AIUsage{Calls: 1, TokensUsed: 100, Cost: 0.01})
	total.Add(AIUsage{Calls: 2, TokensUsed: 50, Cost: 0.02})

	if total.Calls != 3 {
		t.Errorf("Calls = %d, want 3", total.Calls)
	}
	if total.TokensUsed != 150 {
		t.Errorf("TokensUsed = %d, want 150", total.TokensUsed)
	}
	if total.Cost != 0.03 {
		t.Errorf("Cost = %v, want 0.03", total.Cost)
	}
}

func TestNewValidationResult(t *testing.T) {
	r := NewValidationResult("my-novel")

	if r.ValidationID == "" {
		t.Error("ValidationID is empty")
	}
	if r.Status != ValidationInProgress {
		t.Errorf("Status = %s, want %s", r.Status, ValidationInProgress)
	}
	if r.OverallQualityScore != 100 {
		t.Errorf("OverallQualityScore = %v, want 100", r.OverallQualityScore)
	}
}

func TestAllFindingsOrderedByValidatorID(t *testing.T) {
	r := NewValidationResult("p")

	zed := NewValidatorResult("zed")
	zed.AddFinding(NewFinding("zed", FindingContentQuality, SeverityLow, "z1", "m"))
	alpha := NewValidatorResult("alpha")
	alpha.AddFinding(NewFinding("alpha", FindingContentQuality, SeverityLow, "a1", "m"))
	alpha.AddFinding(NewFinding("alpha", FindingContentQuality, SeverityLow, "a2", "m"))

	r.ValidatorResults["zed"] = zed
	r.ValidatorResults["alpha"] = alpha

	findings := r.AllFindings()
	if len(findings) != 3 {
		t.Fatalf("len(findings) = %d, want 3", len(findings))
	}
	want := []string{"a1", "a2", "z1"}
	for i, title := range want {
		if findings[i].Title != title {
			t.Errorf("findings[%d].Title = %q, want %q", i, findings[i].Title, title)
		}
	}
}
