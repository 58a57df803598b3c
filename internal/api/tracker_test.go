package api

import (
	"sync"
	"testing"
)

func TestUsageTrackerTotals(t *testing.T) {
	tracker := NewUsageTracker()

	tracker.Add("prose_quality", 100, 50, 0.01)
	tracker.Add("prose_quality", 200, 100, 0.02)
	tracker.Add("structure", 10, 5, 0.001)

	total := tracker.Total()
	if total.Calls != 3 {
		t.Errorf("Calls = %d, want 3", total.Calls)
	}
	if total.TokensUsed != 465 {
		t.Errorf("TokensUsed = %d, want 465", total.TokensUsed)
	}

	prose := tracker.ByValidator("prose_quality")
	if prose.Calls != 2 || prose.TokensUsed != 450 {
		t.Errorf("prose usage = %+v, want 2 calls / 450 tokens", prose)
	}

	input, output := tracker.Tokens()
	if input != 310 || output != 155 {
		t.Errorf("Tokens = (%d, %d), want (310, 155)", input, output)
	}
}

func TestUsageTrackerReset(t *testing.T) {
	tracker := NewUsageTracker()
	tracker.Add("v", 100, 50, 0.01)
	tracker.Reset()

	total := tracker.Total()
	if total.Calls != 0 || total.TokensUsed != 0 || total.Cost != 0 {
		t.Errorf("after Reset: %+v, want zeros", total)
	}
	if usage := tracker.ByValidator("v"); usage.Calls != 0 {
		t.Errorf("per-validator usage survived Reset: %+v", usage)
	}
}

func TestUsageTrackerConcurrentAdds(t *testing.T) {
	tracker := NewUsageTracker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Add("v", 10, 5, 0.001)
		}()
	}
	wg.Wait()

	total := tracker.Total()
	if total.Calls != 50 {
		t.Errorf("Calls = %d, want 50", total.Calls)
	}
	if total.TokensUsed != 750 {
		t.Errorf("TokensUsed = %d, want 750", total.TokensUsed)
	}
}

func TestCostFor(t *testing.T) {
	tests := []struct {
		model string
		want  float64
	}{
		{"claude-opus-4-1-20250805", 15.0 + 75.0},
		{"claude-sonnet-4-20250514", 3.0 + 15.0},
		{"claude-3-5-haiku-20241022", 0.80 + 4.0},
		{"mystery-model", 3.0 + 15.0},
	}

	for _, tt := range tests {
		// One million input and output tokens makes the expected cost
		// the sum of the per-million prices.
		if got := CostFor(tt.model, 1_000_000, 1_000_000); got != tt.want {
			t.Errorf("CostFor(%s) = %v, want %v", tt.model, got, tt.want)
		}
	}
}
