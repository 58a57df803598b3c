package api

import (
	"sync"

	"github.com/bookwright/bookwright/pkg/models"
)

// UsageTracker accumulates token and cost usage across AI calls. It is
// owned by the caller (typically one tracker per engine), not by any
// global state, so its lifetime is explicit: create it alongside the
// responder, read totals after a run, Reset between runs if reusing.
type UsageTracker struct {
	mu          sync.Mutex
	inputTok    int64
	outputTok   int64
	calls       int
	cost        float64
	byValidator map[string]models.AIUsage
}

// NewUsageTracker creates an empty usage tracker.
func NewUsageTracker() *UsageTracker {
	return &UsageTracker{
		byValidator: make(map[string]models.AIUsage),
	}
}

// Add records usage from one AI call attributed to a validator.
func (t *UsageTracker) Add(validatorID string, input, output int64, cost float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inputTok += input
	t.outputTok += output
	t.calls++
	t.cost += cost

	u := t.byValidator[validatorID]
	u.Calls++
	u.TokensUsed += input + output
	u.Cost += cost
	t.byValidator[validatorID] = u
}

// Total returns the accumulated usage across all validators.
func (t *UsageTracker) Total() models.AIUsage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return models.AIUsage{
		Calls:      t.calls,
		TokensUsed: t.inputTok + t.outputTok,
		Cost:       t.cost,
	}
}

// Tokens returns the total input and output tokens tracked.
func (t *UsageTracker) Tokens() (input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inputTok, t.outputTok
}

// ByValidator returns the usage attributed to one validator.
func (t *UsageTracker) ByValidator(validatorID string) models.AIUsage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byValidator[validatorID]
}

// Reset clears all tracked usage.
func (t *UsageTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inputTok = 0
	t.outputTok = 0
	t.calls = 0
	t.cost = 0
	t.byValidator = make(map[string]models.AIUsage)
}
