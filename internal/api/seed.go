package api

import (
	"context"
	"fmt"
	"log"
)

// SeedPrompt is one entry in a seeding corpus: a prompt to execute
// against the live path so its real response becomes replayable.
type SeedPrompt struct {
	// Prompt is the prompt text to execute.
	Prompt string `json:"prompt"`
	// ValidatorID attributes the request to a validator.
	ValidatorID string `json:"validator_id"`
	// ContentType is the kind of content the prompt concerns.
	ContentType string `json:"content_type"`
	// ExpectedScenario documents which scenario this recording is meant
	// to stand in for during mock runs. Informational only.
	ExpectedScenario Scenario `json:"expected_scenario,omitempty"`
}

// SeedResult reports the outcome of seeding one prompt.
type SeedResult struct {
	// RequestHash is the key the recording was stored under.
	RequestHash string `json:"request_hash"`
	// ValidatorID echoes the seed entry.
	ValidatorID string `json:"validator_id"`
	// OK is true when the live call succeeded and was recorded.
	OK bool `json:"ok"`
	// Error holds the failure message when OK is false.
	Error string `json:"error,omitempty"`
	// Cost is the USD cost of the live call.
	Cost float64 `json:"cost"`
}

// SeedSummary totals a seeding run.
type SeedSummary struct {
	// Succeeded is the number of prompts recorded.
	Succeeded int `json:"succeeded"`
	// Failed is the number of prompts that errored.
	Failed int `json:"failed"`
	// TotalCost is the USD cost of the whole run.
	TotalCost float64 `json:"total_cost"`
	// Results lists per-prompt outcomes in input order.
	Results []SeedResult `json:"results"`
}

// Seeder bulk-populates the recording store from the live path. Run it
// once against real credentials; every mock run thereafter replays the
// recorded responses instead of hitting the network.
type Seeder struct {
	responder *LiveResponder
}

// NewSeeder creates a seeder over a live responder.
func NewSeeder(responder *LiveResponder) *Seeder {
	return &Seeder{responder: responder}
}

// Seed executes each prompt against the live path sequentially and
// returns a per-prompt summary. A failed prompt does not stop the run.
func (s *Seeder) Seed(ctx context.Context, prompts []SeedPrompt) (*SeedSummary, error) {
	if s.responder == nil {
		return nil, fmt.Errorf("seeding requires a live responder")
	}

	summary := &SeedSummary{
		Results: make([]SeedResult, 0, len(prompts)),
	}

	for i, p := range prompts {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result := SeedResult{
			RequestHash: RequestHash(p.Prompt, p.ValidatorID, p.ContentType),
			ValidatorID: p.ValidatorID,
		}

		resp, err := s.responder.Response(ctx, Request{
			Prompt:      p.Prompt,
			ValidatorID: p.ValidatorID,
			ContentType: p.ContentType,
		})
		if err != nil {
			result.Error = err.Error()
			summary.Failed++
			log.Printf("[seed] prompt %d/%d failed: %v", i+1, len(prompts), err)
		} else {
			result.OK = true
			result.Cost = resp.Cost
			summary.Succeeded++
			summary.TotalCost += resp.Cost
		}

		summary.Results = append(summary.Results, result)
	}

	return summary, nil
}
