package api

import (
	"context"
	"fmt"
	"time"
)

// MockResponder synthesizes deterministic AI responses without network
// access. Each call first tries to replay a previously recorded real
// interaction by request hash; on a miss it fabricates a response from
// the request's scenario.
type MockResponder struct {
	model   string
	store   *RecordingStore
	tracker *UsageTracker
}

// NewMockResponder creates a mock responder backed by the given store.
func NewMockResponder(model string, store *RecordingStore, tracker *UsageTracker) *MockResponder {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	return &MockResponder{
		model:   model,
		store:   store,
		tracker: tracker,
	}
}

// Mode returns ModeMock.
func (r *MockResponder) Mode() Mode {
	return ModeMock
}

// Response replays a recording when one exists for the request hash,
// otherwise synthesizes a response from the scenario. Error scenarios
// return errors shaped like their live counterparts so validator
// error handling is exercised identically in both modes.
func (r *MockResponder) Response(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hash := RequestHash(req.Prompt, req.ValidatorID, req.ContentType)
	if rec, ok := r.store.Lookup(hash); ok {
		resp := rec.Response
		r.tracker.Add(req.ValidatorID, 0, 0, 0)
		return &resp, nil
	}

	scenario := req.Scenario
	if scenario == "" {
		scenario = ScenarioSuccess
	}
	if !scenario.Valid() {
		return nil, fmt.Errorf("unknown scenario %q", scenario)
	}

	switch scenario {
	case ScenarioTimeout:
		return nil, fmt.Errorf("%w after 1200s", ErrTimeout)
	case ScenarioRateLimit:
		return nil, fmt.Errorf("%w: 429 too many requests", ErrRateLimited)
	case ScenarioFailure:
		return nil, fmt.Errorf("%w: 500 internal server error", ErrProvider)
	}

	content, confidence := synthesize(scenario)
	cost := CostFor(r.model, mockInputTokens, mockOutputTokens)
	r.tracker.Add(req.ValidatorID, mockInputTokens, mockOutputTokens, cost)

	return &Response{
		Content:    content,
		Model:      r.model,
		TokensUsed: mockInputTokens + mockOutputTokens,
		Cost:       cost,
		Confidence: confidence,
		Scenario:   scenario,
		Timestamp:  time.Now().UTC(),
	}, nil
}

// Store exposes the recording store, used by tests and status commands.
func (r *MockResponder) Store() *RecordingStore {
	return r.store
}

// synthesize returns the fixed content and confidence for a
// non-error scenario. Content is a JSON assessment document in the
// shape validators parse; every scenario produces the same field set
// on every call.
func synthesize(scenario Scenario) (content string, confidence float64) {
	switch scenario {
	case ScenarioHighQuality:
		return `{"score": 95, "assessment": "Strong, well-paced prose with consistent voice and no structural defects.", "issues": []}`, 0.95
	case ScenarioLowQuality:
		return `{"score": 45, "assessment": "Flat pacing, repetitive phrasing, and several continuity breaks.", "issues": ["repetitive phrasing in multiple paragraphs", "character name inconsistency", "abrupt scene transition"]}`, 0.9
	case ScenarioInvalidResponse:
		return `I apologize, but I cannot provide a structured assessment {score: incomplete`, 0.2
	case ScenarioPartialFailure:
		return `{"score": 72, "assessment": "Assessment truncated before issue enum`, 0.5
	case ScenarioEdgeCase:
		return `{"score": 70, "assessment": "", "issues": []}`, 0.5
	default: // ScenarioSuccess
		return `{"score": 85, "assessment": "Solid draft quality with minor polish opportunities.", "issues": ["occasional passive voice"]}`, 0.85
	}
}
