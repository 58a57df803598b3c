package api

import (
	"errors"
	"time"
)

// Scenario selects the synthetic behavior of a mock AI call. Live calls
// ignore it; mock calls that miss the recording store synthesize a
// response (or error) from it.
type Scenario string

const (
	// ScenarioSuccess yields a plausible mid-range quality assessment.
	ScenarioSuccess Scenario = "success"
	// ScenarioHighQuality always yields a quality score above 90.
	ScenarioHighQuality Scenario = "high_quality"
	// ScenarioLowQuality always yields a quality score below 70.
	ScenarioLowQuality Scenario = "low_quality"
	// ScenarioFailure simulates a provider-side request failure.
	ScenarioFailure Scenario = "failure"
	// ScenarioTimeout simulates a request timeout.
	ScenarioTimeout Scenario = "timeout"
	// ScenarioRateLimit simulates a 429 from the provider.
	ScenarioRateLimit Scenario = "rate_limit"
	// ScenarioInvalidResponse yields content that is not parseable as the
	// expected assessment format.
	ScenarioInvalidResponse Scenario = "invalid_response"
	// ScenarioPartialFailure yields a truncated response with low confidence.
	ScenarioPartialFailure Scenario = "partial_failure"
	// ScenarioEdgeCase yields boundary values (score exactly at the
	// default human-review threshold, empty issue list).
	ScenarioEdgeCase Scenario = "edge_case"
)

// Valid returns true if the scenario is a known value.
func (s Scenario) Valid() bool {
	switch s {
	case ScenarioSuccess, ScenarioHighQuality, ScenarioLowQuality, ScenarioFailure,
		ScenarioTimeout, ScenarioRateLimit, ScenarioInvalidResponse,
		ScenarioPartialFailure, ScenarioEdgeCase:
		return true
	default:
		return false
	}
}

// Request describes one logical AI request. The (Prompt, ValidatorID,
// ContentType) triple content-addresses the request for recording and
// replay; Model and Scenario do not participate in the hash.
type Request struct {
	// Prompt is the full prompt text.
	Prompt string `json:"prompt"`
	// ValidatorID identifies the calling validator.
	ValidatorID string `json:"validator_id"`
	// ContentType is the kind of content under validation.
	ContentType string `json:"content_type"`
	// Model overrides the responder's default model when non-empty.
	Model string `json:"model,omitempty"`
	// Scenario selects mock behavior when the request is not replayable.
	// Empty defaults to ScenarioSuccess.
	Scenario Scenario `json:"scenario,omitempty"`
}

// Response is the output of one AI call. Its shape is identical whether
// the call was live, replayed, or synthesized.
type Response struct {
	// Content is the text returned by the model.
	Content string `json:"content"`
	// Model is the model that produced (or pretends to have produced) it.
	Model string `json:"model"`
	// TokensUsed is the total tokens consumed (input + output).
	TokensUsed int64 `json:"tokens_used"`
	// Cost is the estimated USD cost of the call.
	Cost float64 `json:"cost"`
	// Confidence is the responder's confidence in the content, in [0,1].
	Confidence float64 `json:"confidence"`
	// Scenario records which scenario produced a synthesized response.
	// Empty for live and replayed responses.
	Scenario Scenario `json:"scenario,omitempty"`
	// Timestamp is when the response was produced.
	Timestamp time.Time `json:"timestamp"`
}

// ErrTimeout is returned when an AI request times out, whether for real
// or under ScenarioTimeout.
var ErrTimeout = errors.New("ai request timed out")

// ErrRateLimited is returned when the provider rejects a request for
// rate limiting, whether for real or under ScenarioRateLimit.
var ErrRateLimited = errors.New("ai request rate limited")

// ErrProvider is returned for generic provider-side failures simulated
// by ScenarioFailure.
var ErrProvider = errors.New("ai provider request failed")
