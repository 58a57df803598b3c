package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// ValidatorStatus represents the terminal state of one validator run.
type ValidatorStatus string

const (
	// ValidatorNotStarted indicates the validator has not run yet.
	ValidatorNotStarted ValidatorStatus = "not_started"
	// ValidatorInProgress indicates the validator is running.
	ValidatorInProgress ValidatorStatus = "in_progress"
	// ValidatorCompleted indicates the validator finished normally.
	ValidatorCompleted ValidatorStatus = "completed"
	// ValidatorFailed indicates the content failed this validator's checks.
	ValidatorFailed ValidatorStatus = "failed"
	// ValidatorNeedsHumanReview indicates the validator wants a human to look.
	ValidatorNeedsHumanReview ValidatorStatus = "needs_human_review"
	// ValidatorError indicates the validator itself broke or timed out.
	ValidatorError ValidatorStatus = "error"
)

// Valid returns true if the status is a known value.
func (s ValidatorStatus) Valid() bool {
	switch s {
	case ValidatorNotStarted, ValidatorInProgress, ValidatorCompleted,
		ValidatorFailed, ValidatorNeedsHumanReview, ValidatorError:
		return true
	default:
		return false
	}
}

// Terminal returns true if the status is an end state.
func (s ValidatorStatus) Terminal() bool {
	switch s {
	case ValidatorCompleted, ValidatorFailed, ValidatorNeedsHumanReview, ValidatorError:
		return true
	default:
		return false
	}
}

// ValidationStatus represents the overall state of a validation run.
type ValidationStatus string

const (
	// ValidationInProgress indicates the run has started but not finished.
	ValidationInProgress ValidationStatus = "in_progress"
	// ValidationCompleted indicates every validator completed with no
	// critical findings.
	ValidationCompleted ValidationStatus = "completed"
	// ValidationNeedsHumanReview indicates the content should be reviewed
	// by a human before use.
	ValidationNeedsHumanReview ValidationStatus = "needs_human_review"
	// ValidationFailed indicates the run was cut short by a validator
	// failure under fail-fast.
	ValidationFailed ValidationStatus = "failed"
	// ValidationError indicates no validator could run at all.
	ValidationError ValidationStatus = "error"
)

// Valid returns true if the status is a known value.
func (s ValidationStatus) Valid() bool {
	switch s {
	case ValidationInProgress, ValidationCompleted, ValidationNeedsHumanReview,
		ValidationFailed, ValidationError:
		return true
	default:
		return false
	}
}

// AIUsage accumulates AI call accounting for one validator or one run.
type AIUsage struct {
	// Calls is the number of AI requests made.
	Calls int `json:"calls"`
	// TokensUsed is the total tokens consumed (input + output).
	TokensUsed int64 `json:"tokens_used"`
	// Cost is the estimated USD cost.
	Cost float64 `json:"cost"`
}

// Add merges another usage record into this one.
func (u *AIUsage) Add(other AIUsage) {
	u.Calls += other.Calls
	u.TokensUsed += other.TokensUsed
	u.Cost += other.Cost
}

// ValidatorResult is the output of one validator for one run. It is
// produced once and never mutated after the validator returns it.
type ValidatorResult struct {
	// ValidatorID is the ID of the validator that produced this result.
	ValidatorID string `json:"validator_id"`
	// Status is the terminal state of the validator run.
	Status ValidatorStatus `json:"status"`
	// Findings lists the issues found, in the order they were reported.
	Findings []Finding `json:"findings"`
	// Metrics carries validator-specific numeric measurements.
	Metrics map[string]float64 `json:"metrics,omitempty"`
	// ExecutionTime is how long the validator ran.
	ExecutionTime time.Duration `json:"execution_time"`
	// AIUsage accounts for AI calls made by this validator.
	AIUsage AIUsage `json:"ai_usage"`
	// Metadata carries validator-specific annotations, e.g. the
	// "human_review_recommended" flag set by post-validation hooks.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewValidatorResult creates an empty completed result for a validator.
func NewValidatorResult(validatorID string) *ValidatorResult {
	return &ValidatorResult{
		ValidatorID: validatorID,
		Status:      ValidatorCompleted,
		Findings:    []Finding{},
		Metrics:     make(map[string]float64),
		Metadata:    make(map[string]any),
	}
}

// AddFinding appends a finding to the result.
func (r *ValidatorResult) AddFinding(f Finding) {
	r.Findings = append(r.Findings, f)
}

// Summary aggregates counts across a validation run.
type Summary struct {
	// TotalFindings is the number of findings across all validators.
	TotalFindings int `json:"total_findings"`
	// BySeverity counts findings per severity.
	BySeverity map[Severity]int `json:"by_severity"`
	// ByType counts findings per finding type.
	ByType map[FindingType]int `json:"by_type"`
	// ValidatorsRun is the number of validators that produced a result.
	ValidatorsRun int `json:"validators_run"`
	// ValidatorsErrored is the number of validators that ended in error.
	ValidatorsErrored int `json:"validators_errored"`
}

// ValidationResult is the aggregated outcome of one validation run.
// The engine creates it at the start of a run, mutates it during
// aggregation, and freezes it once returned to the caller.
type ValidationResult struct {
	// ValidationID uniquely identifies this run.
	ValidationID string `json:"validation_id"`
	// ProjectID identifies the book project being validated.
	ProjectID string `json:"project_id"`
	// Status is the overall state of the run.
	Status ValidationStatus `json:"status"`
	// OverallQualityScore is the aggregate quality score in [0,100].
	OverallQualityScore float64 `json:"overall_quality_score"`
	// HumanReviewRequired indicates a human should review the content.
	HumanReviewRequired bool `json:"human_review_required"`
	// ValidatorResults maps validator ID to that validator's result.
	ValidatorResults map[string]*ValidatorResult `json:"validator_results"`
	// Summary aggregates finding counts across validators.
	Summary Summary `json:"summary"`
	// TotalExecutionTime is the wall-clock duration of the run.
	TotalExecutionTime time.Duration `json:"total_execution_time"`
	// TotalAIUsage accounts for all AI calls made during the run.
	TotalAIUsage AIUsage `json:"total_ai_usage"`
	// Timestamp is when the run started.
	Timestamp time.Time `json:"timestamp"`
}

// NewValidationResult creates an in-progress result for a run.
func NewValidationResult(projectID string) *ValidationResult {
	return &ValidationResult{
		ValidationID:        uuid.New().String(),
		ProjectID:           projectID,
		Status:              ValidationInProgress,
		OverallQualityScore: 100,
		ValidatorResults:    make(map[string]*ValidatorResult),
		Timestamp:           time.Now().UTC(),
	}
}

// AllFindings returns every finding across validators, ordered by
// validator ID so output is independent of completion order.
func (r *ValidationResult) AllFindings() []Finding {
	ids := make([]string, 0, len(r.ValidatorResults))
	for id := range r.ValidatorResults {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var findings []Finding
	for _, id := range ids {
		findings = append(findings, r.ValidatorResults[id].Findings...)
	}
	return findings
}
