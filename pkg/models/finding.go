// Package models defines the shared value types for Bookwright's
// validation pipeline: findings, per-validator results, and the
// aggregated result of a validation run.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Severity classifies how serious a finding is.
type Severity string

const (
	// SeverityInfo is informational only and carries no score penalty.
	SeverityInfo Severity = "info"
	// SeverityLow indicates a minor issue.
	SeverityLow Severity = "low"
	// SeverityMedium indicates an issue that should be addressed.
	SeverityMedium Severity = "medium"
	// SeverityHigh indicates a serious issue.
	SeverityHigh Severity = "high"
	// SeverityCritical indicates an issue that blocks completion.
	SeverityCritical Severity = "critical"
)

// Valid returns true if the severity is a known value.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// Weight returns the quality-score penalty applied per finding of this
// severity during aggregation. Unknown severities weigh the same as
// medium so a misbehaving validator cannot zero out its own findings.
func (s Severity) Weight() float64 {
	switch s {
	case SeverityInfo:
		return 0
	case SeverityLow:
		return 2
	case SeverityMedium:
		return 5
	case SeverityHigh:
		return 12
	case SeverityCritical:
		return 25
	default:
		return 5
	}
}

// FindingType categorizes what kind of issue a finding reports.
type FindingType string

const (
	// FindingContentQuality covers prose and narrative quality issues.
	FindingContentQuality FindingType = "content_quality"
	// FindingSecurityVulnerability covers security issues in generated code.
	FindingSecurityVulnerability FindingType = "security_vulnerability"
	// FindingCodeQuality covers code style and correctness issues.
	FindingCodeQuality FindingType = "code_quality"
	// FindingDocumentation covers missing or inconsistent documentation.
	FindingDocumentation FindingType = "documentation"
	// FindingCompliance covers policy or guideline violations.
	FindingCompliance FindingType = "compliance"
	// FindingAIOutputQuality covers defects in raw AI output (truncation,
	// format drift, refusals).
	FindingAIOutputQuality FindingType = "ai_output_quality"
	// FindingSystemError is synthesized by the engine when a validator
	// itself fails.
	FindingSystemError FindingType = "system_error"
)

// Valid returns true if the finding type is a known value.
func (t FindingType) Valid() bool {
	switch t {
	case FindingContentQuality, FindingSecurityVulnerability, FindingCodeQuality,
		FindingDocumentation, FindingCompliance, FindingAIOutputQuality, FindingSystemError:
		return true
	default:
		return false
	}
}

// Location pinpoints where in a piece of content a finding applies.
type Location struct {
	// ContentType is the kind of content (chapter, outline, concept...).
	ContentType string `json:"content_type"`
	// ContentID identifies the content unit, e.g. a chapter ID.
	ContentID string `json:"content_id"`
	// Line is the 1-based line number, if known.
	Line int `json:"line,omitempty"`
	// Column is the 1-based column number, if known.
	Column int `json:"column,omitempty"`
	// CharStart is the start of the affected character range, if known.
	CharStart int `json:"char_start,omitempty"`
	// CharEnd is the end of the affected character range, if known.
	CharEnd int `json:"char_end,omitempty"`
}

// Finding is one issue reported by a validator. It is a value type and
// must not be mutated after creation.
type Finding struct {
	// ID is the unique identifier for this finding.
	ID string `json:"id"`
	// ValidatorID is the ID of the validator that produced this finding.
	ValidatorID string `json:"validator_id"`
	// Type categorizes the issue.
	Type FindingType `json:"type"`
	// Severity classifies how serious the issue is.
	Severity Severity `json:"severity"`
	// Title is a short, one-line description.
	Title string `json:"title"`
	// Message describes the issue in detail.
	Message string `json:"message"`
	// Location pinpoints where the issue was found, if applicable.
	Location *Location `json:"location,omitempty"`
	// Remediation suggests how to fix the issue, if known.
	Remediation string `json:"remediation,omitempty"`
	// Confidence is the validator's confidence in this finding, in [0,1].
	Confidence float64 `json:"confidence"`
	// Metadata carries validator-specific details.
	Metadata map[string]any `json:"metadata,omitempty"`
	// Timestamp is when the finding was created.
	Timestamp time.Time `json:"timestamp"`
}

// NewFinding creates a Finding with a fresh ID and timestamp. The
// confidence defaults to 1.0; adjust it with WithConfidence.
func NewFinding(validatorID string, ftype FindingType, severity Severity, title, message string) Finding {
	return Finding{
		ID:          uuid.New().String(),
		ValidatorID: validatorID,
		Type:        ftype,
		Severity:    severity,
		Title:       title,
		Message:     message,
		Confidence:  1.0,
		Timestamp:   time.Now().UTC(),
	}
}

// WithConfidence returns a copy of the finding with the given
// confidence, clamped into [0,1].
func (f Finding) WithConfidence(c float64) Finding {
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	f.Confidence = c
	return f
}

// WithLocation returns a copy of the finding with the given location.
func (f Finding) WithLocation(loc Location) Finding {
	f.Location = &loc
	return f
}

// WithRemediation returns a copy of the finding with a remediation hint.
func (f Finding) WithRemediation(hint string) Finding {
	f.Remediation = hint
	return f
}
