package validator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bookwright/bookwright/internal/api"
	"github.com/bookwright/bookwright/pkg/models"
)

// ProseQuality is an AI-backed validator that asks the model to assess
// prose content (chapters, outlines) and converts the assessment into
// findings and a quality metric.
type ProseQuality struct {
	Base
	responder api.Responder
}

// Interface checks for the capabilities ProseQuality implements.
var (
	_ Validator = (*ProseQuality)(nil)
	_ PreHook   = (*ProseQuality)(nil)
	_ PostHook  = (*ProseQuality)(nil)
	_ ErrorHook = (*ProseQuality)(nil)
)

// NewProseQuality creates the prose-quality validator.
func NewProseQuality(responder api.Responder) *ProseQuality {
	return &ProseQuality{
		Base:      NewBase("prose_quality", "Prose Quality", "1.0.0", []string{"chapter", "outline", "concept", "project"}),
		responder: responder,
	}
}

// proseAssessment is the JSON document the model is asked to return.
type proseAssessment struct {
	Score      float64  `json:"score"`
	Assessment string   `json:"assessment"`
	Issues     []string `json:"issues"`
}

// PreValidationHook stamps when preprocessing happened so downstream
// hooks and reports can see it.
func (v *ProseQuality) PreValidationHook(_ context.Context, _ string, vctx Context) (Context, error) {
	vctx = vctx.Clone()
	vctx["preprocessed_at"] = time.Now().UTC().Format(time.RFC3339)
	return vctx, nil
}

// Validate sends the content for assessment and converts the response
// into findings.
func (v *ProseQuality) Validate(ctx context.Context, content string, vctx Context) (*models.ValidatorResult, error) {
	if v.responder == nil {
		return nil, fmt.Errorf("%w: prose_quality has no responder", ErrValidation)
	}

	contentType := vctx.String("content_type", "chapter")
	prompt := v.buildPrompt(content, contentType)

	resp, err := v.responder.Response(ctx, api.Request{
		Prompt:      prompt,
		ValidatorID: v.ID(),
		ContentType: contentType,
		Model:       v.RuleString("model", ""),
		Scenario:    api.Scenario(v.RuleString("mock_scenario", "")),
	})
	if err != nil {
		return nil, fmt.Errorf("prose assessment call: %w", err)
	}

	result := models.NewValidatorResult(v.ID())
	result.AIUsage = models.AIUsage{
		Calls:      1,
		TokensUsed: resp.TokensUsed,
		Cost:       resp.Cost,
	}

	assessment, parseErr := v.parseAssessment(resp.Content)
	if parseErr != nil {
		result.AddFinding(v.NewFinding(
			models.FindingAIOutputQuality,
			models.SeverityHigh,
			"Unparseable AI assessment",
			fmt.Sprintf("the model response could not be parsed as an assessment: %v", parseErr),
		).WithConfidence(resp.Confidence))
		result.Metrics["quality_score"] = 0
		return result, nil
	}

	result.Metrics["quality_score"] = assessment.Score
	result.Metadata["assessment"] = assessment.Assessment

	failBelow := v.Threshold("fail_below", 50.0)
	issueSeverity := models.SeverityMedium
	if assessment.Score < failBelow {
		result.Status = models.ValidatorFailed
		issueSeverity = models.SeverityHigh
	}

	for _, issue := range assessment.Issues {
		result.AddFinding(v.NewFinding(
			models.FindingContentQuality,
			issueSeverity,
			"Prose issue",
			issue,
		).WithConfidence(resp.Confidence).WithLocation(models.Location{
			ContentType: contentType,
			ContentID:   vctx.String("content_id", ""),
		}))
	}

	return result, nil
}

// PostValidationHook flags the result for human review when the quality
// score falls below the configured review threshold.
func (v *ProseQuality) PostValidationHook(_ context.Context, result *models.ValidatorResult, _ string, _ Context) (*models.ValidatorResult, error) {
	score, ok := result.Metrics["quality_score"]
	if !ok {
		return result, nil
	}

	if v.ShouldFlagForHumanReview(score, "human_review") {
		result.Metadata["human_review_recommended"] = true
		if result.Status == models.ValidatorCompleted {
			result.Status = models.ValidatorNeedsHumanReview
		}
	}
	return result, nil
}

// OnValidationError absorbs rate limiting into a degraded result so one
// throttled call does not sink the whole run. Timeouts and provider
// failures propagate.
func (v *ProseQuality) OnValidationError(_ context.Context, err error, _ string, _ Context) *models.ValidatorResult {
	if !errors.Is(err, api.ErrRateLimited) {
		return nil
	}

	result := models.NewValidatorResult(v.ID())
	result.Metadata["degraded"] = true
	result.AddFinding(v.NewFinding(
		models.FindingSystemError,
		models.SeverityInfo,
		"Prose assessment skipped",
		fmt.Sprintf("assessment was rate limited and skipped: %v", err),
	).WithConfidence(1.0))
	return result
}

// buildPrompt constructs the assessment prompt.
func (v *ProseQuality) buildPrompt(content, contentType string) string {
	var sb strings.Builder

	sb.WriteString("# Prose Quality Assessment\n\n")
	sb.WriteString(fmt.Sprintf("You are assessing the quality of a book %s. ", contentType))
	sb.WriteString("Evaluate pacing, voice consistency, clarity, and structural soundness.\n\n")
	sb.WriteString("## Content\n\n```\n")
	sb.WriteString(content)
	sb.WriteString("\n```\n\n")
	sb.WriteString("## Response Format\n\n")
	sb.WriteString("Respond with a JSON object and nothing else:\n")
	sb.WriteString(`{"score": <0-100>, "assessment": "<one paragraph>", "issues": ["<issue>", ...]}`)
	sb.WriteString("\n")

	return sb.String()
}

// parseAssessment extracts the JSON assessment from a model response,
// tolerating surrounding prose or code fences.
func (v *ProseQuality) parseAssessment(content string) (*proseAssessment, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var assessment proseAssessment
	if err := json.Unmarshal([]byte(content[start:end+1]), &assessment); err != nil {
		return nil, err
	}

	if assessment.Score < 0 || assessment.Score > 100 {
		return nil, fmt.Errorf("score %v out of range", assessment.Score)
	}

	return &assessment, nil
}
