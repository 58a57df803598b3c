package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/bookwright/bookwright/pkg/models"
)

// placeholderMarkers are template leftovers that must not survive into
// generated content.
var placeholderMarkers = []string{"[TBD]", "[TODO]", "{{", "<PLACEHOLDER>"}

// Structure validates the mechanical structure of generated content
// with local heuristics: word-count bounds, empty sections, and
// unresolved template placeholders. It makes no AI calls.
type Structure struct {
	Base
}

var _ Validator = (*Structure)(nil)

// NewStructure creates the structure validator.
func NewStructure() *Structure {
	return &Structure{
		Base: NewBase("structure", "Structure", "1.0.0", []string{"chapter", "outline", "project"}),
	}
}

// Validate runs the structural checks.
func (v *Structure) Validate(_ context.Context, content string, vctx Context) (*models.ValidatorResult, error) {
	result := models.NewValidatorResult(v.ID())

	contentType := vctx.String("content_type", "chapter")
	loc := models.Location{
		ContentType: contentType,
		ContentID:   vctx.String("content_id", ""),
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		result.Status = models.ValidatorFailed
		result.AddFinding(v.NewFinding(
			models.FindingContentQuality,
			models.SeverityCritical,
			"Empty content",
			"the content is empty or whitespace only",
		).WithLocation(loc))
		result.Metrics["word_count"] = 0
		return result, nil
	}

	words := len(strings.Fields(trimmed))
	result.Metrics["word_count"] = float64(words)

	minWords := v.RuleInt("min_words", defaultMinWords(contentType))
	maxWords := v.RuleInt("max_words", 20000)

	if words < minWords {
		result.AddFinding(v.NewFinding(
			models.FindingContentQuality,
			models.SeverityMedium,
			"Content too short",
			fmt.Sprintf("%d words is below the %d-word minimum for a %s", words, minWords, contentType),
		).WithLocation(loc).WithRemediation("expand the section or lower min_words for this project"))
	}
	if words > maxWords {
		result.AddFinding(v.NewFinding(
			models.FindingContentQuality,
			models.SeverityLow,
			"Content too long",
			fmt.Sprintf("%d words exceeds the %d-word maximum for a %s", words, maxWords, contentType),
		).WithLocation(loc))
	}

	for lineNo, line := range strings.Split(content, "\n") {
		for _, marker := range placeholderMarkers {
			if idx := strings.Index(line, marker); idx >= 0 {
				markerLoc := loc
				markerLoc.Line = lineNo + 1
				markerLoc.Column = idx + 1
				result.AddFinding(v.NewFinding(
					models.FindingContentQuality,
					models.SeverityHigh,
					"Unresolved placeholder",
					fmt.Sprintf("template marker %q left in generated content", marker),
				).WithLocation(markerLoc).WithRemediation("regenerate the section or fill in the placeholder"))
			}
		}
	}

	return result, nil
}

// defaultMinWords returns the word floor for a content type when the
// project config does not set one.
func defaultMinWords(contentType string) int {
	switch contentType {
	case "chapter":
		return 500
	case "outline":
		return 50
	default:
		return 10
	}
}
