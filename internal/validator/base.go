package validator

import (
	"github.com/bookwright/bookwright/pkg/models"
)

// DefaultHumanReviewThreshold is the score below which content is
// flagged for human review when no explicit threshold is configured.
const DefaultHumanReviewThreshold = 70.0

// Base provides the helper behaviors every validator implementation
// gets for free: identity accessors, rule and threshold maps with typed
// getters, human-review flagging, and finding construction that
// auto-stamps the validator ID. Embed it and override what you need.
type Base struct {
	id           string
	name         string
	version      string
	contentTypes []string

	rules       map[string]any
	thresholds  map[string]float64
	initialized bool
}

// NewBase creates the embedded helper for a validator implementation.
func NewBase(id, name, version string, contentTypes []string) Base {
	return Base{
		id:           id,
		name:         name,
		version:      version,
		contentTypes: contentTypes,
		rules:        make(map[string]any),
		thresholds:   make(map[string]float64),
	}
}

// ID returns the stable validator identifier.
func (b *Base) ID() string { return b.id }

// Name returns the human-readable validator name.
func (b *Base) Name() string { return b.name }

// Version returns the validator version string.
func (b *Base) Version() string { return b.version }

// SupportedContentTypes returns the content-type tags this validator
// declares support for.
func (b *Base) SupportedContentTypes() []string { return b.contentTypes }

// Initialized reports whether Initialize has succeeded.
func (b *Base) Initialized() bool { return b.initialized }

// Initialize applies a config block. Recognized keys: "rules" (map of
// rule name to value) and "thresholds" (map of threshold name to
// number). Unknown keys are ignored so validator config blocks can
// carry extra settings for subclass use.
func (b *Base) Initialize(config map[string]any) error {
	if rules, ok := config["rules"].(map[string]any); ok {
		b.ConfigureValidationRules(rules)
	}
	if thresholds, ok := config["thresholds"].(map[string]any); ok {
		converted := make(map[string]float64, len(thresholds))
		for name, v := range thresholds {
			if f, ok := toFloat(v); ok {
				converted[name] = f
			}
		}
		b.ConfigureQualityThresholds(converted)
	}
	b.initialized = true
	return nil
}

// ConfigureValidationRules merges rule settings into the rule map.
func (b *Base) ConfigureValidationRules(rules map[string]any) {
	for k, v := range rules {
		b.rules[k] = v
	}
}

// ConfigureQualityThresholds merges threshold settings.
func (b *Base) ConfigureQualityThresholds(thresholds map[string]float64) {
	for k, v := range thresholds {
		b.thresholds[k] = v
	}
}

// RuleString returns a string rule value, or def when absent or not a
// string.
func (b *Base) RuleString(key, def string) string {
	if v, ok := b.rules[key].(string); ok {
		return v
	}
	return def
}

// RuleBool returns a boolean rule value, or def when absent.
func (b *Base) RuleBool(key string, def bool) bool {
	if v, ok := b.rules[key].(bool); ok {
		return v
	}
	return def
}

// RuleInt returns an integer rule value, or def when absent. Numeric
// values that arrived as float64 through JSON/YAML decoding are
// accepted.
func (b *Base) RuleInt(key string, def int) int {
	switch v := b.rules[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// RuleFloat returns a float rule value, or def when absent.
func (b *Base) RuleFloat(key string, def float64) float64 {
	if f, ok := toFloat(b.rules[key]); ok {
		return f
	}
	return def
}

// Threshold returns a configured quality threshold, or def when absent.
func (b *Base) Threshold(name string, def float64) float64 {
	if v, ok := b.thresholds[name]; ok {
		return v
	}
	return def
}

// ShouldFlagForHumanReview reports whether a quality score falls below
// the named threshold (default 70.0 when unconfigured).
func (b *Base) ShouldFlagForHumanReview(score float64, thresholdName string) bool {
	return score < b.Threshold(thresholdName, DefaultHumanReviewThreshold)
}

// NewFinding creates a finding stamped with this validator's ID.
func (b *Base) NewFinding(ftype models.FindingType, severity models.Severity, title, message string) models.Finding {
	return models.NewFinding(b.id, ftype, severity, title, message)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
