// Package validator defines the pluggable validator contract for
// Bookwright's validation engine: the core Validator interface, the
// optional lifecycle hooks, the shared Base helpers, and the built-in
// validator set.
package validator

import (
	"context"

	"github.com/bookwright/bookwright/pkg/models"
)

// Context carries per-run contextual values into a validator, e.g. the
// project ID, content ID, or preprocessing annotations added by hooks.
type Context map[string]any

// Clone returns a shallow copy so hooks can rewrite context without
// affecting the caller's map.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// String returns the string value for a key, or def when absent.
func (c Context) String(key, def string) string {
	if v, ok := c[key].(string); ok {
		return v
	}
	return def
}

// Validator is a pluggable unit that inspects content and produces
// findings. Implementations embed Base for the shared helpers.
type Validator interface {
	// ID returns the stable validator identifier.
	ID() string
	// Name returns the human-readable validator name.
	Name() string
	// Version returns the validator version string.
	Version() string
	// Initialize configures the validator from its config block. It must
	// be called before Validate.
	Initialize(config map[string]any) error
	// Initialized reports whether Initialize has succeeded.
	Initialized() bool
	// Validate inspects content and returns a result. A returned error
	// means the validator itself broke, not that the content is bad.
	Validate(ctx context.Context, content string, vctx Context) (*models.ValidatorResult, error)
	// SupportedContentTypes returns the content-type tags this validator
	// can inspect.
	SupportedContentTypes() []string
}

// PreHook is implemented by validators that preprocess the validation
// context before Validate runs.
type PreHook interface {
	// PreValidationHook may rewrite the context. Returning nil keeps the
	// original.
	PreValidationHook(ctx context.Context, content string, vctx Context) (Context, error)
}

// PostHook is implemented by validators that annotate or adjust their
// result after Validate returns.
type PostHook interface {
	// PostValidationHook may adjust the result. Returning nil keeps the
	// original.
	PostValidationHook(ctx context.Context, result *models.ValidatorResult, content string, vctx Context) (*models.ValidatorResult, error)
}

// ErrorHook is implemented by validators that can recover from their
// own validation errors.
type ErrorHook interface {
	// OnValidationError may return a degraded result to absorb the
	// error. Returning nil propagates it.
	OnValidationError(ctx context.Context, err error, content string, vctx Context) *models.ValidatorResult
}

// ConfigWatcher is implemented by validators that react to
// configuration reloads. Changes never retroactively affect a run that
// is already in flight.
type ConfigWatcher interface {
	// OnConfigurationChange receives the validator's new config block.
	OnConfigurationChange(config map[string]any)
}

// Cleaner is implemented by validators that hold resources needing
// teardown when the engine shuts down.
type Cleaner interface {
	// Cleanup releases validator resources.
	Cleanup() error
}

// SupportsContentType reports whether v declares support for the given
// content-type tag.
func SupportsContentType(v Validator, contentType string) bool {
	for _, t := range v.SupportedContentTypes() {
		if t == contentType {
			return true
		}
	}
	return false
}
