// Package engine orchestrates validation runs: it holds the validator
// registry, resolves which validators are enabled for a piece of
// content, executes them (in parallel or sequentially, with per-call
// timeouts and fail-fast), and aggregates their results into one
// ValidationResult.
package engine

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/bookwright/bookwright/internal/api"
	"github.com/bookwright/bookwright/internal/config"
	"github.com/bookwright/bookwright/internal/validator"
	"github.com/bookwright/bookwright/pkg/models"
)

// ValidatorInfo describes one registered validator for query APIs.
type ValidatorInfo struct {
	// ID is the stable validator identifier.
	ID string `json:"id"`
	// Name is the human-readable validator name.
	Name string `json:"name"`
	// Version is the validator version string.
	Version string `json:"version"`
	// SupportedTypes lists the content types the validator inspects.
	SupportedTypes []string `json:"supported_types"`
}

// Engine runs registered validators against content and aggregates
// their findings. Create with New, then call Initialize before use.
type Engine struct {
	mu sync.RWMutex

	cfg       *config.Config
	responder api.Responder
	tracker   *api.UsageTracker

	// validators maps ID to instance; order preserves registration
	// order for sequential execution.
	validators map[string]validator.Validator
	order      []string

	// runs tracks in-flight and completed validations by validation ID.
	runs map[string]*models.ValidationResult

	autoDiscover bool
	tempDir      string
	initialized  bool
}

// Option configures engine construction.
type Option func(*Engine)

// WithResponder supplies the AI responder validators will use. Without
// it, Initialize builds one from the configuration's credentials.
func WithResponder(r api.Responder) Option {
	return func(e *Engine) { e.responder = r }
}

// WithUsageTracker supplies the usage tracker shared with the
// responder. Without it, Initialize creates one.
func WithUsageTracker(t *api.UsageTracker) Option {
	return func(e *Engine) { e.tracker = t }
}

// WithAutoDiscovery controls whether Initialize registers the built-in
// validator set. Enabled by default.
func WithAutoDiscovery(enabled bool) Option {
	return func(e *Engine) { e.autoDiscover = enabled }
}

// New creates an engine. Call Initialize before validating.
func New(opts ...Option) *Engine {
	e := &Engine{
		validators:   make(map[string]validator.Validator),
		runs:         make(map[string]*models.ValidationResult),
		autoDiscover: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize validates the configuration, sets up the AI responder and
// workspace, and registers the built-in validators when auto-discovery
// is enabled. Configuration errors here are fatal; the engine stays
// unusable until Initialize succeeds.
func (e *Engine) Initialize(cfg *config.Config) error {
	if cfg == nil {
		return &validator.ConfigurationError{Reason: "configuration is required"}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tracker == nil {
		e.tracker = api.NewUsageTracker()
	}

	if e.responder == nil {
		apiKey, err := config.GetAPIKey(cfg)
		if err != nil && !cfg.AI.UseAWSBedrock {
			apiKey = "" // no credential: mock mode
		}

		responder, err := api.NewResponder(api.ResponderConfig{
			APIKey:        apiKey,
			UseAWSBedrock: cfg.AI.UseAWSBedrock,
			AWSRegion:     cfg.AI.AWSRegion,
			AWSProfile:    cfg.AI.AWSProfile,
			Model:         cfg.AI.Model,
			RecordingPath: cfg.AI.RecordingPath,
			Tracker:       e.tracker,
		})
		if err != nil {
			return fmt.Errorf("building AI responder: %w", err)
		}
		e.responder = responder
	}

	if cfg.TempDirectory != "" {
		if err := os.MkdirAll(cfg.TempDirectory, 0755); err != nil {
			return &validator.ResourceError{Path: cfg.TempDirectory, Err: err}
		}
		e.tempDir = cfg.TempDirectory
	}

	e.cfg = cfg
	e.initialized = true

	if e.autoDiscover {
		for _, v := range validator.BuiltIn(e.responder) {
			if _, exists := e.validators[v.ID()]; exists {
				continue
			}
			if err := e.registerLocked(v); err != nil {
				return err
			}
		}
	}

	log.Printf("[engine] initialized with %d validators (%s mode)", len(e.validators), e.responder.Mode())
	return nil
}

// RegisterValidator registers a validator instance and initializes it
// with its config block from ValidatorConfigs (or an empty map).
func (e *Engine) RegisterValidator(v validator.Validator) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return &validator.ConfigurationError{Reason: "engine is not initialized"}
	}
	if _, exists := e.validators[v.ID()]; exists {
		return &validator.ConfigurationError{
			Field:  "validators",
			Reason: fmt.Sprintf("validator %q is already registered", v.ID()),
		}
	}
	return e.registerLocked(v)
}

// RegisterValidatorFunc constructs a validator and registers it.
func (e *Engine) RegisterValidatorFunc(construct func() validator.Validator) error {
	return e.RegisterValidator(construct())
}

// registerLocked initializes and stores a validator. Callers hold e.mu.
func (e *Engine) registerLocked(v validator.Validator) error {
	block := e.cfg.ValidatorConfigs[v.ID()]
	if block == nil {
		block = map[string]any{}
	}
	if err := v.Initialize(block); err != nil {
		return fmt.Errorf("initializing validator %s: %w", v.ID(), err)
	}

	e.validators[v.ID()] = v
	e.order = append(e.order, v.ID())
	return nil
}

// RegisteredValidators lists every registered validator.
func (e *Engine) RegisteredValidators() []ValidatorInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()

	infos := make([]ValidatorInfo, 0, len(e.order))
	for _, id := range e.order {
		v := e.validators[id]
		infos = append(infos, ValidatorInfo{
			ID:             v.ID(),
			Name:           v.Name(),
			Version:        v.Version(),
			SupportedTypes: v.SupportedContentTypes(),
		})
	}
	return infos
}

// ValidationStatus returns the tracked result for a validation ID, or
// nil when the ID is unknown. An absent ID is not an error. While the
// run is in flight the returned value is a frozen IN_PROGRESS view;
// the aggregated result replaces it when the run finishes.
func (e *Engine) ValidationStatus(validationID string) *models.ValidationResult {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.runs[validationID]
}

// Responder returns the AI responder the engine was initialized with.
func (e *Engine) Responder() api.Responder {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.responder
}

// UsageTracker returns the engine's usage tracker.
func (e *Engine) UsageTracker() *api.UsageTracker {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tracker
}

// OnConfigurationChange swaps in a reloaded configuration and notifies
// validators that watch for changes. Runs already in flight keep the
// snapshot they started with.
func (e *Engine) OnConfigurationChange(cfg *config.Config) {
	if cfg == nil {
		return
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("[engine] rejected configuration change: %v", err)
		return
	}

	e.mu.Lock()
	e.cfg = cfg
	watchers := make([]validator.Validator, 0, len(e.order))
	for _, id := range e.order {
		watchers = append(watchers, e.validators[id])
	}
	e.mu.Unlock()

	for _, v := range watchers {
		if w, ok := v.(validator.ConfigWatcher); ok {
			block := cfg.ValidatorConfigs[v.ID()]
			if block == nil {
				block = map[string]any{}
			}
			w.OnConfigurationChange(block)
		}
	}
}

// Close releases validator resources and removes the temp workspace
// when cleanup-on-completion is configured.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var firstErr error
	for _, id := range e.order {
		if c, ok := e.validators[id].(validator.Cleaner); ok {
			if err := c.Cleanup(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("cleanup of validator %s: %w", id, err)
			}
		}
	}

	if e.tempDir != "" && e.cfg != nil && e.cfg.CleanupOnCompletion {
		if err := os.RemoveAll(e.tempDir); err != nil && firstErr == nil {
			firstErr = &validator.ResourceError{Path: e.tempDir, Err: err}
		}
		e.tempDir = ""
	}

	return firstErr
}
