package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bookwright/bookwright/internal/config"
	"github.com/bookwright/bookwright/internal/validator"
	"github.com/bookwright/bookwright/pkg/models"
)

// ValidateProject runs the enabled validators that support project-level
// content and returns the aggregated result.
func (e *Engine) ValidateProject(ctx context.Context, content, projectID string) (*models.ValidationResult, error) {
	vctx := validator.Context{
		"project_id":   projectID,
		"content_type": "project",
	}
	return e.run(ctx, content, projectID, "project", vctx)
}

// ValidateChapter runs the enabled validators that support the chapter's
// content type. The project context may carry "project_id",
// "content_id", and a "content_type" override (default "chapter").
func (e *Engine) ValidateChapter(ctx context.Context, content string, projectCtx validator.Context) (*models.ValidationResult, error) {
	if projectCtx == nil {
		projectCtx = validator.Context{}
	}
	vctx := projectCtx.Clone()
	contentType := vctx.String("content_type", "chapter")
	vctx["content_type"] = contentType

	return e.run(ctx, content, vctx.String("project_id", ""), contentType, vctx)
}

// run executes one validation: resolve enabled validators for the
// content type, execute them, aggregate, and track the result.
func (e *Engine) run(ctx context.Context, content, projectID, contentType string, vctx validator.Context) (*models.ValidationResult, error) {
	e.mu.RLock()
	if !e.initialized {
		e.mu.RUnlock()
		return nil, &validator.ConfigurationError{Reason: "engine is not initialized"}
	}
	cfg := e.cfg // snapshot: reloads never affect a run in flight
	resolved, err := e.resolveLocked(cfg, contentType)
	e.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	// The engine works on a private result and publishes to the runs
	// table only in frozen states: an in-progress marker at run start,
	// the aggregated result at the end. Status pollers therefore never
	// hold a pointer the engine is still mutating.
	result := models.NewValidationResult(projectID)
	e.trackRun(inProgressMarker(result))

	if len(resolved) == 0 {
		log.Printf("[engine] validation %s: no enabled validator supports content type %q", result.ValidationID, contentType)
		result.Status = models.ValidationError
		result.Summary = models.Summary{}
		e.trackRun(result)
		return result, nil
	}

	log.Printf("[engine] validation %s: running %d validators (parallel=%t fail_fast=%t)",
		result.ValidationID, len(resolved), cfg.ParallelProcessing, cfg.FailFast)

	start := time.Now()
	var results map[string]*models.ValidatorResult
	if cfg.ParallelProcessing {
		results = e.executeParallel(ctx, resolved, content, vctx, cfg)
	} else {
		results = e.executeSequential(ctx, resolved, content, vctx, cfg)
	}

	aggregate(result, results, cfg, time.Since(start))
	e.trackRun(result)

	log.Printf("[engine] validation %s: %s, score %.1f, %d findings",
		result.ValidationID, result.Status, result.OverallQualityScore, result.Summary.TotalFindings)

	return result, nil
}

// trackRun publishes the value ValidationStatus returns for a run.
// Callers must not mutate a result after passing it here.
func (e *Engine) trackRun(result *models.ValidationResult) {
	e.mu.Lock()
	e.runs[result.ValidationID] = result
	e.mu.Unlock()
}

// inProgressMarker returns a frozen IN_PROGRESS view of a run that is
// safe to share with status pollers while the engine fills in the real
// result. It shares no maps with the result it mirrors.
func inProgressMarker(result *models.ValidationResult) *models.ValidationResult {
	return &models.ValidationResult{
		ValidationID:        result.ValidationID,
		ProjectID:           result.ProjectID,
		Status:              models.ValidationInProgress,
		OverallQualityScore: result.OverallQualityScore,
		ValidatorResults:    make(map[string]*models.ValidatorResult),
		Timestamp:           result.Timestamp,
	}
}

// resolveLocked returns the enabled validators that support the content
// type, in registration order. Callers hold e.mu. An enabled validator
// ID that is not registered is a configuration fault, not a skip.
func (e *Engine) resolveLocked(cfg *config.Config, contentType string) ([]validator.Validator, error) {
	ids := e.order
	if len(cfg.EnabledValidators) > 0 {
		ids = cfg.EnabledValidators
	}

	resolved := make([]validator.Validator, 0, len(ids))
	for _, id := range ids {
		v, ok := e.validators[id]
		if !ok {
			return nil, &validator.NotFoundError{ValidatorID: id}
		}
		if validator.SupportsContentType(v, contentType) {
			resolved = append(resolved, v)
		}
	}
	return resolved, nil
}

// executeParallel runs validators concurrently, bounded by
// MaxParallelRequests. Under fail-fast, the first ERROR or FAILED
// result cancels validators that have not completed; their partial work
// is dropped while completed results are retained.
func (e *Engine) executeParallel(ctx context.Context, vs []validator.Validator, content string, vctx validator.Context, cfg *config.Config) map[string]*models.ValidatorResult {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, cfg.MaxParallelRequests)
	results := make(map[string]*models.ValidatorResult, len(vs))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, v := range vs {
		wg.Add(1)
		go func(v validator.Validator) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-runCtx.Done():
				return
			}

			res := e.executeOne(runCtx, v, content, vctx, cfg)
			if res == nil {
				return // cancelled mid-flight under fail-fast
			}

			mu.Lock()
			results[v.ID()] = res
			mu.Unlock()

			if cfg.FailFast && (res.Status == models.ValidatorError || res.Status == models.ValidatorFailed) {
				log.Printf("[engine] fail-fast: validator %s %s, cancelling remaining work", v.ID(), res.Status)
				cancel()
			}
		}(v)
	}

	wg.Wait()
	return results
}

// executeSequential runs validators strictly in registration order.
// Fail-fast stops at the first ERROR or FAILED result, so the set of
// executed validators is deterministic.
func (e *Engine) executeSequential(ctx context.Context, vs []validator.Validator, content string, vctx validator.Context, cfg *config.Config) map[string]*models.ValidatorResult {
	results := make(map[string]*models.ValidatorResult, len(vs))

	for _, v := range vs {
		if ctx.Err() != nil {
			break
		}

		res := e.executeOne(ctx, v, content, vctx, cfg)
		if res == nil {
			break
		}
		results[v.ID()] = res

		if cfg.FailFast && (res.Status == models.ValidatorError || res.Status == models.ValidatorFailed) {
			log.Printf("[engine] fail-fast: validator %s %s, skipping remaining validators", v.ID(), res.Status)
			break
		}
	}

	return results
}

// executeOne runs a single validator through its lifecycle under the
// per-call timeout. A timeout, panic, or unrecovered error becomes an
// ERROR result with a synthetic system_error finding instead of taking
// down the run. A nil return means the run itself was cancelled and the
// validator's partial work should be dropped.
func (e *Engine) executeOne(runCtx context.Context, v validator.Validator, content string, vctx validator.Context, cfg *config.Config) *models.ValidatorResult {
	timeout := cfg.RequestTimeoutDuration()
	callCtx, cancel := context.WithTimeout(runCtx, timeout)
	defer cancel()

	type outcome struct {
		result *models.ValidatorResult
		err    error
	}

	start := time.Now()
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("validator panicked: %v", r)}
			}
		}()
		res, err := validator.RunLifecycle(callCtx, v, content, vctx)
		done <- outcome{result: res, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			if errors.Is(out.err, context.Canceled) && runCtx.Err() != nil {
				return nil
			}
			log.Printf("[engine] validator %s errored: %v", v.ID(), out.err)
			return errorResult(v.ID(), time.Since(start), out.err)
		}
		return out.result

	case <-callCtx.Done():
		// Prefer a result that completed in the same instant the context
		// ended over discarding finished work.
		select {
		case out := <-done:
			if out.err == nil {
				return out.result
			}
		default:
		}
		if runCtx.Err() != nil {
			return nil
		}
		// The validator goroutine is hung past its deadline; convert the
		// hang into an ERROR result and move on.
		log.Printf("[engine] validator %s timed out after %s", v.ID(), timeout)
		return errorResult(v.ID(), time.Since(start),
			fmt.Errorf("validator timed out after %s", timeout))
	}
}

// errorResult converts a validator failure into an ERROR result with a
// synthetic system_error finding.
func errorResult(validatorID string, elapsed time.Duration, err error) *models.ValidatorResult {
	result := models.NewValidatorResult(validatorID)
	result.Status = models.ValidatorError
	result.ExecutionTime = elapsed
	result.AddFinding(models.NewFinding(
		validatorID,
		models.FindingSystemError,
		models.SeverityHigh,
		"Validator execution failed",
		err.Error(),
	))
	return result
}
