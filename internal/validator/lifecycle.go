package validator

import (
	"context"
	"fmt"
	"time"

	"github.com/bookwright/bookwright/pkg/models"
)

// RunLifecycle executes one validator through its fixed lifecycle:
//
//	require initialized → pre-hook → validate → (error hook on failure)
//	→ post-hook → return
//
// The orchestration is the same for every validator; only the hook
// implementations vary. A validator whose ErrorHook returns a result
// degrades gracefully instead of propagating its error.
func RunLifecycle(ctx context.Context, v Validator, content string, vctx Context) (*models.ValidatorResult, error) {
	if !v.Initialized() {
		return nil, fmt.Errorf("%w: %s", ErrNotInitialized, v.ID())
	}

	if vctx == nil {
		vctx = Context{}
	}

	start := time.Now()

	if pre, ok := v.(PreHook); ok {
		rewritten, err := pre.PreValidationHook(ctx, content, vctx)
		if err != nil {
			return nil, fmt.Errorf("pre-validation hook for %s: %w", v.ID(), err)
		}
		if rewritten != nil {
			vctx = rewritten
		}
	}

	result, err := v.Validate(ctx, content, vctx)
	if err != nil {
		if hook, ok := v.(ErrorHook); ok {
			if recovered := hook.OnValidationError(ctx, err, content, vctx); recovered != nil {
				result = recovered
				err = nil
			}
		}
		if err != nil {
			return nil, err
		}
	}

	if result == nil {
		return nil, fmt.Errorf("%w: validator %s returned no result", ErrValidation, v.ID())
	}

	if post, ok := v.(PostHook); ok {
		adjusted, err := post.PostValidationHook(ctx, result, content, vctx)
		if err != nil {
			return nil, fmt.Errorf("post-validation hook for %s: %w", v.ID(), err)
		}
		if adjusted != nil {
			result = adjusted
		}
	}

	if result.ExecutionTime == 0 {
		result.ExecutionTime = time.Since(start)
	}

	return result, nil
}
