package analysis

import (
	"context"
	"log"
	"sync"
	"time"
)

// Orchestrator fans requested categories out to the reasoning service.
// Calls run concurrently up to maxConcurrent; each goroutine writes its
// own result slot so the output preserves request order regardless of
// completion order. A failed category never cancels the others.
type Orchestrator struct {
	gen           Generator // nil when no credential is configured
	maxConcurrent int
	callTimeout   time.Duration
}

// NewOrchestrator creates an Orchestrator. Pass a nil Generator to run
// in degraded mode: every category is reported failed with
// service_unconfigured, without any network call.
func NewOrchestrator(gen Generator, maxConcurrent int, callTimeout time.Duration) *Orchestrator {
	if maxConcurrent <= 0 {
		maxConcurrent = 3
	}
	return &Orchestrator{
		gen:           gen,
		maxConcurrent: maxConcurrent,
		callTimeout:   callTimeout,
	}
}

// Configured reports whether the reasoning service has a credential.
func (o *Orchestrator) Configured() bool {
	return o.gen != nil
}

// Analyze produces one Result per requested category, in request order,
// with no duplicates and no omissions. Unknown categories fail the whole
// request before any call is issued.
func (o *Orchestrator) Analyze(ctx context.Context, raw []string, actx Context) ([]Result, error) {
	categories, err := NormalizeCategories(raw)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(categories))

	if o.gen == nil {
		for i, c := range categories {
			results[i] = Result{Category: c, Status: StatusFailed, ErrorReason: ReasonServiceUnconfigured}
		}
		return results, nil
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, o.maxConcurrent)

	for i, c := range categories {
		wg.Add(1)
		go func(i int, c Category) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			callCtx := ctx
			if o.callTimeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, o.callTimeout)
				defer cancel()
			}

			text, err := o.gen.Generate(callCtx, c, actx)
			if err != nil {
				log.Printf("analysis for category %s failed: %v", c, err)
				results[i] = Result{Category: c, Status: StatusFailed, ErrorReason: err.Error()}
				return
			}
			results[i] = Result{Category: c, Status: StatusOK, Text: text}
		}(i, c)
	}

	wg.Wait()
	return results, nil
}
