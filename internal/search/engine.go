package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/FranksOps/dossier/pkg/pacer"
)

// DefaultAdapterTimeout bounds a single platform lookup. A stalled vendor
// call becomes a StatusError result instead of hanging the whole run.
const DefaultAdapterTimeout = 30 * time.Second

// Pacer is the engine's inter-call delay. *pacer.Pacer implements it; tests
// substitute their own.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Options configures an Engine.
type Options struct {
	// Pacer enforces the delay between successive adapter calls. Nil means
	// the default one second pacer.
	Pacer Pacer
	// AdapterTimeout bounds each individual adapter call. Zero means
	// DefaultAdapterTimeout; negative disables the per-call timeout.
	AdapterTimeout time.Duration
	Logger         *slog.Logger
}

// Engine drives a query across an ordered list of platforms, strictly
// sequentially. Sequential execution is deliberate: the pacer's inter-call
// delay only keeps vendors happy if calls do not overlap. Each Run invocation
// owns its own Run value, so one Engine may serve concurrent runs as long as
// its adapters are concurrency-safe.
type Engine struct {
	registry *Registry
	pacer    Pacer
	timeout  time.Duration
	logger   *slog.Logger
}

// NewEngine creates an engine over the given adapter registry.
func NewEngine(registry *Registry, opts Options) *Engine {
	p := opts.Pacer
	if p == nil {
		p = pacer.Default()
	}
	timeout := opts.AdapterTimeout
	if timeout == 0 {
		timeout = DefaultAdapterTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		registry: registry,
		pacer:    p,
		timeout:  timeout,
		logger:   logger,
	}
}

// Run validates the query and then searches every platform in the given
// order, exactly once each. A single platform's failure never aborts the run;
// the only abort conditions are validation failure (no adapters invoked, nil
// run) and context cancellation (partial run returned together with the
// context's error). On normal completion the returned run holds one result
// per requested platform, in input order.
func (e *Engine) Run(ctx context.Context, q Query, platforms []string, onProgress ProgressFunc) (*Run, error) {
	if err := Validate(q); err != nil {
		return nil, err
	}

	run := &Run{
		ID:        uuid.New().String(),
		Query:     q,
		Platforms: append([]string(nil), platforms...),
		Results:   make([]Result, 0, len(platforms)),
		Total:     len(platforms),
		StartedAt: time.Now().UTC(),
	}

	onProgress.emit("Initializing search...", 0)
	e.logger.Info("search run started",
		"run_id", run.ID,
		"type", string(q.Type),
		"platforms", len(platforms),
	)

	total := len(platforms)
	for i, id := range platforms {
		if err := ctx.Err(); err != nil {
			run.FinishedAt = time.Now().UTC()
			return run, err
		}

		onProgress.emit(fmt.Sprintf("Searching %s...", id), percent(run.Completed, total))

		adapter, known := e.registry.Lookup(id)
		var res Result
		if !known {
			e.logger.Warn("unknown platform requested", "run_id", run.ID, "platform", id)
			res = Result{
				Platform:    id,
				Status:      StatusError,
				Description: "platform not supported",
				Timestamp:   time.Now().UTC(),
			}
		} else {
			res = e.searchOne(ctx, adapter, q)
		}

		run.Results = append(run.Results, res)
		run.Completed++
		onProgress.emit(
			fmt.Sprintf("Searched %d/%d platforms", run.Completed, total),
			percent(run.Completed, total),
		)

		// Pace before the next platform. No wait after the last entry, and
		// none after unknown ids since no vendor was contacted.
		if known && i < total-1 {
			if err := e.pacer.Wait(ctx); err != nil {
				run.FinishedAt = time.Now().UTC()
				return run, err
			}
		}
	}

	onProgress.emit("Search completed!", 100)
	run.FinishedAt = time.Now().UTC()
	e.logger.Info("search run finished",
		"run_id", run.ID,
		"completed", run.Completed,
		"duration", run.Duration(),
	)
	return run, nil
}

// searchOne invokes a single adapter under the per-call timeout, converting
// errors and panics into StatusError results so one misbehaving platform
// cannot take down the run.
func (e *Engine) searchOne(ctx context.Context, adapter Adapter, q Query) (res Result) {
	callCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("adapter panicked", "platform", adapter.ID(), "panic", r)
			res = Result{
				Platform:    adapter.ID(),
				Status:      StatusError,
				Description: fmt.Sprintf("adapter panicked: %v", r),
				Timestamp:   time.Now().UTC(),
			}
		}
	}()

	out, err := adapter.Search(callCtx, q)
	if err != nil {
		e.logger.Warn("platform search failed", "platform", adapter.ID(), "err", err)
		return Result{
			Platform:    adapter.ID(),
			Status:      StatusError,
			Description: err.Error(),
			Timestamp:   time.Now().UTC(),
		}
	}

	// Normalize fields the adapter may have left unset, and enforce the
	// error-results-carry-no-content invariant.
	if out.Platform == "" {
		out.Platform = adapter.ID()
	}
	if out.Timestamp.IsZero() {
		out.Timestamp = time.Now().UTC()
	}
	if out.Status == StatusError {
		out.Content = ""
	}
	return out
}

func percent(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
