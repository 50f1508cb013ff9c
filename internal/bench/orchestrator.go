package bench

import (
	"context"
	"log/slog"
	"time"

	"github.com/DFFM-maker/docker-rag/pkg/benchreport"
)

// Prober gates the run on service readiness.
type Prober interface {
	WaitUntilReady(ctx context.Context, maxAttempts int, interval time.Duration) bool
}

// ProjectionRunner produces the optional pre-sweep projection.
type ProjectionRunner interface {
	Project(ctx context.Context, inputPath, strategy string, samplePages int) *benchreport.ProjectionResult
}

// Options configures one end-to-end benchmark run.
type Options struct {
	ProbeAttempts int
	ProbeInterval time.Duration

	// Warmup runs one discarded measurement before the sweep so one-time
	// service startup cost (model loading, cache priming) does not land
	// on the first real record.
	Warmup bool

	// SamplePages enables the estimator when > 0.
	SamplePages int

	// Pacing is the pause after each successful measurement.
	Pacing time.Duration
}

// Orchestrator drives the sequence: readiness probe, optional warm-up,
// optional projection, then the full (input x strategy) sweep. Everything is
// strictly sequential; at most one request is ever in flight, since the
// service's own capacity is what is being measured.
type Orchestrator struct {
	prober    Prober
	executor  Executor
	projector ProjectionRunner
	logger    *slog.Logger
	opts      Options
}

func NewOrchestrator(prober Prober, executor Executor, projector ProjectionRunner, logger *slog.Logger, opts Options) *Orchestrator {
	if opts.ProbeAttempts <= 0 {
		opts.ProbeAttempts = 20
	}
	if opts.ProbeInterval <= 0 {
		opts.ProbeInterval = 4 * time.Second
	}
	return &Orchestrator{prober: prober, executor: executor, projector: projector, logger: logger, opts: opts}
}

// Run executes the benchmark and returns the batch in exact traversal order
// (inputs outer, strategies inner), plus the projection result when one was
// produced. Warm-up and projection measurements are never part of the batch.
// If the service never becomes ready the batch is empty and nothing was
// measured.
func (o *Orchestrator) Run(ctx context.Context, inputs, strategies []string) ([]benchreport.MeasurementRecord, *benchreport.ProjectionResult) {
	if !o.prober.WaitUntilReady(ctx, o.opts.ProbeAttempts, o.opts.ProbeInterval) {
		return nil, nil
	}
	if len(inputs) == 0 || len(strategies) == 0 {
		return nil, nil
	}

	if o.opts.Warmup {
		o.logger.Info("warm-up run, excluded from report", "file", inputs[0], "strategy", strategies[0])
		_ = o.executor.Execute(ctx, inputs[0], strategies[0])
	}

	var projection *benchreport.ProjectionResult
	if o.opts.SamplePages > 0 && o.projector != nil {
		projection = o.projector.Project(ctx, inputs[0], strategies[0], o.opts.SamplePages)
	}

	records := make([]benchreport.MeasurementRecord, 0, len(inputs)*len(strategies))
	for i, input := range inputs {
		o.logger.Info("progress", "file", i+1, "total", len(inputs))
		for _, strategy := range strategies {
			rec := o.executor.Execute(ctx, input, strategy)
			records = append(records, rec)
			// Failures proceed immediately; there is no retry within a
			// sweep. Successes pause so back-to-back requests do not
			// pile onto the service.
			if rec.Success && o.opts.Pacing > 0 {
				select {
				case <-ctx.Done():
					return records, projection
				case <-time.After(o.opts.Pacing):
				}
			}
		}
	}
	return records, projection
}
