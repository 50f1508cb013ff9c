package bench

import (
	"context"
	"log/slog"

	"github.com/DFFM-maker/docker-rag/internal/sampler"
	"github.com/DFFM-maker/docker-rag/pkg/benchreport"
)

// Projector estimates full-document processing time by measuring a
// leading-page sample and extrapolating linearly.
type Projector struct {
	sampler  sampler.Sampler
	executor Executor
	logger   *slog.Logger
}

func NewProjector(s sampler.Sampler, executor Executor, logger *slog.Logger) *Projector {
	return &Projector{sampler: s, executor: executor, logger: logger}
}

// Project measures the first samplePages pages of inputPath under the given
// strategy and scales the elapsed time to the full page count. A nil result
// means projection was not applicable; that is a normal, logged outcome and
// never aborts the run. The sample measurement is diagnostic only and is not
// part of any batch.
func (p *Projector) Project(ctx context.Context, inputPath, strategy string, samplePages int) *benchreport.ProjectionResult {
	if samplePages <= 0 {
		return nil
	}

	total, err := p.sampler.PageCount(inputPath)
	if err != nil {
		p.logger.Warn("projection skipped: page count unavailable", "file", inputPath, "error", err)
		return nil
	}
	if total <= samplePages {
		p.logger.Info("projection skipped: document no larger than sample",
			"pages", total, "sample_pages", samplePages)
		return nil
	}

	samplePath, err := p.sampler.ExtractHead(inputPath, samplePages)
	if err != nil {
		p.logger.Warn("projection skipped: sample extraction failed", "file", inputPath, "error", err)
		return nil
	}

	p.logger.Info("estimator run", "sample_pages", samplePages, "total_pages", total, "sample", samplePath)
	rec := p.executor.Execute(ctx, samplePath, strategy)
	if !rec.Success {
		p.logger.Warn("projection skipped: sample measurement failed", "kind", rec.Error)
		return nil
	}

	perPage := rec.Seconds / float64(samplePages)
	totalSec := perPage * float64(total)
	return &benchreport.ProjectionResult{
		SamplePages:           samplePages,
		TotalPages:            total,
		TimePerPageSeconds:    perPage,
		EstimatedTotalSeconds: totalSec,
		EstimatedTotalMinutes: totalSec / 60,
		EstimatedTotalHours:   totalSec / 3600,
		Strategy:              strategy,
		OCRLanguages:          rec.OCRLanguages,
		SampleFile:            samplePath,
	}
}
