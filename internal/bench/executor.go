// Package bench drives timed extraction measurements and their projection.
package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/DFFM-maker/docker-rag/internal/unstructured"
	"github.com/DFFM-maker/docker-rag/pkg/benchreport"
)

// Executor performs one timed extraction measurement. Every call resolves to
// a record, success or tagged failure; no error escapes.
type Executor interface {
	Execute(ctx context.Context, inputPath, strategy string) benchreport.MeasurementRecord
}

// PageCounter reports a PDF's page count. Satisfied by sampler.Sampler.
type PageCounter interface {
	PageCount(path string) (int, error)
}

// ExecutorOptions configures per-measurement behavior.
type ExecutorOptions struct {
	// Timeout bounds one blocking extraction call. On expiry the record's
	// elapsed time is reported as exactly this value.
	Timeout      time.Duration
	OCRLanguages string

	// SaveRaw persists raw response bodies under RawDir for offline
	// inspection; a failed write never fails the measurement.
	SaveRaw bool
	RawDir  string
}

// HTTPExecutor measures extraction requests against a live service.
type HTTPExecutor struct {
	client *unstructured.Client
	pages  PageCounter
	logger *slog.Logger
	opts   ExecutorOptions
}

func NewHTTPExecutor(client *unstructured.Client, pages PageCounter, logger *slog.Logger, opts ExecutorOptions) *HTTPExecutor {
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Hour
	}
	if opts.RawDir == "" {
		opts.RawDir = "responses"
	}
	return &HTTPExecutor{client: client, pages: pages, logger: logger, opts: opts}
}

// Execute uploads the input under the given strategy, measures the wall-clock
// delta around the call, and normalizes the outcome into a write-once record.
func (e *HTTPExecutor) Execute(ctx context.Context, inputPath, strategy string) benchreport.MeasurementRecord {
	rec := benchreport.MeasurementRecord{
		Filename:       filepath.Base(inputPath),
		Filepath:       inputPath,
		Strategy:       strategy,
		OCRLanguages:   e.opts.OCRLanguages,
		TimestampStart: time.Now(),
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		return e.fail(&rec, benchreport.FailureInputNotFound, "", 0)
	}
	rec.SizeBytes = info.Size()
	rec.SizeMB = benchreport.MBFromBytes(info.Size())
	if n, perr := e.pages.PageCount(inputPath); perr == nil {
		rec.Pages = lo.ToPtr(n)
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return e.fail(&rec, benchreport.FailureInputNotFound, err.Error(), 0)
	}
	defer f.Close()

	e.logger.Info("measuring extraction",
		"file", rec.Filename,
		"size_mb", fmt.Sprintf("%.2f", rec.SizeMB),
		"strategy", strategy,
		"ocr_languages", e.opts.OCRLanguages,
	)

	cctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := e.client.Extract(cctx, unstructured.ExtractRequest{
		File:         f,
		Filename:     rec.Filename,
		Strategy:     strategy,
		OCRLanguages: e.opts.OCRLanguages,
	})
	elapsed := time.Since(start).Seconds()

	if err != nil {
		if isTimeout(err) {
			// The request was cut off at the deadline; report the
			// configured bound, not client-side teardown time.
			return e.fail(&rec, benchreport.FailureTimeout, "", e.opts.Timeout.Seconds())
		}
		return e.fail(&rec, benchreport.FailureTransport, err.Error(), elapsed)
	}

	rec.StatusCode = resp.StatusCode
	if e.opts.SaveRaw {
		e.saveRaw(inputPath, strategy, start, resp.Body)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return e.fail(&rec, benchreport.HTTPFailure(resp.StatusCode), string(resp.Body), elapsed)
	}

	rec.Success = true
	rec.ElementsCount = unstructured.CountElements(resp.Body)
	rec.TimestampEnd = time.Now()
	rec.SetElapsed(elapsed)
	rec.FillRates()

	e.logger.Info("extraction succeeded",
		"file", rec.Filename,
		"strategy", strategy,
		"elapsed_min", fmt.Sprintf("%.2f", rec.Minutes),
		"elements", rec.ElementsCount,
		"mb_per_min", fmt.Sprintf("%.3f", rec.SpeedMBPerMinute),
	)
	return rec
}

func (e *HTTPExecutor) fail(rec *benchreport.MeasurementRecord, kind, snippet string, elapsed float64) benchreport.MeasurementRecord {
	rec.Error = kind
	rec.ResponseSnippet = benchreport.Truncate(snippet)
	rec.TimestampEnd = time.Now()
	rec.SetElapsed(elapsed)
	e.logger.Error("extraction failed",
		"file", rec.Filename,
		"strategy", rec.Strategy,
		"kind", kind,
		"elapsed_min", fmt.Sprintf("%.2f", rec.Minutes),
	)
	return *rec
}

// saveRaw is best effort; its failure is logged and swallowed by contract.
func (e *HTTPExecutor) saveRaw(inputPath, strategy string, start time.Time, body []byte) {
	if err := os.MkdirAll(e.opts.RawDir, 0o755); err != nil {
		e.logger.Warn("save raw response failed", "error", err)
		return
	}
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	path := filepath.Join(e.opts.RawDir, fmt.Sprintf("%s_%s_%d.json", stem, strategy, start.Unix()))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		e.logger.Warn("save raw response failed", "path", path, "error", err)
		return
	}
	e.logger.Info("saved raw response", "path", path)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

var _ Executor = (*HTTPExecutor)(nil)
