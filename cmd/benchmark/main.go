// Command benchmark measures throughput and capacity of an Unstructured
// extraction API instance by timing document uploads under each configured
// strategy.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/DFFM-maker/docker-rag/internal/bench"
	"github.com/DFFM-maker/docker-rag/internal/config"
	"github.com/DFFM-maker/docker-rag/internal/console"
	"github.com/DFFM-maker/docker-rag/internal/notify"
	"github.com/DFFM-maker/docker-rag/internal/probe"
	"github.com/DFFM-maker/docker-rag/internal/sampler"
	"github.com/DFFM-maker/docker-rag/internal/unstructured"
	"github.com/DFFM-maker/docker-rag/pkg/benchreport"
)

var (
	flagConfig        string
	flagFiles         []string
	flagDir           string
	flagStrategies    []string
	flagAPIURL        string
	flagTimeout       int
	flagNoWarmup      bool
	flagOutput        string
	flagNoColor       bool
	flagSaveRaw       bool
	flagOCRLanguages  string
	flagEstimate      int
	flagTelegramToken string
	flagTelegramChat  string
)

var rootCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Benchmark the Unstructured extraction API",
	Long: `Submits PDF files to an Unstructured API instance under each configured
strategy, times every request, and reports throughput, capacity projections
and an optional leading-page time estimate for large documents.

Examples:
  benchmark --files data/w502.pdf --strategies hi_res --timeout 28800 --output w502_hi_res.json
  benchmark --dir ./data --no-warmup --save-raw
  benchmark --files big.pdf --estimate 10 --telegram-token "123:ABC" --telegram-chat "23383038"`,
	SilenceUsage: true,
	RunE:         runBenchmark,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flagConfig, "config", "", "optional YAML config file")
	f.StringSliceVar(&flagFiles, "files", nil, "PDF files to measure")
	f.StringVar(&flagDir, "dir", "", "directory to scan for *.pdf")
	f.StringSliceVar(&flagStrategies, "strategies", nil, "strategies to measure (default fast,hi_res)")
	f.StringVar(&flagAPIURL, "api-url", "", "base URL of the extraction API (default http://localhost:8000)")
	f.IntVar(&flagTimeout, "timeout", 0, "per-request timeout in seconds (default 7200)")
	f.BoolVar(&flagNoWarmup, "no-warmup", false, "skip the discarded warm-up run")
	f.StringVar(&flagOutput, "output", "", "JSON report path (default timestamped)")
	f.BoolVar(&flagNoColor, "no-color", false, "disable styled output")
	f.BoolVar(&flagSaveRaw, "save-raw", false, "persist raw response bodies under ./responses")
	f.StringVar(&flagOCRLanguages, "ocr-languages", "", "tesseract codes joined by + (default ita+eng)")
	f.IntVar(&flagEstimate, "estimate", -1, "leading pages for the time estimate, 0 disables (default 10)")
	f.StringVar(&flagTelegramToken, "telegram-token", "", "Telegram bot token (or env TELEGRAM_BOT_TOKEN)")
	f.StringVar(&flagTelegramChat, "telegram-chat", "", "Telegram chat ID (or env TELEGRAM_CHAT_ID)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBenchmark(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	cfg.ResolveTelegram(os.Getenv)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	printer := console.NewPrinter(os.Stdout, cfg.Color)

	inputs, err := collectFiles(flagFiles, flagDir)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return errors.New("no PDF files provided or found")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client := unstructured.NewClient(cfg.APIURL, &http.Client{}, logger)
	pdfSampler := sampler.NewPDFSampler(cfg.SamplesDir, logger)
	executor := bench.NewHTTPExecutor(client, pdfSampler, logger, bench.ExecutorOptions{
		Timeout:      time.Duration(cfg.TimeoutSeconds) * time.Second,
		OCRLanguages: cfg.OCRLanguages,
		SaveRaw:      cfg.SaveRaw,
		RawDir:       cfg.RawDir,
	})
	prober := probe.New(client, logger, secondsToDuration(cfg.Probe.TimeoutSeconds))
	projector := bench.NewProjector(pdfSampler, executor, logger)
	orch := bench.NewOrchestrator(prober, executor, projector, logger, bench.Options{
		ProbeAttempts: cfg.Probe.Attempts,
		ProbeInterval: secondsToDuration(cfg.Probe.IntervalSeconds),
		Warmup:        cfg.Warmup,
		SamplePages:   cfg.EstimatePages,
		Pacing:        secondsToDuration(cfg.PacingSeconds),
	})

	printer.Header("UNSTRUCTURED EXTRACTION BENCHMARK")
	printer.Info("API URL:", cfg.APIURL)
	printer.Info("Strategies:", strings.Join(cfg.Strategies, ", "))
	printer.Info("Files:", len(inputs))
	printer.Info("OCR languages:", cfg.OCRLanguages)

	records, projection := orch.Run(ctx, inputs, cfg.Strategies)
	if projection != nil {
		printer.Projection(projection)
	}
	if len(records) == 0 {
		// The probe never saw the service: zero measurements, as opposed
		// to a batch where every extraction failed.
		printer.Unreachable(cfg.APIURL)
		return nil
	}

	summary := benchreport.Summarize(records)
	printer.FinalReport(records, summary)

	reportPath, err := benchreport.WriteReport(records, cfg.Output)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	printer.Successln("Report saved: " + reportPath)

	if cfg.Telegram.Configured() {
		notifier := notify.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, logger)
		msg := notificationMessage(records, cfg.OCRLanguages, reportPath)
		if nerr := notifier.Notify(ctx, msg); nerr != nil {
			logger.Warn("telegram notification failed", "error", nerr)
		}
	} else {
		printer.Info("Telegram:", "credentials not configured, skipping notification")
	}
	return nil
}

// buildConfig resolves settings with precedence: flag, then config file, then
// defaults.
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}

	if len(flagStrategies) > 0 {
		cfg.Strategies = flagStrategies
	}
	if flagAPIURL != "" {
		cfg.APIURL = flagAPIURL
	}
	if flagTimeout > 0 {
		cfg.TimeoutSeconds = flagTimeout
	}
	if flagOCRLanguages != "" {
		cfg.OCRLanguages = flagOCRLanguages
	}
	if flagEstimate >= 0 {
		cfg.EstimatePages = flagEstimate
	}
	if flagOutput != "" {
		cfg.Output = flagOutput
	}
	if flagNoWarmup {
		cfg.Warmup = false
	}
	if flagSaveRaw {
		cfg.SaveRaw = true
	}
	if flagNoColor {
		cfg.Color = false
	}
	if flagTelegramToken != "" {
		cfg.Telegram.Token = flagTelegramToken
	}
	if flagTelegramChat != "" {
		cfg.Telegram.ChatID = flagTelegramChat
	}
	return cfg, nil
}

// collectFiles merges the explicit list with a directory scan, keeping only
// existing .pdf files, deduplicated and sorted.
func collectFiles(files []string, dir string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, f := range files {
		if !strings.EqualFold(filepath.Ext(f), ".pdf") {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			continue
		}
		add(f)
	}

	if dir != "" {
		matches, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(out)
	return out, nil
}

func notificationMessage(records []benchreport.MeasurementRecord, ocrLanguages, reportPath string) string {
	last := records[len(records)-1]
	return fmt.Sprintf(
		"Benchmark finished.\nTests run: %d\nLast file: %s\nStrategy: %s\nOCR: %s\nLast duration: %.2f min\nReport: %s",
		len(records), last.Filename, last.Strategy, ocrLanguages, last.Minutes, reportPath,
	)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
