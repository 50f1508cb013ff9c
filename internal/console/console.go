// Package console renders benchmark progress and reports to a terminal.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DFFM-maker/docker-rag/pkg/benchreport"
)

const headerWidth = 78

type styles struct {
	header  lipgloss.Style
	label   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	errText lipgloss.Style
	accent  lipgloss.Style
	dim     lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain, plain}
	}
	return styles{
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		errText: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		dim:     lipgloss.NewStyle().Faint(true),
	}
}

// Printer writes styled output. Color is an explicit constructor choice, not
// process-global state, so two printers with different settings can coexist.
type Printer struct {
	out    io.Writer
	styles styles
}

func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{out: out, styles: newStyles(color)}
}

func (p *Printer) Header(text string) {
	bar := strings.Repeat("=", headerWidth)
	fmt.Fprintf(p.out, "\n%s\n%s\n%s\n\n",
		p.styles.header.Render(bar),
		p.styles.header.Render(center(text, headerWidth)),
		p.styles.header.Render(bar),
	)
}

func (p *Printer) Info(label string, value any) {
	fmt.Fprintf(p.out, "%s %v\n", p.styles.label.Render(fmt.Sprintf("%-32s", label)), value)
}

func (p *Printer) Successln(text string) {
	fmt.Fprintln(p.out, p.styles.success.Render(text))
}

func (p *Printer) Warnln(text string) {
	fmt.Fprintln(p.out, p.styles.warning.Render(text))
}

func (p *Printer) Errorln(text string) {
	fmt.Fprintln(p.out, p.styles.errText.Render(text))
}

// Projection renders the estimator outcome, which lives outside the batch.
func (p *Printer) Projection(pr *benchreport.ProjectionResult) {
	p.Header(fmt.Sprintf("Estimator: first %d pages -> full document", pr.SamplePages))
	p.Info("Pages (total):", pr.TotalPages)
	p.Info("Time/page (s):", fmt.Sprintf("%.2f", pr.TimePerPageSeconds))
	p.Info("Estimated total (min):", fmt.Sprintf("%.2f", pr.EstimatedTotalMinutes))
	p.Info("Estimated total (hours):", fmt.Sprintf("%.2f", pr.EstimatedTotalHours))
	p.Info("Sample file:", pr.SampleFile)
}

// Unreachable reports the whole-run abort: the probe exhausted its attempts,
// so zero measurements were taken. Distinct from a batch where every
// extraction failed.
func (p *Printer) Unreachable(baseURL string) {
	p.Errorln(fmt.Sprintf("Service unreachable at %s - no measurements taken", baseURL))
}

// FinalReport renders the batch summary and per-record detail lines.
func (p *Printer) FinalReport(records []benchreport.MeasurementRecord, s benchreport.BatchSummary) {
	if len(records) == 0 {
		p.Errorln("No results to report")
		return
	}

	p.Header("FINAL BENCHMARK REPORT")
	p.Info("Total tests:", s.TotalRuns)
	p.Info("Successful:", fmt.Sprintf("%d (%.0f%%)", s.Successful, s.SuccessRate))
	p.Info("Failed:", s.Failed)

	if s.Speed == nil {
		p.Warnln("No successful extractions - nothing to aggregate")
		return
	}

	p.Info("Total size (MB):", fmt.Sprintf("%.2f", s.TotalMB))
	if s.TotalPages > 0 {
		p.Info("Total pages:", s.TotalPages)
	}
	p.Info("Aggregate MB/s:", fmt.Sprintf("%.5f", s.AggregateMBPerSecond))
	p.Info("Aggregate MB/min:", fmt.Sprintf("%.2f", s.AggregateMBPerMinute))
	if s.AggregatePagesPerMin != nil {
		p.Info("Aggregate pages/min:", fmt.Sprintf("%.2f", *s.AggregatePagesPerMin))
	}

	rule := p.styles.dim.Render(strings.Repeat("-", 110))
	fmt.Fprintf(p.out, "\nDetailed results:\n%s\n", rule)
	for _, r := range records {
		if !r.Success {
			fmt.Fprintf(p.out, "  %s\n%s\n", p.styles.errText.Render(failureLine(r)), rule)
			continue
		}
		fmt.Fprintf(p.out, "  %s\n%s\n", recordLine(r), rule)
	}

	p.Info("Average MB/min:", fmt.Sprintf("%.3f", s.Speed.AvgMBPerMinute))
	p.Info("Max MB/min:", fmt.Sprintf("%.3f", s.Speed.MaxMBPerMinute))
	p.Info("Min MB/min:", fmt.Sprintf("%.3f", s.Speed.MinMBPerMinute))
	p.Info("Daily capacity (GB/day, 24/7):", fmt.Sprintf("%.2f", s.Speed.DailyCapacityGB))
}

func recordLine(r benchreport.MeasurementRecord) string {
	parts := []string{
		"File: " + r.Filename,
		fmt.Sprintf("%.2f MB", r.SizeMB),
		"Strategy: " + r.Strategy,
		fmt.Sprintf("Time: %.3f min", r.Minutes),
		fmt.Sprintf("MB/min: %.3f", r.SpeedMBPerMinute),
	}
	if r.Pages != nil {
		parts = append(parts, fmt.Sprintf("Pages: %d", *r.Pages))
		if r.PagesPerMinute != nil {
			parts = append(parts, fmt.Sprintf("P/min: %.3f", *r.PagesPerMinute))
		}
	}
	return strings.Join(parts, " | ")
}

func failureLine(r benchreport.MeasurementRecord) string {
	return strings.Join([]string{
		"File: " + r.Filename,
		"Strategy: " + r.Strategy,
		"FAILED: " + r.Error,
	}, " | ")
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s
}
