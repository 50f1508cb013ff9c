package benchreport

import (
	"strconv"
	"time"

	"github.com/samber/lo"
)

// SnippetLimit caps the diagnostic body snippet stored on failure records.
const SnippetLimit = 600

const bytesPerMB = 1024 * 1024

// Failure kind tags recorded on unsuccessful measurements. Protocol failures
// use "HTTP <code>" instead (see HTTPFailure).
const (
	FailureInputNotFound = "input not found"
	FailureTimeout       = "timeout"
	FailureTransport     = "transport error"
)

// MeasurementRecord is the unit of observation: one timed extraction request
// against the target service. A record is written once, when the request
// completes, and only read afterwards (aggregation, report, console).
type MeasurementRecord struct {
	Filename     string `json:"filename"`
	Filepath     string `json:"filepath"`
	Strategy     string `json:"strategy"`
	OCRLanguages string `json:"ocr_languages"`

	SizeBytes int64   `json:"size_bytes"`
	SizeMB    float64 `json:"size_mb"`
	// Pages is nil when the page count could not be determined.
	Pages *int `json:"pages,omitempty"`

	// Elapsed wall-clock time, measured as a monotonic delta around the
	// request. Authoritative regardless of how response parsing went.
	Seconds float64 `json:"processing_time_seconds"`
	Minutes float64 `json:"processing_time_minutes"`
	Hours   float64 `json:"processing_time_hours"`

	ElementsCount int `json:"elements_count"`

	SpeedMBPerSecond float64  `json:"speed_mb_per_second"`
	SpeedMBPerMinute float64  `json:"speed_mb_per_minute"`
	SpeedMBPerHour   float64  `json:"speed_mb_per_hour"`
	PagesPerMinute   *float64 `json:"pages_per_minute,omitempty"`
	PagesPerHour     *float64 `json:"pages_per_hour,omitempty"`

	Success         bool   `json:"success"`
	StatusCode      int    `json:"status_code,omitempty"`
	Error           string `json:"error,omitempty"`
	ResponseSnippet string `json:"response_snippet,omitempty"`

	// Absolute timestamps kept for traceability only; rates derive from
	// Seconds, never from these.
	TimestampStart time.Time `json:"timestamp_start"`
	TimestampEnd   time.Time `json:"timestamp_end"`
}

// ProjectionResult is the outcome of the sample-based estimator: a linear
// extrapolation from a leading-page sample measurement to the full document.
type ProjectionResult struct {
	SamplePages           int     `json:"sample_pages"`
	TotalPages            int     `json:"total_pages"`
	TimePerPageSeconds    float64 `json:"time_per_page_seconds"`
	EstimatedTotalSeconds float64 `json:"estimated_total_seconds"`
	EstimatedTotalMinutes float64 `json:"estimated_total_minutes"`
	EstimatedTotalHours   float64 `json:"estimated_total_hours"`
	Strategy              string  `json:"strategy"`
	OCRLanguages          string  `json:"ocr_languages"`
	SampleFile            string  `json:"sample_file"`
}

// MBFromBytes converts a byte size to megabytes.
func MBFromBytes(b int64) float64 {
	return float64(b) / bytesPerMB
}

// HTTPFailure returns the failure kind tag for a non-success status code.
func HTTPFailure(statusCode int) string {
	return "HTTP " + strconv.Itoa(statusCode)
}

// Truncate bounds s to SnippetLimit bytes for diagnostic storage.
func Truncate(s string) string {
	if len(s) <= SnippetLimit {
		return s
	}
	return s[:SnippetLimit]
}

// SetElapsed records the measured wall-clock delta. Minutes and hours are
// always derived from seconds so the three values never disagree. Negative
// deltas clamp to zero.
func (r *MeasurementRecord) SetElapsed(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	r.Seconds = seconds
	r.Minutes = seconds / 60
	r.Hours = seconds / 3600
}

// FillRates derives the speed fields from size, elapsed time and page count.
// With zero elapsed time every rate is 0, never NaN or Inf; the page rates
// additionally require a known page count. Minute and hour rates are the
// per-second rate times 60 and 3600, keeping unit conversions exact.
func (r *MeasurementRecord) FillRates() {
	if r.Seconds <= 0 {
		r.SpeedMBPerSecond = 0
		r.SpeedMBPerMinute = 0
		r.SpeedMBPerHour = 0
		r.PagesPerMinute = nil
		r.PagesPerHour = nil
		return
	}
	r.SpeedMBPerSecond = r.SizeMB / r.Seconds
	r.SpeedMBPerMinute = r.SpeedMBPerSecond * 60
	r.SpeedMBPerHour = r.SpeedMBPerMinute * 60
	if r.Pages != nil {
		perMin := float64(*r.Pages) / r.Seconds * 60
		r.PagesPerMinute = lo.ToPtr(perMin)
		r.PagesPerHour = lo.ToPtr(perMin * 60)
	}
}
