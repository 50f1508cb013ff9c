package benchreport

import "github.com/samber/lo"

const minutesPerDay = 60 * 24

// SpeedStats holds the per-record speed extremes over successful runs and
// the projected sustained capacity. Present on a BatchSummary only when at
// least one run succeeded.
type SpeedStats struct {
	AvgMBPerMinute float64 `json:"avg_mb_per_minute"`
	MinMBPerMinute float64 `json:"min_mb_per_minute"`
	MaxMBPerMinute float64 `json:"max_mb_per_minute"`
	// DailyCapacityGB extrapolates the average rate to 24/7 operation.
	DailyCapacityGB float64 `json:"daily_capacity_gb"`
}

// BatchSummary aggregates a completed batch of measurement records. It is
// built once, after the sweep finishes, and never mutated.
type BatchSummary struct {
	TotalRuns   int     `json:"total_runs"`
	Successful  int     `json:"successful"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate_percent"`

	// Totals and aggregate rates over successful runs only. Zero values
	// when nothing succeeded; Speed is nil in that case rather than a
	// block of synthesized zeros.
	TotalMB              float64  `json:"total_mb"`
	TotalPages           int      `json:"total_pages"`
	TotalSeconds         float64  `json:"total_seconds"`
	AggregateMBPerSecond float64  `json:"aggregate_mb_per_second"`
	AggregateMBPerMinute float64  `json:"aggregate_mb_per_minute"`
	AggregatePagesPerMin *float64 `json:"aggregate_pages_per_minute,omitempty"`

	Speed *SpeedStats `json:"speed,omitempty"`
}

// Summarize reduces a batch to its summary statistics. It is a pure function
// over the record list and is total: any list, including an empty one or one
// with zero successes, yields a usable summary.
func Summarize(records []MeasurementRecord) BatchSummary {
	ok := lo.Filter(records, func(r MeasurementRecord, _ int) bool { return r.Success })

	s := BatchSummary{
		TotalRuns:  len(records),
		Successful: len(ok),
		Failed:     len(records) - len(ok),
	}
	if s.TotalRuns > 0 {
		s.SuccessRate = float64(s.Successful) / float64(s.TotalRuns) * 100
	}
	if len(ok) == 0 {
		return s
	}

	s.TotalMB = lo.SumBy(ok, func(r MeasurementRecord) float64 { return r.SizeMB })
	s.TotalSeconds = lo.SumBy(ok, func(r MeasurementRecord) float64 { return r.Seconds })
	s.TotalPages = lo.SumBy(ok, func(r MeasurementRecord) int {
		if r.Pages != nil {
			return *r.Pages
		}
		return 0
	})

	if s.TotalSeconds > 0 {
		s.AggregateMBPerSecond = s.TotalMB / s.TotalSeconds
		s.AggregateMBPerMinute = s.AggregateMBPerSecond * 60
		if s.TotalPages > 0 {
			s.AggregatePagesPerMin = lo.ToPtr(float64(s.TotalPages) / s.TotalSeconds * 60)
		}
	}

	speeds := lo.Map(ok, func(r MeasurementRecord, _ int) float64 { return r.SpeedMBPerMinute })
	avg := lo.Sum(speeds) / float64(len(speeds))
	s.Speed = &SpeedStats{
		AvgMBPerMinute:  avg,
		MinMBPerMinute:  lo.Min(speeds),
		MaxMBPerMinute:  lo.Max(speeds),
		DailyCapacityGB: avg * minutesPerDay / 1024,
	}
	return s
}
