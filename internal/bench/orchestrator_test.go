package bench

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DFFM-maker/docker-rag/pkg/benchreport"
)

type stubProber struct {
	ready bool
	calls int
}

func (p *stubProber) WaitUntilReady(context.Context, int, time.Duration) bool {
	p.calls++
	return p.ready
}

type recordingExecutor struct {
	calls []struct{ input, strategy string }
}

func (e *recordingExecutor) Execute(_ context.Context, input, strategy string) benchreport.MeasurementRecord {
	e.calls = append(e.calls, struct{ input, strategy string }{input, strategy})
	return benchreport.MeasurementRecord{Filename: input, Strategy: strategy, Success: true}
}

type stubProjection struct {
	res   *benchreport.ProjectionResult
	calls []struct {
		input, strategy string
		samplePages     int
	}
}

func (p *stubProjection) Project(_ context.Context, input, strategy string, samplePages int) *benchreport.ProjectionResult {
	p.calls = append(p.calls, struct {
		input, strategy string
		samplePages     int
	}{input, strategy, samplePages})
	return p.res
}

func TestRunSweepOrderIsDeterministic(t *testing.T) {
	exec := &recordingExecutor{}
	o := NewOrchestrator(&stubProber{ready: true}, exec, nil, discardLogger(), Options{})

	records, projection := o.Run(context.Background(), []string{"A", "B"}, []string{"s1", "s2"})

	assert.Nil(t, projection)
	require.Len(t, records, 4)
	want := []struct{ input, strategy string }{
		{"A", "s1"}, {"A", "s2"}, {"B", "s1"}, {"B", "s2"},
	}
	for i, w := range want {
		assert.Equal(t, w.input, records[i].Filename)
		assert.Equal(t, w.strategy, records[i].Strategy)
	}
	assert.Equal(t, want, exec.calls)
}

func TestRunAbortsWhenServiceNeverReady(t *testing.T) {
	exec := &recordingExecutor{}
	proj := &stubProjection{}
	o := NewOrchestrator(&stubProber{ready: false}, exec, proj, discardLogger(), Options{
		Warmup:      true,
		SamplePages: 10,
	})

	records, projection := o.Run(context.Background(), []string{"A", "B"}, []string{"s1"})

	assert.Empty(t, records)
	assert.Nil(t, projection)
	assert.Empty(t, exec.calls)
	assert.Empty(t, proj.calls)
}

func TestRunWarmupIsDiscardedFromBatch(t *testing.T) {
	exec := &recordingExecutor{}
	o := NewOrchestrator(&stubProber{ready: true}, exec, nil, discardLogger(), Options{Warmup: true})

	records, _ := o.Run(context.Background(), []string{"A"}, []string{"s1", "s2"})

	// 1 warm-up + 2 sweep calls, but only 2 records
	require.Len(t, exec.calls, 3)
	assert.Equal(t, "A", exec.calls[0].input)
	assert.Equal(t, "s1", exec.calls[0].strategy)
	assert.Len(t, records, 2)
}

func TestRunProjectionSurfacedSeparately(t *testing.T) {
	exec := &recordingExecutor{}
	proj := &stubProjection{res: &benchreport.ProjectionResult{SamplePages: 10, TotalPages: 100}}
	o := NewOrchestrator(&stubProber{ready: true}, exec, proj, discardLogger(), Options{SamplePages: 10})

	records, projection := o.Run(context.Background(), []string{"A"}, []string{"s1"})

	require.NotNil(t, projection)
	assert.Equal(t, 100, projection.TotalPages)
	require.Len(t, proj.calls, 1)
	assert.Equal(t, "A", proj.calls[0].input)
	assert.Equal(t, "s1", proj.calls[0].strategy)
	assert.Equal(t, 10, proj.calls[0].samplePages)
	// The sample measurement is not in the batch.
	assert.Len(t, records, 1)
}

func TestRunProjectionDisabledWhenSamplePagesZero(t *testing.T) {
	proj := &stubProjection{}
	o := NewOrchestrator(&stubProber{ready: true}, &recordingExecutor{}, proj, discardLogger(), Options{SamplePages: 0})

	o.Run(context.Background(), []string{"A"}, []string{"s1"})

	assert.Empty(t, proj.calls)
}

func TestRunEmptyInputsYieldEmptyBatch(t *testing.T) {
	exec := &recordingExecutor{}
	o := NewOrchestrator(&stubProber{ready: true}, exec, nil, discardLogger(), Options{})

	records, _ := o.Run(context.Background(), nil, []string{"s1"})

	assert.Empty(t, records)
	assert.Empty(t, exec.calls)
}

func TestRunFailuresAreRecordedAndSweepContinues(t *testing.T) {
	exec := &failingExecutor{failOn: "A"}
	o := NewOrchestrator(&stubProber{ready: true}, exec, nil, discardLogger(), Options{})

	records, _ := o.Run(context.Background(), []string{"A", "B"}, []string{"s1"})

	require.Len(t, records, 2)
	assert.False(t, records[0].Success)
	assert.Equal(t, benchreport.FailureTimeout, records[0].Error)
	assert.True(t, records[1].Success)
}

type failingExecutor struct {
	failOn string
}

func (e *failingExecutor) Execute(_ context.Context, input, strategy string) benchreport.MeasurementRecord {
	if input == e.failOn {
		return benchreport.MeasurementRecord{Filename: input, Strategy: strategy, Error: benchreport.FailureTimeout}
	}
	return benchreport.MeasurementRecord{Filename: input, Strategy: strategy, Success: true}
}
