package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
	"github.com/couchcryptid/storm-impact-report/internal/pipeline"
)

// --- mocks ---

type mockSource struct {
	records []domain.RawRecord
	err     error
}

func (m *mockSource) ReadRecords(_ context.Context) ([]domain.RawRecord, error) {
	return m.records, m.err
}

type mockPublisher struct {
	published []domain.Report
	err       error
}

func (m *mockPublisher) Publish(_ context.Context, report domain.Report) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, report)
	return nil
}

// The HTTP readiness probe consumes the pipeline directly.
var _ sharedobs.ReadinessChecker = (*pipeline.Pipeline)(nil)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPipeline(src pipeline.RecordSource, pub pipeline.ReportPublisher, metrics *observability.Metrics, topN int) *pipeline.Pipeline {
	tfm := pipeline.NewTransformer(discardLogger(), metrics)
	return pipeline.New(src, tfm, pub, discardLogger(), metrics, domain.ReportOptions{TopN: topN})
}

func sampleRaws() []domain.RawRecord {
	return []domain.RawRecord{
		{RefNum: "1", EventType: "A", Fatalities: "3", Injuries: "1", PropDmg: "2", PropDmgExp: "K"},
		{RefNum: "2", EventType: "B", Fatalities: "10", Injuries: "0", PropDmg: "1", PropDmgExp: "M"},
		{RefNum: "3", EventType: "C", Fatalities: "1", Injuries: "5", CropDmg: "4", CropDmgExp: "h"},
		{RefNum: "4", EventType: "C", Fatalities: "oops", Injuries: "2"},
	}
}

func runsObserved(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, h.Write(&m))
	return m.GetHistogram().GetSampleCount()
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	fixed := time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { domain.SetClock(nil) })

	pub := &mockPublisher{}
	metrics := observability.NewMetricsForTesting()
	p := newPipeline(&mockSource{records: sampleRaws()}, pub, metrics, 1)

	require.Error(t, p.CheckReadiness(context.Background()))

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	wantFatalities := []domain.HealthRow{
		{EventType: "B", Total: 10},
		{EventType: domain.OthersCategory, Total: 4},
	}
	if diff := cmp.Diff(wantFatalities, report.Fatalities); diff != "" {
		t.Fatalf("fatalities mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "C", report.Injuries[0].EventType)
	assert.Equal(t, 7.0, report.Injuries[0].Total)
	assert.Equal(t, "B", report.Damage[0].EventType)
	assert.Equal(t, fixed, report.GeneratedAt)
	assert.Equal(t, 4, report.RecordCount)

	require.Len(t, pub.published, 1)
	assert.Equal(t, report, pub.published[0])

	require.NoError(t, p.CheckReadiness(context.Background()))
	latest, ok := p.Latest()
	require.True(t, ok)
	assert.Equal(t, report, latest)

	assert.InDelta(t, 4.0, testutil.ToFloat64(metrics.RecordsRead), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.MalformedFields.WithLabelValues("FATALITIES")), 1e-9)
	assert.InDelta(t, 2.0, testutil.ToFloat64(metrics.Categories.WithLabelValues(domain.TableDamage)), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.ReportsPublished), 1e-9)
	assert.InDelta(t, 0.0, testutil.ToFloat64(metrics.PipelineRunning), 1e-9)
	assert.Equal(t, uint64(1), runsObserved(t, metrics.RunDuration))
}

func TestPipeline_Run_NilPublisher(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	p := newPipeline(&mockSource{records: sampleRaws()}, nil, metrics, 9)

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Fatalities, 4) // three categories + OTHERS
	assert.InDelta(t, 0.0, testutil.ToFloat64(metrics.ReportsPublished), 1e-9)
}

func TestPipeline_Run_SourceError(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	p := newPipeline(&mockSource{err: errors.New("disk on fire")}, &mockPublisher{}, metrics, 9)

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract")
	assert.Contains(t, err.Error(), "disk on fire")

	_, ok := p.Latest()
	assert.False(t, ok)
	assert.Error(t, p.CheckReadiness(context.Background()))
	assert.Equal(t, uint64(1), runsObserved(t, metrics.RunDuration))
	assert.InDelta(t, 0.0, testutil.ToFloat64(metrics.PipelineRunning), 1e-9)
}

func TestPipeline_Run_InvalidTopN(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	p := newPipeline(&mockSource{records: sampleRaws()}, &mockPublisher{}, metrics, -2)

	_, err := p.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "build report")
	assert.Equal(t, uint64(1), runsObserved(t, metrics.RunDuration))
}

func TestPipeline_Run_PublishErrorKeepsReport(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	pub := &mockPublisher{err: errors.New("broker unavailable")}
	p := newPipeline(&mockSource{records: sampleRaws()}, pub, metrics, 2)

	report, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish report")
	assert.Len(t, report.Fatalities, 3)

	require.NoError(t, p.CheckReadiness(context.Background()))
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.PublishErrors), 1e-9)
	assert.Equal(t, uint64(1), runsObserved(t, metrics.RunDuration))
}

func TestPipeline_Run_Idempotent(t *testing.T) {
	fixed := time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { domain.SetClock(nil) })

	src := &mockSource{records: sampleRaws()}
	first, err := newPipeline(src, nil, observability.NewMetricsForTesting(), 2).Run(context.Background())
	require.NoError(t, err)
	second, err := newPipeline(src, nil, observability.NewMetricsForTesting(), 2).Run(context.Background())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("reports differ between runs (-first +second):\n%s", diff)
	}
}

func TestRecordTransformer_Transform(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	tfm := pipeline.NewTransformer(discardLogger(), metrics)

	records := tfm.Transform([]domain.RawRecord{
		{EventType: "FLOOD", PropDmg: "abc", CropDmg: "1.5", CropDmgExp: "M"},
		{EventType: "HAIL", Injuries: "2"},
	})

	require.Len(t, records, 2)
	assert.Equal(t, 0.0, records[0].PropertyDamageCoefficient)
	assert.Equal(t, 1.5e6, records[0].CropDamage())
	assert.Equal(t, 2.0, records[1].Injuries)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.MalformedFields.WithLabelValues("PROPDMG")), 1e-9)
}
