package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
)

// RecordSource supplies the full raw record set for one run.
type RecordSource interface {
	ReadRecords(ctx context.Context) ([]domain.RawRecord, error)
}

// Transformer converts raw rows into event records.
type Transformer interface {
	Transform(raws []domain.RawRecord) []domain.EventRecord
}

// ReportPublisher hands a finished report to an external consumer.
type ReportPublisher interface {
	Publish(ctx context.Context, report domain.Report) error
}

// Pipeline orchestrates the extract-aggregate-rank-publish run.
type Pipeline struct {
	source      RecordSource
	transformer Transformer
	publisher   ReportPublisher
	logger      *slog.Logger
	metrics     *observability.Metrics
	opts        domain.ReportOptions
	latest      atomic.Pointer[domain.Report]
}

// New creates a Pipeline with the given stages and observability. publisher
// may be nil to skip publishing.
func New(s RecordSource, t Transformer, p ReportPublisher, logger *slog.Logger, metrics *observability.Metrics, opts domain.ReportOptions) *Pipeline {
	return &Pipeline{
		source:      s,
		transformer: t,
		publisher:   p,
		logger:      logger,
		metrics:     metrics,
		opts:        opts,
	}
}

// CheckReadiness returns nil once a report has been built, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.latest.Load() == nil {
		return errors.New("no report has been built yet")
	}
	return nil
}

// Latest returns the most recent report, if any.
func (p *Pipeline) Latest() (domain.Report, bool) {
	r := p.latest.Load()
	if r == nil {
		return domain.Report{}, false
	}
	return *r, true
}

// Run executes one full pass over the source and returns the report. A
// publish failure is returned as an error, but the report is still stored
// and served.
func (p *Pipeline) Run(ctx context.Context) (domain.Report, error) {
	start := time.Now()
	p.logger.Info("pipeline started", "top_n", p.opts.TopN, "damage_key", p.opts.DamageKey)
	p.metrics.PipelineRunning.Set(1)
	defer func() {
		p.metrics.PipelineRunning.Set(0)
		p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	raws, err := p.source.ReadRecords(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("extract: %w", err)
	}
	p.metrics.RecordsRead.Add(float64(len(raws)))

	records := p.transformer.Transform(raws)

	report, err := domain.BuildReport(records, p.opts)
	if err != nil {
		return domain.Report{}, fmt.Errorf("build report: %w", err)
	}
	p.metrics.Categories.WithLabelValues(domain.TableFatalities).Set(float64(len(report.Fatalities)))
	p.metrics.Categories.WithLabelValues(domain.TableInjuries).Set(float64(len(report.Injuries)))
	p.metrics.Categories.WithLabelValues(domain.TableDamage).Set(float64(len(report.Damage)))
	p.latest.Store(&report)

	p.logger.Info("report built",
		"records", report.RecordCount,
		"top_fatalities", leader(report.Fatalities),
		"top_injuries", leader(report.Injuries),
		"top_damage", damageLeader(report.Damage),
	)

	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, report); err != nil {
			p.metrics.PublishErrors.Inc()
			return report, fmt.Errorf("publish report: %w", err)
		}
		p.metrics.ReportsPublished.Inc()
	}

	p.logger.Info("pipeline finished", "duration", time.Since(start))
	return report, nil
}

// leader returns the top event type of a table, or "" when only OTHERS exists.
func leader(rows []domain.HealthRow) string {
	if len(rows) < 2 {
		return ""
	}
	return rows[0].EventType
}

func damageLeader(rows []domain.DamageRow) string {
	if len(rows) < 2 {
		return ""
	}
	return rows[0].EventType
}
