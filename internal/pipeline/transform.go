package pipeline

import (
	"log/slog"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
)

// RecordTransformer implements Transformer using domain.ParseRecord, logging
// and counting every malformed cell it recovers from.
type RecordTransformer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a RecordTransformer.
func NewTransformer(logger *slog.Logger, metrics *observability.Metrics) *RecordTransformer {
	return &RecordTransformer{logger: logger, metrics: metrics}
}

func (t *RecordTransformer) Transform(raws []domain.RawRecord) []domain.EventRecord {
	out := make([]domain.EventRecord, len(raws))
	malformed := 0
	for i, raw := range raws {
		rec, errs := domain.ParseRecord(raw)
		for _, fe := range errs {
			t.logger.Warn("malformed field, counting as zero",
				"event_type", fe.EventType,
				"field", fe.Field,
				"value", fe.Value,
				"refnum", fe.RefNum,
			)
			t.metrics.MalformedFields.WithLabelValues(fe.Field).Inc()
		}
		malformed += len(errs)
		out[i] = rec
	}
	if malformed > 0 {
		t.logger.Info("records parsed with recovered fields", "records", len(raws), "malformed_fields", malformed)
	}
	return out
}
