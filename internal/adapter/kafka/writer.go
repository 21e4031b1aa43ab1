package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/storm-impact-report/internal/config"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// TableMessage is the JSON payload of one published report table.
type TableMessage struct {
	Table       string    `json:"table"`
	TopN        int       `json:"top_n"`
	RankedBy    string    `json:"ranked_by"`
	RecordCount int       `json:"record_count"`
	GeneratedAt time.Time `json:"generated_at"`
	Rows        any       `json:"rows"`
}

// Writer produces report tables to a Kafka topic, one message per table.
// It implements pipeline.ReportPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured report topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaReportTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes the fatalities, injuries, and damage tables in a single
// WriteMessages call. Messages are keyed by table name so a compacted topic
// keeps the latest report per table.
func (w *Writer) Publish(ctx context.Context, report domain.Report) error {
	msgs, err := reportMessages(report)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write report messages: %w", err)
	}
	w.logger.Info("report published", "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

// Close flushes pending messages and releases the producer's connections.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// reportMessages serializes each report table into a Kafka message.
func reportMessages(report domain.Report) ([]kafkago.Message, error) {
	tables := []struct {
		name     string
		rankedBy domain.Measure
		rows     any
	}{
		{domain.TableFatalities, domain.Fatalities, report.Fatalities},
		{domain.TableInjuries, domain.Injuries, report.Injuries},
		{domain.TableDamage, report.DamageRankedBy, report.Damage},
	}

	generatedAt := report.GeneratedAt.UTC().Format(time.RFC3339)
	msgs := make([]kafkago.Message, 0, len(tables))
	for _, t := range tables {
		data, err := json.Marshal(TableMessage{
			Table:       t.name,
			TopN:        report.TopN,
			RankedBy:    string(t.rankedBy),
			RecordCount: report.RecordCount,
			GeneratedAt: report.GeneratedAt,
			Rows:        t.rows,
		})
		if err != nil {
			return nil, fmt.Errorf("serialize %s table: %w", t.name, err)
		}
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(t.name),
			Value: data,
			Headers: []kafkago.Header{
				{Key: "table", Value: []byte(t.name)},
				{Key: "top_n", Value: []byte(strconv.Itoa(report.TopN))},
				{Key: "generated_at", Value: []byte(generatedAt)},
			},
		})
	}
	return msgs, nil
}
