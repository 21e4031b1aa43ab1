// Command report builds the storm impact tables from a StormData CSV and
// prints them to stdout, as aligned text or JSON.
//
// Usage:
//
//	go run ./cmd/report \
//	  -csv data/StormData.csv.bz2 \
//	  -top-n 9 \
//	  -damage-by combined_damage \
//	  -format text
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/couchcryptid/storm-impact-report/internal/adapter/csvsource"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
	"github.com/couchcryptid/storm-impact-report/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "path to the StormData CSV (.csv or .csv.bz2)")
	topN := flag.Int("top-n", domain.DefaultTopN, "named categories per table before OTHERS")
	damageBy := flag.String("damage-by", string(domain.CombinedDamage), "damage ranking measure: property_damage, crop_damage, or combined_damage")
	format := flag.String("format", "text", "output format: text or json")
	verbose := flag.Bool("v", false, "log malformed fields to stderr")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -csv")
	}
	if *format != "text" && *format != "json" {
		return fmt.Errorf("unknown -format %q", *format)
	}
	damageKey, err := domain.ParseMeasure(*damageBy)
	if err != nil {
		return err
	}

	// stdout carries the report, so logs go to stderr.
	level := slog.LevelError
	if *verbose {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(
		csvsource.NewReader(*csvPath, logger),
		pipeline.NewTransformer(logger, metrics),
		nil,
		logger,
		metrics,
		domain.ReportOptions{TopN: *topN, DamageKey: damageKey},
	)

	report, err := p.Run(context.Background())
	if err != nil {
		return err
	}
	return write(os.Stdout, report, *format)
}

func write(w io.Writer, report domain.Report, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return renderText(w, report)
}
