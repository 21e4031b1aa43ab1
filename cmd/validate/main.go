// Command validate re-derives the category totals from a StormData CSV and
// checks a saved report JSON against them: table shape, ordering, OTHERS
// conservation, and that every named row matches its recomputed total.
//
// Usage:
//
//	go run ./cmd/report -csv data/StormData.csv.bz2 -format json > report.json
//	go run ./cmd/validate -csv data/StormData.csv.bz2 -report report.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/storm-impact-report/internal/adapter/csvsource"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to the StormData CSV the report was built from")
	reportPath := flag.String("report", "", "path to a report JSON produced by cmd/report -format json")
	flag.Parse()

	if *csvPath == "" || *reportPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath, *reportPath); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath, reportPath string) int {
	fmt.Println("=== Storm Impact Report Validation ===")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	raws, err := csvsource.NewReader(csvPath, logger).ReadRecords(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load source CSV: %v\n", err)
		return 1
	}
	records := make([]domain.EventRecord, len(raws))
	malformed := 0
	for i, raw := range raws {
		rec, errs := domain.ParseRecord(raw)
		records[i] = rec
		malformed += len(errs)
	}

	report, err := loadReport(reportPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load report JSON: %v\n", err)
		return 1
	}

	totals, err := domain.Aggregate(records, domain.Fatalities, domain.Injuries, domain.CombinedDamage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: aggregate: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateShape(report, len(totals), len(records)),
		validateHealthTable("Phase 2: Fatalities table", domain.Fatalities, report.Fatalities, report.TopN, totals),
		validateHealthTable("Phase 3: Injuries table", domain.Injuries, report.Injuries, report.TopN, totals),
		validateDamageTable(report, totals),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d source rows, %d event types, %d malformed fields\n", len(records), len(totals), malformed)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadReport(path string) (domain.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Report{}, err
	}
	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return domain.Report{}, err
	}
	return report, nil
}
