package main

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// tableRow is a report row lifted back into domain.Totals so health and
// damage tables share one set of checks.
type tableRow struct {
	eventType string
	totals    domain.Totals
}

// ── Phase 1: Shape ──

func validateShape(report domain.Report, categories, records int) *phase {
	p := &phase{name: "Phase 1: Report shape"}

	if report.TopN < 0 {
		p.errorf("top_n is negative: %d", report.TopN)
		return p
	}
	if report.RecordCount != records {
		p.errorf("record_count=%d, source has %d rows", report.RecordCount, records)
	}
	switch report.DamageRankedBy {
	case domain.PropertyDamage, domain.CropDamage, domain.CombinedDamage:
	default:
		p.errorf("damage_ranked_by %q is not a damage measure", report.DamageRankedBy)
	}

	want := min(report.TopN, categories) + 1
	check := func(table string, n int, last string) {
		if n != want {
			p.errorf("%s: %d rows, want %d", table, n, want)
		}
		if last != domain.OthersCategory {
			p.errorf("%s: last row is %q, want %q", table, last, domain.OthersCategory)
		}
	}
	check(domain.TableFatalities, len(report.Fatalities), lastHealth(report.Fatalities))
	check(domain.TableInjuries, len(report.Injuries), lastHealth(report.Injuries))
	check(domain.TableDamage, len(report.Damage), lastDamage(report.Damage))
	return p
}

func lastHealth(rows []domain.HealthRow) string {
	if len(rows) == 0 {
		return ""
	}
	return rows[len(rows)-1].EventType
}

func lastDamage(rows []domain.DamageRow) string {
	if len(rows) == 0 {
		return ""
	}
	return rows[len(rows)-1].EventType
}

// ── Phases 2-4: Table contents ──

func validateHealthTable(name string, m domain.Measure, rows []domain.HealthRow, topN int, totals []domain.CategoryTotal) *phase {
	p := &phase{name: name}
	lifted := make([]tableRow, len(rows))
	for i, r := range rows {
		var t domain.Totals
		switch m {
		case domain.Fatalities:
			t.Fatalities = r.Total
		case domain.Injuries:
			t.Injuries = r.Total
		}
		lifted[i] = tableRow{eventType: r.EventType, totals: t}
	}
	checkTable(p, m, []domain.Measure{m}, lifted, topN, totals)
	return p
}

func validateDamageTable(report domain.Report, totals []domain.CategoryTotal) *phase {
	p := &phase{name: "Phase 4: Damage table"}
	lifted := make([]tableRow, len(report.Damage))
	for i, r := range report.Damage {
		if !floatEq(r.CombinedDamage, r.PropertyDamage+r.CropDamage) {
			p.errorf("%s: combined %.2f != property %.2f + crop %.2f", r.EventType, r.CombinedDamage, r.PropertyDamage, r.CropDamage)
		}
		lifted[i] = tableRow{eventType: r.EventType, totals: domain.Totals{
			PropertyDamage: r.PropertyDamage,
			CropDamage:     r.CropDamage,
			CombinedDamage: r.CombinedDamage,
		}}
	}
	fields := []domain.Measure{domain.PropertyDamage, domain.CropDamage, domain.CombinedDamage}
	checkTable(p, report.DamageRankedBy, fields, lifted, report.TopN, totals)
	return p
}

// checkTable verifies ordering, that each named row equals its recomputed
// category total, that no excluded category outranks the head, and that
// OTHERS plus the head conserves every field.
func checkTable(p *phase, key domain.Measure, fields []domain.Measure, rows []tableRow, topN int, totals []domain.CategoryTotal) {
	if len(rows) == 0 {
		p.errorf("table is empty")
		return
	}
	if _, err := (domain.Totals{}).Value(key); err != nil {
		p.errorf("cannot check ordering: %v", err)
		return
	}

	byType := make(map[string]domain.Totals, len(totals))
	for _, c := range totals {
		byType[c.EventType] = c.Totals
	}

	head := rows[:len(rows)-1]
	others := rows[len(rows)-1]
	inHead := make(map[string]bool, len(head))

	floor := 0.0
	for i, r := range head {
		inHead[r.eventType] = true
		kv, _ := r.totals.Value(key)
		if i > 0 {
			prev, _ := head[i-1].totals.Value(key)
			if kv > prev {
				p.errorf("row %d (%s): %s %.2f exceeds previous row %.2f", i+1, r.eventType, key, kv, prev)
			}
		}
		floor = kv

		want, ok := byType[r.eventType]
		if !ok {
			p.errorf("row %d: event type %q not present in source", i+1, r.eventType)
			continue
		}
		for _, f := range fields {
			got, _ := r.totals.Value(f)
			exp, _ := want.Value(f)
			if !floatEq(got, exp) {
				p.errorf("row %d (%s): %s=%.2f, recomputed %.2f", i+1, r.eventType, f, got, exp)
			}
		}
	}

	excluded := make(map[domain.Measure][]float64, len(fields))
	all := make(map[domain.Measure][]float64, len(fields))
	for _, c := range totals {
		for _, f := range fields {
			v, _ := c.Value(f)
			all[f] = append(all[f], v)
			if !inHead[c.EventType] {
				excluded[f] = append(excluded[f], v)
			}
		}
		if kv, _ := c.Value(key); len(head) > 0 && !inHead[c.EventType] && kv > floor {
			p.errorf("excluded %s has %s %.2f above head floor %.2f", c.EventType, key, kv, floor)
		}
	}

	for _, f := range fields {
		got, _ := others.totals.Value(f)
		if exp := floats.Sum(excluded[f]); !floatEq(got, exp) {
			p.errorf("OTHERS %s=%.2f, excluded categories sum to %.2f", f, got, exp)
		}

		tableSum := 0.0
		for _, r := range rows {
			v, _ := r.totals.Value(f)
			tableSum += v
		}
		if exp := floats.Sum(all[f]); !floatEq(tableSum, exp) {
			p.errorf("%s not conserved: table sums to %.2f, source to %.2f", f, tableSum, exp)
		}
	}

	if topN < len(totals) && len(head) != topN {
		p.errorf("head has %d rows, want %d", len(head), topN)
	}
}

func floatEq(a, b float64) bool {
	return scalar.EqualWithinAbsOrRel(a, b, 1e-6, 1e-9)
}
