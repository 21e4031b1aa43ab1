package domain

import (
	"fmt"
	"time"
)

// DefaultTopN is the number of named categories kept in each table.
const DefaultTopN = 9

// Table names used in report payloads and URLs.
const (
	TableFatalities = "fatalities"
	TableInjuries   = "injuries"
	TableDamage     = "damage"
)

// ReportOptions configures BuildReport.
type ReportOptions struct {
	TopN int
	// DamageKey drives the damage table ranking. Must be PropertyDamage,
	// CropDamage, or CombinedDamage; empty means CombinedDamage.
	DamageKey Measure
}

// HealthRow is one row of the fatalities or injuries table.
type HealthRow struct {
	EventType string  `json:"event_type"`
	Total     float64 `json:"total"`
}

// DamageRow is one row of the economic damage table, in dollars.
type DamageRow struct {
	EventType      string  `json:"event_type"`
	PropertyDamage float64 `json:"property_damage"`
	CropDamage     float64 `json:"crop_damage"`
	CombinedDamage float64 `json:"combined_damage"`
}

// Report is the output of one pipeline run.
type Report struct {
	TopN           int         `json:"top_n"`
	RecordCount    int         `json:"record_count"`
	DamageRankedBy Measure     `json:"damage_ranked_by"`
	GeneratedAt    time.Time   `json:"generated_at"`
	Fatalities     []HealthRow `json:"fatalities"`
	Injuries       []HealthRow `json:"injuries"`
	Damage         []DamageRow `json:"damage"`
}

// Table returns the named table, or false if name is not a known table.
func (r Report) Table(name string) (any, bool) {
	switch name {
	case TableFatalities:
		return r.Fatalities, true
	case TableInjuries:
		return r.Injuries, true
	case TableDamage:
		return r.Damage, true
	default:
		return nil, false
	}
}

// BuildReport aggregates and ranks records into the three report tables.
// The tables depend only on records and opts; GeneratedAt is taken from the
// package clock.
func BuildReport(records []EventRecord, opts ReportOptions) (Report, error) {
	damageKey := opts.DamageKey
	if damageKey == "" {
		damageKey = CombinedDamage
	}
	switch damageKey {
	case PropertyDamage, CropDamage, CombinedDamage:
	default:
		return Report{}, fmt.Errorf("%w: damage table cannot be ranked by %q", ErrInvalidInput, damageKey)
	}

	fatalities, err := rankHealth(records, Fatalities, opts.TopN)
	if err != nil {
		return Report{}, fmt.Errorf("fatalities table: %w", err)
	}
	injuries, err := rankHealth(records, Injuries, opts.TopN)
	if err != nil {
		return Report{}, fmt.Errorf("injuries table: %w", err)
	}
	damage, err := rankDamage(records, damageKey, opts.TopN)
	if err != nil {
		return Report{}, fmt.Errorf("damage table: %w", err)
	}

	return Report{
		TopN:           opts.TopN,
		RecordCount:    len(records),
		DamageRankedBy: damageKey,
		GeneratedAt:    clock.Now().UTC(),
		Fatalities:     fatalities,
		Injuries:       injuries,
		Damage:         damage,
	}, nil
}

func rankHealth(records []EventRecord, m Measure, topN int) ([]HealthRow, error) {
	totals, err := Aggregate(records, m)
	if err != nil {
		return nil, err
	}
	table, err := Rank(totals, m, topN)
	if err != nil {
		return nil, err
	}

	rows := make([]HealthRow, len(table.Rows))
	for i, c := range table.Rows {
		v, _ := c.Value(m)
		rows[i] = HealthRow{EventType: c.EventType, Total: v}
	}
	return rows, nil
}

func rankDamage(records []EventRecord, key Measure, topN int) ([]DamageRow, error) {
	totals, err := Aggregate(records, CombinedDamage)
	if err != nil {
		return nil, err
	}
	table, err := Rank(totals, key, topN)
	if err != nil {
		return nil, err
	}

	rows := make([]DamageRow, len(table.Rows))
	for i, c := range table.Rows {
		rows[i] = DamageRow{
			EventType:      c.EventType,
			PropertyDamage: c.PropertyDamage,
			CropDamage:     c.CropDamage,
			CombinedDamage: c.CombinedDamage,
		}
	}
	return rows, nil
}
