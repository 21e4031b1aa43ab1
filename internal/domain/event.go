package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks caller errors such as a negative top-N or an unknown
// measure name. Check with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// RawRecord is one CSV row as read from the source, keyed by the columns the
// report needs. All values are untrimmed strings.
type RawRecord struct {
	RefNum     string
	EventType  string
	Fatalities string
	Injuries   string
	PropDmg    string
	PropDmgExp string
	CropDmg    string
	CropDmgExp string
}

// EventRecord is a parsed storm event row.
type EventRecord struct {
	EventType                 string
	Fatalities                float64
	Injuries                  float64
	PropertyDamageCoefficient float64
	PropertyDamageUnit        string
	CropDamageCoefficient     float64
	CropDamageUnit            string
}

// PropertyDamage returns the property damage in dollars.
func (r EventRecord) PropertyDamage() float64 {
	return NormalizeDamage(r.PropertyDamageCoefficient, r.PropertyDamageUnit)
}

// CropDamage returns the crop damage in dollars.
func (r EventRecord) CropDamage() float64 {
	return NormalizeDamage(r.CropDamageCoefficient, r.CropDamageUnit)
}

// FieldError describes a numeric cell that could not be parsed. The record
// still contributes 0 for that field.
type FieldError struct {
	RefNum    string
	EventType string
	Field     string
	Value     string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("malformed %s %q for event type %q (refnum %s)", e.Field, e.Value, e.EventType, e.RefNum)
}

// Measure names a numeric field of a CategoryTotal.
type Measure string

const (
	Fatalities     Measure = "fatalities"
	Injuries       Measure = "injuries"
	PropertyDamage Measure = "property_damage"
	CropDamage     Measure = "crop_damage"
	CombinedDamage Measure = "combined_damage" // derived: property + crop
)

// ParseMeasure validates a measure name.
func ParseMeasure(name string) (Measure, error) {
	switch m := Measure(name); m {
	case Fatalities, Injuries, PropertyDamage, CropDamage, CombinedDamage:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown measure %q", ErrInvalidInput, name)
	}
}

// Totals holds the summed measures of one category.
type Totals struct {
	Fatalities     float64 `json:"fatalities"`
	Injuries       float64 `json:"injuries"`
	PropertyDamage float64 `json:"property_damage"`
	CropDamage     float64 `json:"crop_damage"`
	CombinedDamage float64 `json:"combined_damage"`
}

// Value returns the total for m.
func (t Totals) Value(m Measure) (float64, error) {
	switch m {
	case Fatalities:
		return t.Fatalities, nil
	case Injuries:
		return t.Injuries, nil
	case PropertyDamage:
		return t.PropertyDamage, nil
	case CropDamage:
		return t.CropDamage, nil
	case CombinedDamage:
		return t.CombinedDamage, nil
	default:
		return 0, fmt.Errorf("%w: unknown measure %q", ErrInvalidInput, m)
	}
}

// Add sums each field independently.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Fatalities:     t.Fatalities + o.Fatalities,
		Injuries:       t.Injuries + o.Injuries,
		PropertyDamage: t.PropertyDamage + o.PropertyDamage,
		CropDamage:     t.CropDamage + o.CropDamage,
		CombinedDamage: t.CombinedDamage + o.CombinedDamage,
	}
}

// CategoryTotal is the aggregate of all records sharing one event type.
type CategoryTotal struct {
	EventType string `json:"event_type"`
	Totals
}
