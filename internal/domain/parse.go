package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseRecord converts a raw CSV row into an EventRecord. Parsing is lenient:
// missing or malformed numerics become 0, and each malformed cell is returned
// as a FieldError so the caller can report it. A damage coefficient whose
// dollar value overflows float64 counts as malformed. The event type and unit
// codes are kept verbatim.
func ParseRecord(raw RawRecord) (EventRecord, []FieldError) {
	var errs []FieldError
	num := func(field, value string, nonNegative bool, unit string) float64 {
		v, ok := parseFloatOrZero(value)
		if ok && nonNegative && v < 0 {
			v, ok = 0, false
		}
		// A finite coefficient can still overflow once scaled.
		if ok && math.IsInf(NormalizeDamage(v, unit), 0) {
			v, ok = 0, false
		}
		if !ok {
			errs = append(errs, FieldError{
				RefNum:    raw.RefNum,
				EventType: raw.EventType,
				Field:     field,
				Value:     value,
			})
		}
		return v
	}

	rec := EventRecord{
		EventType:                 raw.EventType,
		Fatalities:                num("FATALITIES", raw.Fatalities, true, ""),
		Injuries:                  num("INJURIES", raw.Injuries, true, ""),
		PropertyDamageCoefficient: num("PROPDMG", raw.PropDmg, false, raw.PropDmgExp),
		PropertyDamageUnit:        raw.PropDmgExp,
		CropDamageCoefficient:     num("CROPDMG", raw.CropDmg, false, raw.CropDmgExp),
		CropDamageUnit:            raw.CropDmgExp,
	}
	return rec, errs
}

// parseFloatOrZero parses s as a finite float64. Empty strings and "NA" are
// missing values and parse as (0, true); anything else unparseable, NaN, or
// infinite yields (0, false).
func parseFloatOrZero(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "NA" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
