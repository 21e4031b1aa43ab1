package domain

import "fmt"

// measureSet records which fields of Totals a fold should populate.
type measureSet struct {
	fatalities, injuries, property, crop, combined bool
}

func newMeasureSet(measures []Measure) (measureSet, error) {
	var s measureSet
	if len(measures) == 0 {
		return s, fmt.Errorf("%w: no measures requested", ErrInvalidInput)
	}
	for _, m := range measures {
		switch m {
		case Fatalities:
			s.fatalities = true
		case Injuries:
			s.injuries = true
		case PropertyDamage:
			s.property = true
		case CropDamage:
			s.crop = true
		case CombinedDamage:
			// Derived after the fold, so both parts must be summed.
			s.property, s.crop, s.combined = true, true, true
		default:
			return s, fmt.Errorf("%w: unknown measure %q", ErrInvalidInput, m)
		}
	}
	return s, nil
}

func (s measureSet) extract(r EventRecord) Totals {
	var t Totals
	if s.fatalities {
		t.Fatalities = r.Fatalities
	}
	if s.injuries {
		t.Injuries = r.Injuries
	}
	if s.property {
		t.PropertyDamage = r.PropertyDamage()
	}
	if s.crop {
		t.CropDamage = r.CropDamage()
	}
	return t
}

// Aggregate sums the requested measures per distinct event type. Event types
// are compared by exact string equality. Rows come back in first-seen order;
// Rank imposes the reporting order. Requesting CombinedDamage also sums
// property and crop damage and sets CombinedDamage = PropertyDamage +
// CropDamage on each category.
func Aggregate(records []EventRecord, measures ...Measure) ([]CategoryTotal, error) {
	set, err := newMeasureSet(measures)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var out []CategoryTotal
	for _, r := range records {
		i, ok := index[r.EventType]
		if !ok {
			i = len(out)
			index[r.EventType] = i
			out = append(out, CategoryTotal{EventType: r.EventType})
		}
		out[i].Totals = out[i].Totals.Add(set.extract(r))
	}

	if set.combined {
		for i := range out {
			out[i].CombinedDamage = out[i].PropertyDamage + out[i].CropDamage
		}
	}
	return out, nil
}
