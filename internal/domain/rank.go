package domain

import (
	"cmp"
	"fmt"
	"slices"
)

// OthersCategory labels the synthetic row that collects every category
// outside the top N.
const OthersCategory = "OTHERS"

// RankedTable is a Pareto-truncated view of category totals: the top N rows by
// Key in descending order followed by a single OTHERS row.
type RankedTable struct {
	Key  Measure
	TopN int
	Rows []CategoryTotal
}

// Head returns the ranked rows without the OTHERS row.
func (t RankedTable) Head() []CategoryTotal {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[:len(t.Rows)-1]
}

// Others returns the OTHERS row.
func (t RankedTable) Others() CategoryTotal {
	if len(t.Rows) == 0 {
		return CategoryTotal{EventType: OthersCategory}
	}
	return t.Rows[len(t.Rows)-1]
}

// Rank sorts categories by key descending and keeps the first topN. Ties keep
// their input order. Every remaining category is folded into an OTHERS row
// whose fields are summed independently. With at least topN categories the
// result has exactly topN+1 rows; with fewer, every category is kept and the
// OTHERS row is all zeros. The input slice is not modified.
func Rank(categories []CategoryTotal, key Measure, topN int) (RankedTable, error) {
	if topN < 0 {
		return RankedTable{}, fmt.Errorf("%w: topN must be non-negative, got %d", ErrInvalidInput, topN)
	}
	if _, err := (Totals{}).Value(key); err != nil {
		return RankedTable{}, err
	}

	sorted := slices.Clone(categories)
	slices.SortStableFunc(sorted, func(a, b CategoryTotal) int {
		av, _ := a.Value(key)
		bv, _ := b.Value(key)
		return cmp.Compare(bv, av)
	})

	n := min(topN, len(sorted))
	rows := make([]CategoryTotal, 0, n+1)
	rows = append(rows, sorted[:n]...)

	others := CategoryTotal{EventType: OthersCategory}
	for _, c := range sorted[n:] {
		others.Totals = others.Totals.Add(c.Totals)
	}
	rows = append(rows, others)

	return RankedTable{Key: key, TopN: topN, Rows: rows}, nil
}
