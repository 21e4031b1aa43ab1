package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/floats"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// renderText writes the three report tables with a share-of-total column.
func renderText(w io.Writer, report domain.Report) error {
	fmt.Fprintf(w, "Storm impact report: %s records, top %d event types\n\n",
		humanize.Comma(int64(report.RecordCount)), report.TopN)

	if err := renderHealth(w, "Fatalities", report.Fatalities); err != nil {
		return err
	}
	if err := renderHealth(w, "Injuries", report.Injuries); err != nil {
		return err
	}
	return renderDamage(w, report.DamageRankedBy, report.Damage)
}

func renderHealth(w io.Writer, title string, rows []domain.HealthRow) error {
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = r.Total
	}
	total := floats.Sum(values)

	fmt.Fprintf(w, "%s (total %s)\n", title, humanize.CommafWithDigits(total, 0))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "EVENT TYPE\tTOTAL\tSHARE\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", r.EventType, humanize.CommafWithDigits(r.Total, 0), share(r.Total, total))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func renderDamage(w io.Writer, rankedBy domain.Measure, rows []domain.DamageRow) error {
	key := make([]float64, len(rows))
	for i, r := range rows {
		key[i] = damageValue(r, rankedBy)
	}
	total := floats.Sum(key)

	fmt.Fprintf(w, "Economic damage, ranked by %s (total %s)\n", rankedBy, dollars(total))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "EVENT TYPE\tPROPERTY\tCROP\tCOMBINED\tSHARE\t")
	for i, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			r.EventType, dollars(r.PropertyDamage), dollars(r.CropDamage), dollars(r.CombinedDamage), share(key[i], total))
	}
	return tw.Flush()
}

func damageValue(r domain.DamageRow, m domain.Measure) float64 {
	switch m {
	case domain.PropertyDamage:
		return r.PropertyDamage
	case domain.CropDamage:
		return r.CropDamage
	default:
		return r.CombinedDamage
	}
}

func dollars(v float64) string {
	return "$" + humanize.CommafWithDigits(v, 0)
}

func share(v, total float64) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", 100*v/total)
}
