package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/YuminosukeSato/tabml/dataset"
	"github.com/YuminosukeSato/tabml/evaluation"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// renderRecords prints one row per evaluation record. Regression and
// classification records share the two metric columns, so each row names
// its own metrics.
func renderRecords(w io.Writer, records []evaluation.Record) {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, "(no results)")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Model", "Task", "Train time", "Metric", "Value", "Metric", "Value"})
	for _, r := range records {
		t.AppendRow(table.Row{
			r.Algorithm.DisplayName(),
			r.Task.String(),
			r.TrainTime.String(),
			r.Metric1Name,
			formatMetric(r.Metric1),
			r.Metric2Name,
			formatMetric(r.Metric2),
		})
	}
	t.Render()
}

// renderSummary prints the shape of the table and the detected type of each column.
func renderSummary(w io.Writer, tbl *dataset.Table) {
	_, _ = fmt.Fprintf(w, "%d rows, %d columns\n", tbl.Len(), tbl.NumColumns())

	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Column", "Type", "Sample"})
	for i, h := range tbl.Headers() {
		kind := "categorical"
		if tbl.IsNumericColumn(i) {
			kind = "numeric"
		}
		t.AppendRow(table.Row{i, h, kind, sample(tbl.Column(i), 3)})
	}
	t.Render()

	_, _ = fmt.Fprintf(w, "numeric: %s\n", strings.Join(tbl.NumericColumns(), ", "))
	_, _ = fmt.Fprintf(w, "categorical: %s\n", strings.Join(tbl.CategoricalColumns(), ", "))
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func sample(values []string, n int) string {
	if len(values) > n {
		return strings.Join(values[:n], ", ") + ", ..."
	}
	return strings.Join(values, ", ")
}
