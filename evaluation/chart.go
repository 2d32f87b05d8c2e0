package evaluation

import (
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveChart writes a bar chart of one metric (0 or 1) across the records of
// task. The image format follows the extension of path.
func SaveChart(l *Log, task Task, metric int, path string) error {
	if metric != 0 && metric != 1 {
		return errors.NewValidationError("metric", "must be 0 or 1", metric)
	}
	var records []Record
	for _, r := range l.Records() {
		if r.Task == task {
			records = append(records, r)
		}
	}
	if len(records) == 0 {
		return errors.NewModelError("SaveChart", "no records", errors.ErrEmptyData)
	}

	values := make(plotter.Values, len(records))
	names := make([]string, len(records))
	for i, r := range records {
		values[i] = r.Metric(metric)
		names[i] = string(r.Algorithm)
	}

	p := plot.New()
	p.Title.Text = "Model comparison (" + task.String() + ")"
	p.Y.Label.Text = records[0].MetricName(metric)

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return errors.Wrap(err, "build bar chart")
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)

	width := vg.Length(len(records)+1) * vg.Inch
	if err := p.Save(width, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save chart to %s", path)
	}
	return nil
}
