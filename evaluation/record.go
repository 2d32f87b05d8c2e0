package evaluation

import (
	"slices"
	"time"
)

// Record is the outcome of evaluating one algorithm on one dataset.
type Record struct {
	RunID          string
	Implementation string
	Algorithm      Algorithm
	Task           Task
	TrainTime      time.Duration
	Metric1Name    string
	Metric1        float64
	Metric2Name    string
	Metric2        float64
}

// Metric returns the value of metric 0 or 1.
func (r Record) Metric(i int) float64 {
	if i == 0 {
		return r.Metric1
	}
	return r.Metric2
}

// MetricName returns the name of metric 0 or 1.
func (r Record) MetricName(i int) string {
	if i == 0 {
		return r.Metric1Name
	}
	return r.Metric2Name
}

// Log is an append-only, ordered list of records. The zero value is ready
// to use. It is not safe for concurrent use.
type Log struct {
	records []Record
}

// Append adds r to the end of the log.
func (l *Log) Append(r Record) {
	l.records = append(l.records, r)
}

// Records returns a copy of the records in append order.
func (l *Log) Records() []Record {
	return slices.Clone(l.records)
}

// Len returns the number of records.
func (l *Log) Len() int {
	return len(l.records)
}

// Best returns the record with the highest value of the given metric among
// records of the given task. RMSE is an error, so the lowest value wins for
// it. ok is false when no record matches.
func (l *Log) Best(task Task, metric int) (best Record, ok bool) {
	lowerIsBetter := task == Regression && metric == 0
	for _, r := range l.records {
		if r.Task != task {
			continue
		}
		v := r.Metric(metric)
		if !ok || (lowerIsBetter && v < best.Metric(metric)) || (!lowerIsBetter && v > best.Metric(metric)) {
			best, ok = r, true
		}
	}
	return best, ok
}
