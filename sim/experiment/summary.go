package experiment

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Metric keys, in the order summary rows are emitted.
const (
	MetricArrivals    = "mean_arrivals"
	MetricWait        = "mean_wait"
	MetricService     = "mean_service"
	MetricUtilisation = "mean_utilisation"
	MetricLq          = "mean_Lq"
)

// MetricKeys lists every summary metric in row order.
var MetricKeys = []string{MetricArrivals, MetricWait, MetricService, MetricUtilisation, MetricLq}

// DefaultMetricLabels are the display names used unless WithMetricLabels says
// otherwise.
var DefaultMetricLabels = map[string]string{
	MetricArrivals:    "Mean arrivals",
	MetricWait:        "Mean waiting time",
	MetricService:     "Mean service time",
	MetricUtilisation: "Mean utilisation",
	MetricLq:          "Mean queue length",
}

func metricValue(key string, r ReplicationRow) float64 {
	switch key {
	case MetricArrivals:
		return float64(r.Arrivals)
	case MetricWait:
		return r.MeanWait
	case MetricService:
		return r.MeanService
	case MetricUtilisation:
		return r.Utilisation
	case MetricLq:
		return r.MeanLq
	}
	panic(fmt.Sprintf("unknown metric %q", key))
}

// SummaryTable is a metric x activity table. Values[m][c] belongs to
// Metrics[m] and Columns[c].
type SummaryTable struct {
	Keys    []string // metric keys, see MetricKeys
	Metrics []string // display label per key
	Columns []string
	Values  [][]float64
}

// Value looks a cell up by metric key and column label.
func (t *SummaryTable) Value(metricKey, column string) (float64, bool) {
	m, c := -1, -1
	for i, k := range t.Keys {
		if k == metricKey {
			m = i
		}
	}
	for i, col := range t.Columns {
		if col == column {
			c = i
		}
	}
	if m < 0 || c < 0 {
		return 0, false
	}
	return t.Values[m][c], true
}

type summaryOptions struct {
	labels          map[string]string
	withoutResource bool
}

// SummaryOption configures Summarise and Intervals.
type SummaryOption func(*summaryOptions)

// WithMetricLabels renames metric rows. A nil map keeps DefaultMetricLabels;
// a non-nil empty map keeps the raw metric keys, as do keys missing from the
// map.
func WithMetricLabels(labels map[string]string) SummaryOption {
	return func(o *summaryOptions) {
		if labels != nil {
			o.labels = labels
		}
	}
}

// WithoutResource labels columns by activity name alone.
func WithoutResource() SummaryOption {
	return func(o *summaryOptions) { o.withoutResource = true }
}

// ColumnLabel is "activity (resource)", or the activity name when the
// resource is unnamed.
func ColumnLabel(activity, resource string) string {
	if resource == "" {
		return activity
	}
	return fmt.Sprintf("%s (%s)", activity, resource)
}

// Summarise averages each metric across replications, one column per
// activity in the order activities first appear in rows.
func Summarise(rows []ReplicationRow, opts ...SummaryOption) *SummaryTable {
	return aggregate(rows, opts, func(xs []float64) float64 {
		return stat.Mean(xs, nil)
	})
}

func aggregate(rows []ReplicationRow, opts []SummaryOption, reduce func([]float64) float64) *SummaryTable {
	o := summaryOptions{labels: DefaultMetricLabels}
	for _, opt := range opts {
		opt(&o)
	}

	type columnKey struct{ activity, resource string }
	var order []columnKey
	groups := make(map[columnKey][]ReplicationRow)
	for _, r := range rows {
		key := columnKey{activity: r.Activity}
		if !o.withoutResource {
			key.resource = r.Resource
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}
	columns := make([]string, len(order))
	for c, key := range order {
		columns[c] = ColumnLabel(key.activity, key.resource)
	}

	t := &SummaryTable{
		Keys:    append([]string(nil), MetricKeys...),
		Metrics: make([]string, len(MetricKeys)),
		Columns: columns,
		Values:  make([][]float64, len(MetricKeys)),
	}
	xs := make([]float64, 0, len(rows))
	for m, key := range MetricKeys {
		t.Metrics[m] = key
		if label, ok := o.labels[key]; ok {
			t.Metrics[m] = label
		}
		t.Values[m] = make([]float64, len(columns))
		for c, col := range order {
			xs = xs[:0]
			for _, r := range groups[col] {
				xs = append(xs, metricValue(key, r))
			}
			t.Values[m][c] = reduce(xs)
		}
	}
	return t
}
