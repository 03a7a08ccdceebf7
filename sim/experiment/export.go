package experiment

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

var rowHeader = []string{
	"replication", "node", "activity_name", "resource_name", "capacity",
	"arrivals", "mean_wait", "mean_service", "utilisation", "mean_Lq",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteRowsCSV writes per-replication rows with a header line.
func WriteRowsCSV(w io.Writer, rows []ReplicationRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rowHeader); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Replication),
			strconv.Itoa(r.Node),
			r.Activity,
			r.Resource,
			r.Capacity.String(),
			strconv.Itoa(r.Arrivals),
			formatFloat(r.MeanWait),
			formatFloat(r.MeanService),
			formatFloat(r.Utilisation),
			formatFloat(r.MeanLq),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing rows: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV writes the table with a leading "metric" column.
func (t *SummaryTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"metric"}, t.Columns...)); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	for m, label := range t.Metrics {
		rec := make([]string, 0, len(t.Columns)+1)
		rec = append(rec, label)
		for _, v := range t.Values[m] {
			rec = append(rec, formatFloat(v))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteYAML writes the table as a mapping of metric label to a mapping of
// column label to value, preserving row and column order.
func (t *SummaryTable) WriteYAML(w io.Writer) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for m, label := range t.Metrics {
		row := &yaml.Node{Kind: yaml.MappingNode}
		for c, col := range t.Columns {
			row.Content = append(row.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: col},
				&yaml.Node{Kind: yaml.ScalarNode, Value: formatFloat(t.Values[m][c])},
			)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: label},
			row,
		)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return enc.Close()
}
