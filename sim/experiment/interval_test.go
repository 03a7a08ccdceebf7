package experiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervals_StudentTHalfWidth(t *testing.T) {
	// GIVEN two replications with values 1 and 3 (sd = sqrt 2)
	rows := []ReplicationRow{
		row(0, 0, "A", "", 1),
		row(1, 0, "A", "", 3),
	}

	table, err := Intervals(rows, 0.95)
	require.NoError(t, err)

	// THEN the half-width is t(0.975, 1) * sd / sqrt(2) = 12.7062
	for m := range table.Keys {
		assert.InDelta(t, 12.7062, table.Values[m][0], 1e-3)
	}
}

func TestIntervals_SingleReplicationIsZero(t *testing.T) {
	table, err := Intervals([]ReplicationRow{row(0, 0, "A", "", 7)}, 0.9)
	require.NoError(t, err)
	for m := range table.Keys {
		assert.Zero(t, table.Values[m][0])
	}
}

func TestIntervals_IdenticalValuesAreZero(t *testing.T) {
	rows := []ReplicationRow{row(0, 0, "A", "", 5), row(1, 0, "A", "", 5), row(2, 0, "A", "", 5)}
	table, err := Intervals(rows, 0.95)
	require.NoError(t, err)
	assert.Zero(t, table.Values[0][0])
}

func TestIntervals_RejectsBadLevel(t *testing.T) {
	for _, level := range []float64{0, 1, -0.5, 95} {
		_, err := Intervals(nil, level)
		assert.Error(t, err, "level %v", level)
	}
}

func TestIntervals_SharesSummaryLayout(t *testing.T) {
	rows := []ReplicationRow{row(0, 0, "A", "R", 1), row(1, 0, "A", "R", 2)}
	table, err := Intervals(rows, 0.95, WithoutResource(), WithMetricLabels(map[string]string{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, table.Columns)
	assert.Equal(t, MetricKeys, table.Metrics)
}
