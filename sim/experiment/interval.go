package experiment

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Intervals returns, per metric and activity, the half-width of a Student-t
// confidence interval for the across-replication mean at the given level
// (e.g. 0.95). Cells with fewer than two replications are 0.
func Intervals(rows []ReplicationRow, level float64, opts ...SummaryOption) (*SummaryTable, error) {
	if math.IsNaN(level) || level <= 0 || level >= 1 {
		return nil, fmt.Errorf("confidence level must be in (0, 1), got %v", level)
	}
	return aggregate(rows, opts, func(xs []float64) float64 {
		return halfWidth(xs, level)
	}), nil
}

func halfWidth(xs []float64, level float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	_, sd := stat.MeanStdDev(xs, nil)
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}.Quantile((1 + level) / 2)
	return t * sd / math.Sqrt(float64(n))
}
