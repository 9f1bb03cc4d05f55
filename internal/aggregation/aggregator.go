package aggregation

import (
	"sort"

	"github.com/soltixdb/spectrocal/internal/models"
	"github.com/soltixdb/spectrocal/internal/spectrum"
)

// Aggregate combines the replicates of one group into per-x statistics.
// Points are keyed on the literal parsed x; an x missing from some replicates
// still yields a point whose Count reflects only the replicates that have it.
func Aggregate(group ReplicateGroup) (AggregatedSeries, error) {
	if group.IsDegenerate() {
		return AggregatedSeries{}, models.NewAnalysisErrorWithDetails(
			models.FailureDegenerateGroup,
			"condition "+group.Label.String()+" has no usable replicates",
			map[string]interface{}{
				"condition": group.Label.String(),
				"members":   len(group.Series),
				"failures":  len(group.Failures),
			})
	}

	fields := make(map[float64]*Accumulator)
	usable := 0
	for _, s := range group.Series {
		if s.IsEmpty() {
			continue
		}
		usable++
		for x, acc := range accumulateSeries(s) {
			if fields[x] == nil {
				fields[x] = acc
			} else {
				fields[x].Merge(acc)
			}
		}
	}

	return buildSeries(group.Label, usable, fields), nil
}

// accumulateSeries reduces one replicate to a single value per x.
// Repeated x within one file are averaged first so the replicate counts once.
func accumulateSeries(s spectrum.RawSeries) map[float64]*Accumulator {
	sums := make(map[float64]*Accumulator, s.Len())
	for i, x := range s.X {
		if sums[x] == nil {
			sums[x] = NewAccumulator(s.Y[i])
		} else {
			sums[x].AddValue(s.Y[i])
		}
	}

	out := make(map[float64]*Accumulator, len(sums))
	for x, acc := range sums {
		out[x] = NewAccumulator(acc.Mean)
	}
	return out
}

func buildSeries(label models.ConditionLabel, replicates int, fields map[float64]*Accumulator) AggregatedSeries {
	xs := make([]float64, 0, len(fields))
	for x := range fields {
		xs = append(xs, x)
	}
	sort.Float64s(xs)

	points := make([]AggregatedPoint, len(xs))
	for i, x := range xs {
		acc := fields[x]
		points[i] = AggregatedPoint{
			X:        x,
			Mean:     acc.Mean,
			StdDev:   acc.StdDev(),
			Count:    int(acc.Count),
			SEM:      acc.SEM(),
			Smoothed: acc.Mean,
			Min:      acc.Min,
			Max:      acc.Max,
		}
	}

	return AggregatedSeries{
		Label:      label,
		Points:     points,
		Replicates: replicates,
	}
}
