// Package aggregation combines replicate measurements of one condition into
// per-x statistics and smooths the resulting mean spectrum.
package aggregation

import (
	"github.com/soltixdb/spectrocal/internal/models"
	"github.com/soltixdb/spectrocal/internal/spectrum"
)

// ReplicateGroup is the set of series measured under one condition.
// Failures lists member files that produced no series.
type ReplicateGroup struct {
	Label    models.ConditionLabel
	Series   []spectrum.RawSeries
	Failures []models.FileFailure
}

// Usable returns the number of members with data
func (g ReplicateGroup) Usable() int {
	n := 0
	for _, s := range g.Series {
		if !s.IsEmpty() {
			n++
		}
	}
	return n
}

// IsDegenerate reports whether no member has data
func (g ReplicateGroup) IsDegenerate() bool {
	return g.Usable() == 0
}

// AggregatedPoint is the replicate summary at one x
type AggregatedPoint struct {
	X        float64 `json:"x"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std"`
	Count    int     `json:"count"`
	SEM      float64 `json:"sem"`
	Smoothed float64 `json:"smoothed_mean"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// AggregatedSeries is the per-x summary of one condition, sorted by strictly increasing X
type AggregatedSeries struct {
	Label      models.ConditionLabel `json:"label"`
	Points     []AggregatedPoint     `json:"points"`
	Replicates int                   `json:"replicates"` // Usable replicates combined
	Smoothing  int                   `json:"smoothing_window,omitempty"`
}

// Len returns the number of points
func (s AggregatedSeries) Len() int {
	return len(s.Points)
}

// IsSmoothed reports whether Smoothed holds a moving average
func (s AggregatedSeries) IsSmoothed() bool {
	return s.Smoothing > 0
}

// Xs returns the x values
func (s AggregatedSeries) Xs() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.X
	}
	return out
}

// Means returns the unsmoothed means
func (s AggregatedSeries) Means() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Mean
	}
	return out
}

// SmoothedMeans returns the smoothed means
func (s AggregatedSeries) SmoothedMeans() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Smoothed
	}
	return out
}

// Band returns the points with min <= X <= max
func (s AggregatedSeries) Band(min, max float64) []AggregatedPoint {
	var out []AggregatedPoint
	for _, p := range s.Points {
		if p.X >= min && p.X <= max {
			out = append(out, p)
		}
	}
	return out
}

// MinCount returns the smallest replicate count across points
func (s AggregatedSeries) MinCount() int {
	if len(s.Points) == 0 {
		return 0
	}
	min := s.Points[0].Count
	for _, p := range s.Points[1:] {
		if p.Count < min {
			min = p.Count
		}
	}
	return min
}
