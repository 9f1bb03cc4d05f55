package aggregation

import (
	"github.com/soltixdb/spectrocal/internal/analytics"
)

// DefaultSmoothingWindow is the moving-average width applied to mean spectra
const DefaultSmoothingWindow = 5

// Smooth returns a copy of series whose Smoothed values hold a centred moving
// average of Mean. The raw statistics are left untouched.
func Smooth(series AggregatedSeries, windowSize int) AggregatedSeries {
	if windowSize < 1 {
		windowSize = DefaultSmoothingWindow
	}

	smoothed := analytics.CenteredMovingAverage(series.Means(), windowSize)

	out := series
	out.Points = make([]AggregatedPoint, len(series.Points))
	copy(out.Points, series.Points)
	for i := range out.Points {
		out.Points[i].Smoothed = smoothed[i]
	}
	out.Smoothing = windowSize

	return out
}
