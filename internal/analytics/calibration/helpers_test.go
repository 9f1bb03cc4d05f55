package calibration

import (
	"github.com/soltixdb/spectrocal/internal/models"
)

const tolerance = 1e-9

// linearPoints builds points lying exactly on y = slope*c + intercept
func linearPoints(concentrations []float64, slope, intercept float64) []Point {
	points := make([]Point, len(concentrations))
	for i, c := range concentrations {
		points[i] = point(c, slope*c+intercept, 0)
	}
	return points
}

func point(concentration, signal, sigma float64) Point {
	return Point{
		Label:         models.NumericLabel(concentration, "uM"),
		Concentration: concentration,
		Signal:        signal,
		Sigma:         sigma,
		Replicates:    3,
	}
}
