package calibration

import (
	"github.com/soltixdb/spectrocal/internal/aggregation"
	"github.com/soltixdb/spectrocal/internal/analytics"
	"github.com/soltixdb/spectrocal/internal/models"
	"github.com/soltixdb/spectrocal/internal/spectrum"
)

// Band is an inclusive x window (wavelength or energy) searched for the signal maximum
type Band struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Point is one condition reduced to a representative signal and its uncertainty
type Point struct {
	Label         models.ConditionLabel `json:"label"`
	Concentration float64               `json:"concentration"`
	Signal        float64               `json:"signal"`
	Sigma         float64               `json:"sigma"`
	Replicates    int                   `json:"replicates"`
	PeakX         float64               `json:"peak_x"` // x at which the maximum was found
}

// IsBlank reports whether this is the zero-concentration point
func (p Point) IsBlank() bool {
	return p.Label.IsBlank()
}

// PointFromSeries takes the largest aggregated mean inside band, with the
// replicate standard deviation at that x as its uncertainty.
func PointFromSeries(series aggregation.AggregatedSeries, band Band) (Point, error) {
	inBand := series.Band(band.Min, band.Max)
	if len(inBand) == 0 {
		return Point{}, models.NewAnalysisErrorf(models.FailureEmptyBand,
			"condition %s has no samples in [%g, %g]", series.Label, band.Min, band.Max)
	}

	best := inBand[0]
	for _, p := range inBand[1:] {
		if p.Mean > best.Mean {
			best = p
		}
	}

	return Point{
		Label:         series.Label,
		Concentration: series.Label.Value,
		Signal:        best.Mean,
		Sigma:         best.StdDev,
		Replicates:    best.Count,
		PeakX:         best.X,
	}, nil
}

// PointFromReplicates takes the band maximum of each replicate separately and
// reports their mean with the population standard deviation as uncertainty.
func PointFromReplicates(label models.ConditionLabel, replicates []spectrum.RawSeries, band Band) (Point, error) {
	maxima := make([]float64, 0, len(replicates))
	peaks := make([]float64, 0, len(replicates))
	for _, s := range replicates {
		w := s.Window(band.Min, band.Max)
		if w.IsEmpty() {
			continue
		}
		v, idx := analytics.Max(w.Y)
		maxima = append(maxima, v)
		peaks = append(peaks, w.X[idx])
	}

	if len(maxima) == 0 {
		return Point{}, models.NewAnalysisErrorf(models.FailureEmptyBand,
			"condition %s has no replicate samples in [%g, %g]", label, band.Min, band.Max)
	}

	return Point{
		Label:         label,
		Concentration: label.Value,
		Signal:        analytics.Mean(maxima),
		Sigma:         analytics.PopulationStdDev(maxima),
		Replicates:    len(maxima),
		PeakX:         analytics.Mean(peaks),
	}, nil
}

// FindBlank returns the zero-concentration point
func FindBlank(points []Point) (Point, bool) {
	for _, p := range points {
		if p.IsBlank() {
			return p, true
		}
	}
	return Point{}, false
}
