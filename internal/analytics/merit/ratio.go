package merit

import (
	"fmt"
	"math"

	"github.com/soltixdb/spectrocal/internal/analytics/calibration"
	"github.com/soltixdb/spectrocal/internal/models"
)

// RatioPoint is the quenching ratio F0/F of one condition and its propagated uncertainty
type RatioPoint struct {
	Label         string  `json:"label"`
	Concentration float64 `json:"concentration"`
	Ratio         float64 `json:"ratio"`
	Uncertainty   float64 `json:"uncertainty"`
}

// RatioUncertainty propagates the blank and sample uncertainties into blank/sample
// by relative-error quadrature.
func RatioUncertainty(blank, sample calibration.Point) (ratio, sigma float64, err error) {
	if blank.Signal == 0 || sample.Signal == 0 {
		return 0, 0, models.NewAnalysisErrorf(models.FailureZeroSignal,
			"ratio %s/%s has a zero signal", blank.Label, sample.Label)
	}

	ratio = blank.Signal / sample.Signal
	relative := math.Hypot(blank.Sigma/blank.Signal, sample.Sigma/sample.Signal)
	return ratio, math.Abs(ratio) * relative, nil
}

// RatioSeries computes RatioPoint for every point against the blank, ordered by concentration
func RatioSeries(points []calibration.Point) ([]RatioPoint, error) {
	sorted := calibration.SortPoints(points)
	blank, ok := calibration.FindBlank(sorted)
	if !ok {
		return nil, models.ErrMissingBlank
	}

	out := make([]RatioPoint, 0, len(sorted))
	for _, p := range sorted {
		ratio, sigma, err := RatioUncertainty(blank, p)
		if err != nil {
			return nil, fmt.Errorf("condition %s: %w", p.Label, err)
		}
		out = append(out, RatioPoint{
			Label:         p.Label.String(),
			Concentration: p.Concentration,
			Ratio:         ratio,
			Uncertainty:   sigma,
		})
	}
	return out, nil
}
