package calibration

import (
	"math"

	"github.com/soltixdb/spectrocal/internal/models"
)

// LinearFit is an ordinary least-squares line y = Slope*x + Intercept
type LinearFit struct {
	Slope           float64 `json:"slope"`
	Intercept       float64 `json:"intercept"`
	R               float64 `json:"r"`         // Pearson correlation coefficient
	RSquared        float64 `json:"r_squared"` // R*R
	SlopeStdErr     float64 `json:"slope_stderr"`
	InterceptStdErr float64 `json:"intercept_stderr"`
	N               int     `json:"n"`
}

// Regress fits y = a*x + b by ordinary least squares.
// R is 0 when y has no variance; standard errors are 0 for exactly two points.
func Regress(xs, ys []float64) (LinearFit, error) {
	if len(xs) != len(ys) {
		return LinearFit{}, models.NewAnalysisErrorf(models.FailureInsufficientFitPoints,
			"mismatched inputs: %d x values, %d y values", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return LinearFit{}, models.NewAnalysisErrorf(models.FailureInsufficientFitPoints,
			"need at least 2 points, have %d", len(xs))
	}

	n := float64(len(xs))

	sumX, sumY := 0.0, 0.0
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	// Centred sums
	ssX, ssY, ssXY := 0.0, 0.0, 0.0
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		ssX += dx * dx
		ssY += dy * dy
		ssXY += dx * dy
	}

	if ssX == 0 {
		return LinearFit{}, models.NewAnalysisError(models.FailureDegenerateFit,
			"cannot calculate regression: all x values are the same")
	}

	slope := ssXY / ssX
	intercept := meanY - slope*meanX

	r := 0.0
	if ssY > 0 {
		r = ssXY / math.Sqrt(ssX*ssY)
		// Rounding can push |r| marginally past 1
		r = math.Max(-1, math.Min(1, r))
	}

	fit := LinearFit{
		Slope:     slope,
		Intercept: intercept,
		R:         r,
		RSquared:  r * r,
		N:         len(xs),
	}

	if len(xs) > 2 {
		sumSquaredError := 0.0
		for i := range xs {
			residual := ys[i] - (intercept + slope*xs[i])
			sumSquaredError += residual * residual
		}
		residualVar := sumSquaredError / (n - 2)
		fit.SlopeStdErr = math.Sqrt(residualVar / ssX)
		fit.InterceptStdErr = math.Sqrt(residualVar * (1/n + meanX*meanX/ssX))
	}

	return fit, nil
}

// Predict evaluates the fitted line at x
func (f LinearFit) Predict(x float64) float64 {
	return f.Slope*x + f.Intercept
}

// XIntercept returns the x at which the line crosses y = 0
func (f LinearFit) XIntercept() (float64, bool) {
	if f.Slope == 0 {
		return 0, false
	}
	return -f.Intercept / f.Slope, true
}
