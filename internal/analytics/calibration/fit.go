// Package calibration fits linear calibration models to per-condition signals.
package calibration

import (
	"fmt"
	"sort"

	"github.com/soltixdb/spectrocal/internal/models"
)

// FitPoint is one calibration point as seen by a fit
type FitPoint struct {
	Label         string   `json:"label"`
	Concentration float64  `json:"concentration"`
	Y             *float64 `json:"y"`        // nil when the response is undefined for an excluded point
	Included      bool     `json:"included"` // inside the fit domain
}

// Model is an immutable fitted calibration line
type Model struct {
	LinearFit
	Mode   string     `json:"mode"`
	Domain Domain     `json:"domain"`
	Points []FitPoint `json:"points"`
}

// Fit regresses the mode's response against concentration using only the
// points whose concentration lies in domain. Excluded points never affect the
// fit; they are kept in Model.Points for reporting.
func Fit(points []Point, domain Domain, mode Mode) (*Model, error) {
	if mode == nil {
		return nil, fmt.Errorf("calibration mode is required")
	}

	sorted := SortPoints(points)

	var included []Point
	for _, p := range sorted {
		if domain.Contains(p.Concentration) {
			included = append(included, p)
		}
	}

	if len(included) < 2 {
		return nil, models.NewAnalysisErrorWithDetails(models.FailureInsufficientFitPoints,
			fmt.Sprintf("%s fit: %d point(s) in domain %s, need at least 2", mode.Name(), len(included), domain),
			map[string]interface{}{"mode": mode.Name(), "points": len(included), "domain": domain.String()})
	}

	ys, err := mode.Response(included, sorted)
	if err != nil {
		return nil, fmt.Errorf("%s response: %w", mode.Name(), err)
	}

	xs := make([]float64, len(included))
	for i, p := range included {
		xs[i] = p.Concentration
	}

	line, err := Regress(xs, ys)
	if err != nil {
		return nil, fmt.Errorf("%s fit: %w", mode.Name(), err)
	}

	fitPoints := make([]FitPoint, len(sorted))
	next := 0
	for i, p := range sorted {
		fp := FitPoint{
			Label:         p.Label.String(),
			Concentration: p.Concentration,
		}
		if domain.Contains(p.Concentration) {
			y := ys[next]
			next++
			fp.Y = &y
			fp.Included = true
		} else if y, err := mode.Response([]Point{p}, sorted); err == nil {
			fp.Y = &y[0]
		}
		fitPoints[i] = fp
	}

	return &Model{
		LinearFit: line,
		Mode:      mode.Name(),
		Domain:    domain,
		Points:    fitPoints,
	}, nil
}

// FitByName looks up a registered mode and fits with it
func FitByName(points []Point, domain Domain, modeName string) (*Model, error) {
	mode, err := GetMode(modeName)
	if err != nil {
		return nil, err
	}
	return Fit(points, domain, mode)
}

// SortPoints returns a copy of points ordered by concentration
func SortPoints(points []Point) []Point {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Concentration < sorted[j].Concentration
	})
	return sorted
}

// String renders the model equation
func (m *Model) String() string {
	return fmt.Sprintf("y = %.4gx + %.4g (R² = %.4f, n = %d, %s)", m.Slope, m.Intercept, m.RSquared, m.N, m.Domain)
}
