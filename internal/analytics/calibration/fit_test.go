package calibration

import (
	"errors"
	"math"
	"testing"

	"github.com/soltixdb/spectrocal/internal/models"
)

func TestFit_RecoversExactLine(t *testing.T) {
	points := linearPoints([]float64{0, 1, 2, 3, 4, 5}, 2, 1) // y = 2x + 1

	model, err := Fit(points, FullDomain(), DirectMode{})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if math.Abs(model.Slope-2) > tolerance {
		t.Errorf("Expected slope 2, got %v", model.Slope)
	}
	if math.Abs(model.Intercept-1) > tolerance {
		t.Errorf("Expected intercept 1, got %v", model.Intercept)
	}
	if math.Abs(model.RSquared-1) > tolerance {
		t.Errorf("Expected R² 1, got %v", model.RSquared)
	}
	if model.N != 6 {
		t.Errorf("Expected 6 fitted points, got %d", model.N)
	}
	if model.Mode != ModeDirect {
		t.Errorf("Expected mode %q, got %q", ModeDirect, model.Mode)
	}
	if math.Abs(model.Predict(10)-21) > tolerance {
		t.Errorf("Expected prediction 21 at x=10, got %v", model.Predict(10))
	}
}

func TestFit_DescendingCalibration(t *testing.T) {
	points := []Point{point(0, 100, 0), point(50, 80, 0), point(100, 60, 0)}

	model, err := Fit(points, FullDomain(), DirectMode{})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if math.Abs(model.Slope-(-0.4)) > tolerance {
		t.Errorf("Expected slope -0.4, got %v", model.Slope)
	}
	if math.Abs(model.Intercept-100) > tolerance {
		t.Errorf("Expected intercept 100, got %v", model.Intercept)
	}
	if math.Abs(model.RSquared-1) > tolerance {
		t.Errorf("Expected R² 1, got %v", model.RSquared)
	}
	if model.R > -1+tolerance {
		t.Errorf("Expected r = -1 for a descending line, got %v", model.R)
	}
}

func TestFit_DomainInclusivity(t *testing.T) {
	// The 100 µM point lies off the line; only the exclusive fit ignores it
	points := append(linearPoints([]float64{0, 25, 50, 75}, -0.5, 200), point(100, 10, 0))

	inclusive, err := Fit(points, UpTo(100, true), DirectMode{})
	if err != nil {
		t.Fatalf("inclusive fit failed: %v", err)
	}
	exclusive, err := Fit(points, UpTo(100, false), DirectMode{})
	if err != nil {
		t.Fatalf("exclusive fit failed: %v", err)
	}

	if inclusive.N != 5 || exclusive.N != 4 {
		t.Errorf("Expected 5 and 4 fitted points, got %d and %d", inclusive.N, exclusive.N)
	}
	if math.Abs(exclusive.Slope-(-0.5)) > tolerance || math.Abs(exclusive.RSquared-1) > tolerance {
		t.Errorf("Exclusive fit should be exact, got %s", exclusive)
	}
	if inclusive.RSquared >= 1-tolerance {
		t.Errorf("Inclusive fit should include the outlier, got R² %v", inclusive.RSquared)
	}

	// Excluded points are kept for reporting
	if len(exclusive.Points) != 5 || exclusive.Points[4].Included {
		t.Errorf("Expected the 100 µM point to be reported as excluded, got %+v", exclusive.Points)
	}
}

func TestFit_InsufficientPoints(t *testing.T) {
	points := linearPoints([]float64{0, 150, 200}, 1, 0)

	_, err := Fit(points, UpTo(100, true), DirectMode{})
	if err == nil {
		t.Fatal("Expected error when only one point lies in the domain")
	}
	if !errors.Is(err, models.ErrInsufficientFitPoints) {
		t.Errorf("Expected ErrInsufficientFitPoints, got %v", err)
	}

	if _, err := Fit(nil, FullDomain(), DirectMode{}); !errors.Is(err, models.ErrInsufficientFitPoints) {
		t.Errorf("Expected ErrInsufficientFitPoints for no points, got %v", err)
	}
}

func TestFit_DegenerateConcentrations(t *testing.T) {
	points := []Point{point(10, 5, 0), point(10, 6, 0)}
	_, err := Fit(points, FullDomain(), DirectMode{})
	if !errors.Is(err, models.ErrDegenerateFit) {
		t.Errorf("Expected ErrDegenerateFit, got %v", err)
	}
}

func TestFit_SternVolmer(t *testing.T) {
	// F0/F = 1 + Ksv*c with Ksv = 0.01
	const ksv = 0.01
	f0 := 1000.0
	var points []Point
	for _, c := range []float64{0, 20, 40, 60, 80, 100} {
		points = append(points, point(c, f0/(1+ksv*c), 0))
	}

	model, err := Fit(points, FullDomain(), SternVolmerMode{})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if math.Abs(model.Slope-ksv) > tolerance {
		t.Errorf("Expected Ksv %v, got %v", ksv, model.Slope)
	}
	if math.Abs(model.Intercept-1) > tolerance {
		t.Errorf("Expected intercept 1, got %v", model.Intercept)
	}
	if y := model.Points[0].Y; y == nil || math.Abs(*y-1) > tolerance {
		t.Errorf("Expected blank ratio 1, got %v", y)
	}
}

func TestFit_SternVolmerZeroSignalOutsideDomain(t *testing.T) {
	points := []Point{point(0, 100, 0), point(50, 80, 0), point(100, 60, 0), point(500, 0, 0)}

	model, err := Fit(points, UpTo(100, true), SternVolmerMode{})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if model.N != 3 {
		t.Errorf("Expected 3 fitted points, got %d", model.N)
	}

	last := model.Points[3]
	if last.Included || last.Y != nil {
		t.Errorf("Expected excluded point with undefined response, got %+v", last)
	}
	if y := model.Points[2].Y; y == nil || math.Abs(*y-100.0/60.0) > tolerance {
		t.Errorf("Expected F0/F = 100/60 at 100, got %v", y)
	}
}

func TestFit_SternVolmerBlankOutsideDomain(t *testing.T) {
	points := []Point{point(0, 100, 0), point(50, 80, 0), point(100, 50, 0)}

	model, err := Fit(points, Between(50, true, 100, true), SternVolmerMode{})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	// (50, 1.25) and (100, 2)
	if math.Abs(model.Slope-0.015) > tolerance || math.Abs(model.Intercept-0.5) > tolerance {
		t.Errorf("Expected slope 0.015 intercept 0.5, got %v %v", model.Slope, model.Intercept)
	}
	if y := model.Points[0].Y; model.Points[0].Included || y == nil || *y != 1 {
		t.Errorf("Expected excluded blank with ratio 1, got %+v", model.Points[0])
	}
}

func TestFit_SternVolmerMissingBlank(t *testing.T) {
	points := linearPoints([]float64{10, 20, 30}, 1, 5)
	_, err := Fit(points, FullDomain(), SternVolmerMode{})
	if !errors.Is(err, models.ErrMissingBlank) {
		t.Errorf("Expected ErrMissingBlank, got %v", err)
	}
}

func TestFit_SternVolmerZeroSignal(t *testing.T) {
	points := []Point{point(0, 100, 0), point(50, 0, 0)}
	_, err := Fit(points, FullDomain(), SternVolmerMode{})
	if !errors.Is(err, models.ErrZeroSignal) {
		t.Errorf("Expected ErrZeroSignal, got %v", err)
	}
}

func TestFit_UnsortedInput(t *testing.T) {
	points := []Point{point(100, 60, 0), point(0, 100, 0), point(50, 80, 0)}
	model, err := Fit(points, FullDomain(), DirectMode{})
	if err != nil {
		t.Fatal(err)
	}
	if model.Points[0].Concentration != 0 || model.Points[2].Concentration != 100 {
		t.Errorf("Expected points sorted by concentration, got %+v", model.Points)
	}
	if points[0].Concentration != 100 {
		t.Error("Input slice must not be reordered")
	}
}

func TestFitByName(t *testing.T) {
	points := linearPoints([]float64{0, 1, 2}, 3, 0)
	if _, err := FitByName(points, FullDomain(), "direct"); err != nil {
		t.Errorf("FitByName(direct) failed: %v", err)
	}
	if _, err := FitByName(points, FullDomain(), "quadratic"); err == nil {
		t.Error("Expected error for unknown mode")
	}
	if _, err := Fit(points, FullDomain(), nil); err == nil {
		t.Error("Expected error for nil mode")
	}
}

func TestModeRegistry(t *testing.T) {
	modes := ListModes()
	if len(modes) != 2 || modes[0] != ModeDirect || modes[1] != ModeSternVolmer {
		t.Errorf("Unexpected registered modes: %v", modes)
	}
	for _, name := range modes {
		mode, err := GetMode(name)
		if err != nil {
			t.Errorf("Mode %q not registered: %v", name, err)
		} else if mode.Name() != name {
			t.Errorf("Mode name mismatch: expected %q, got %q", name, mode.Name())
		}
	}
}
