// Package tauc estimates optical band gaps from absorbance spectra with the Tauc method.
package tauc

import (
	"fmt"
	"math"

	"github.com/soltixdb/spectrocal/internal/analytics/calibration"
	"github.com/soltixdb/spectrocal/internal/models"
	"github.com/soltixdb/spectrocal/internal/spectrum"
)

// PhotonEnergyFactor converts wavelength in nm to photon energy in eV (E = h*c/λ)
const PhotonEnergyFactor = 1240.0

const (
	// DirectAllowed is the Tauc exponent for direct allowed transitions
	DirectAllowed = 2.0
	// IndirectAllowed is the Tauc exponent for indirect allowed transitions
	IndirectAllowed = 0.5
)

// Window is an open energy interval in eV
type Window struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports Min < e < Max
func (w Window) Contains(e float64) bool {
	return e > w.Min && e < w.Max
}

// Result is a band-gap estimate
type Result struct {
	BandGap float64               `json:"band_gap_ev"`
	Fit     calibration.LinearFit `json:"fit"`
	Window  Window                `json:"window"`
}

// Transform maps an absorbance spectrum to Tauc coordinates:
// X = 1240/λ and Y = (A*E)^exponent. Non-positive wavelengths are dropped.
func Transform(series spectrum.RawSeries, exponent float64) spectrum.RawSeries {
	xs := make([]float64, 0, series.Len())
	ys := make([]float64, 0, series.Len())
	for i, lambda := range series.X {
		if lambda <= 0 {
			continue
		}
		e := PhotonEnergyFactor / lambda
		y := math.Pow(series.Y[i]*e, exponent)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		xs = append(xs, e)
		ys = append(ys, y)
	}
	return spectrum.NewRawSeries(xs, ys)
}

// BandGap fits the Tauc plot of an absorbance spectrum over the energy window
// and extrapolates the line to Y = 0.
func BandGap(series spectrum.RawSeries, window Window, exponent float64) (*Result, error) {
	if window.Max <= window.Min {
		return nil, fmt.Errorf("invalid energy window (%g, %g)", window.Min, window.Max)
	}

	tauc := Transform(series, exponent)

	var xs, ys []float64
	for i, e := range tauc.X {
		if window.Contains(e) {
			xs = append(xs, e)
			ys = append(ys, tauc.Y[i])
		}
	}

	fit, err := calibration.Regress(xs, ys)
	if err != nil {
		return nil, fmt.Errorf("tauc fit over (%g, %g) eV: %w", window.Min, window.Max, err)
	}

	gap, ok := fit.XIntercept()
	if !ok {
		return nil, fmt.Errorf("tauc fit over (%g, %g) eV: %w", window.Min, window.Max, models.ErrZeroSlope)
	}

	return &Result{BandGap: gap, Fit: fit, Window: window}, nil
}
