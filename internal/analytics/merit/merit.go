// Package merit derives analytical figures of merit from fitted calibration
// models: limit of detection, quenching constant and ratio uncertainties.
package merit

import (
	"fmt"
	"math"

	"github.com/soltixdb/spectrocal/internal/analytics/calibration"
	"github.com/soltixdb/spectrocal/internal/models"
)

// LODFactor is the multiple of the blank standard deviation taken as detectable
const LODFactor = 3.0

// LOD returns LODFactor * sigmaBlank / |slope| in concentration units
func LOD(model *calibration.Model, sigmaBlank float64) (float64, error) {
	if model == nil {
		return 0, fmt.Errorf("LOD requires a fitted model")
	}
	return LODFromSlope(model.Slope, sigmaBlank)
}

// LODFromSlope is LOD for a bare slope
func LODFromSlope(slope, sigmaBlank float64) (float64, error) {
	if slope == 0 {
		return 0, models.ErrZeroSlope
	}
	if sigmaBlank < 0 || math.IsNaN(sigmaBlank) {
		return 0, fmt.Errorf("blank standard deviation must be non-negative, got %v", sigmaBlank)
	}
	return LODFactor * sigmaBlank / math.Abs(slope), nil
}

// Ksv returns the Stern-Volmer quenching constant, the slope of F0/F against concentration
func Ksv(model *calibration.Model) (float64, error) {
	if model == nil {
		return 0, fmt.Errorf("Ksv requires a fitted model")
	}
	if model.Mode != calibration.ModeSternVolmer {
		return 0, fmt.Errorf("Ksv requires a %s model, got %s", calibration.ModeSternVolmer, model.Mode)
	}
	return model.Slope, nil
}
