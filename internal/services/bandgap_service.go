package services

import (
	"context"
	"fmt"

	"github.com/soltixdb/spectrocal/internal/analytics/tauc"
	"github.com/soltixdb/spectrocal/internal/logging"
)

// BandGapResult is a band-gap estimate for one absorbance file
type BandGapResult struct {
	Path     string       `json:"path"`
	Encoding string       `json:"encoding"`
	Exponent float64      `json:"exponent"`
	Result   *tauc.Result `json:"result"`
}

// BandGap estimates the optical band gap of one absorbance spectrum using the
// configured Tauc exponent and energy window.
func (s *AnalysisService) BandGap(ctx context.Context, path string) (*BandGapResult, error) {
	res, err := s.parser.ParseFile(path)
	if err != nil {
		return nil, &ServiceError{
			Code:    CodeFileFailed,
			Message: fmt.Sprintf("failed to parse %s: %v", path, err),
			Details: map[string]interface{}{"path": path, "kind": string(res.Kind())},
			Err:     err,
		}
	}

	window := tauc.Window{Min: s.cfg.Tauc.EnergyMin, Max: s.cfg.Tauc.EnergyMax}
	result, err := tauc.BandGap(res.Series, window, s.cfg.Tauc.Exponent)
	if err != nil {
		return nil, &ServiceError{
			Code:    CodeBandGapFailed,
			Message: err.Error(),
			Details: map[string]interface{}{"path": path},
			Err:     err,
		}
	}

	logging.InfoCtx(ctx, "Band gap estimated", "path", path, "band_gap_ev", result.BandGap, "r_squared", result.Fit.RSquared)

	return &BandGapResult{
		Path:     path,
		Encoding: res.Encoding,
		Exponent: s.cfg.Tauc.Exponent,
		Result:   result,
	}, nil
}
