package merit

import (
	"fmt"
	"strings"

	"github.com/soltixdb/spectrocal/internal/analytics/calibration"
	"github.com/soltixdb/spectrocal/internal/models"
)

// CaveatCode identifies a condition that weakens a figure of merit
type CaveatCode string

const (
	CaveatSingleReplicateBlank CaveatCode = "SINGLE_REPLICATE_BLANK"
	CaveatZeroBlankSigma       CaveatCode = "ZERO_BLANK_SIGMA"
	CaveatTwoPointFit          CaveatCode = "TWO_POINT_FIT"
	CaveatSingleReplicatePoint CaveatCode = "SINGLE_REPLICATE_POINT"
	CaveatFileFailures         CaveatCode = "FILE_FAILURES"
	CaveatDegenerateGroups     CaveatCode = "DEGENERATE_GROUPS"
	CaveatExcludedConditions   CaveatCode = "EXCLUDED_CONDITIONS"
	CaveatMetricUnavailable    CaveatCode = "METRIC_UNAVAILABLE"
)

// Caveat is attached to Metrics whenever a result rests on thin evidence
type Caveat struct {
	Code    CaveatCode `json:"code"`
	Message string     `json:"message"`
}

// Metrics are the derived figures of merit of one run.
// A nil LOD or Ksv means the metric could not be computed; Caveats say why.
type Metrics struct {
	LOD     *float64     `json:"lod,omitempty"`
	Ksv     *float64     `json:"ksv,omitempty"`
	Ratios  []RatioPoint `json:"ratios,omitempty"`
	Caveats []Caveat     `json:"caveats,omitempty"`
}

// HasCaveat reports whether a caveat with code is present
func (m *Metrics) HasCaveat(code CaveatCode) bool {
	for _, c := range m.Caveats {
		if c.Code == code {
			return true
		}
	}
	return false
}

func (m *Metrics) addCaveat(code CaveatCode, format string, args ...interface{}) {
	m.Caveats = append(m.Caveats, Caveat{Code: code, Message: fmt.Sprintf(format, args...)})
}

// Input collects what Compute needs. Either model may be nil when its fit failed.
type Input struct {
	Direct      *calibration.Model
	SternVolmer *calibration.Model
	Points      []calibration.Point
	Failures    []models.FileFailure
	Degenerate  []string // labels of groups with no usable replicate
	Excluded    []string // numeric conditions that yielded no calibration point
}

// Compute assembles the metrics of one run and flags every weak spot
func Compute(in Input) *Metrics {
	m := &Metrics{}

	if len(in.Failures) > 0 {
		paths := make([]string, len(in.Failures))
		for i, f := range in.Failures {
			paths[i] = f.Path
		}
		m.addCaveat(CaveatFileFailures, "%d file(s) could not be used: %s", len(in.Failures), strings.Join(paths, ", "))
	}
	if len(in.Degenerate) > 0 {
		m.addCaveat(CaveatDegenerateGroups, "condition(s) without usable replicates: %s", strings.Join(in.Degenerate, ", "))
	}
	if len(in.Excluded) > 0 {
		m.addCaveat(CaveatExcludedConditions, "condition(s) excluded from calibration: %s", strings.Join(in.Excluded, ", "))
	}

	for _, p := range in.Points {
		if p.Replicates == 1 && !p.IsBlank() {
			m.addCaveat(CaveatSingleReplicatePoint, "condition %s rests on a single replicate", p.Label)
		}
	}

	blank, hasBlank := calibration.FindBlank(in.Points)
	if hasBlank {
		if blank.Replicates <= 1 {
			m.addCaveat(CaveatSingleReplicateBlank, "blank %s rests on a single replicate", blank.Label)
		}
		if blank.Sigma == 0 {
			m.addCaveat(CaveatZeroBlankSigma, "blank standard deviation is zero")
		}
	}

	switch {
	case in.Direct == nil:
		m.addCaveat(CaveatMetricUnavailable, "LOD unavailable: no direct calibration model")
	case !hasBlank:
		m.addCaveat(CaveatMetricUnavailable, "LOD unavailable: %v", models.ErrMissingBlank)
	default:
		checkTwoPoint(m, in.Direct)
		if lod, err := LOD(in.Direct, blank.Sigma); err != nil {
			m.addCaveat(CaveatMetricUnavailable, "LOD unavailable: %v", err)
		} else {
			m.LOD = &lod
		}
	}

	if in.SternVolmer == nil {
		m.addCaveat(CaveatMetricUnavailable, "Ksv unavailable: no %s model", calibration.ModeSternVolmer)
	} else {
		checkTwoPoint(m, in.SternVolmer)
		if ksv, err := Ksv(in.SternVolmer); err != nil {
			m.addCaveat(CaveatMetricUnavailable, "Ksv unavailable: %v", err)
		} else {
			m.Ksv = &ksv
		}
	}

	if hasBlank {
		if ratios, err := RatioSeries(in.Points); err != nil {
			m.addCaveat(CaveatMetricUnavailable, "ratio uncertainties unavailable: %v", err)
		} else {
			m.Ratios = ratios
		}
	}

	return m
}

func checkTwoPoint(m *Metrics, model *calibration.Model) {
	if model.N <= 2 {
		m.addCaveat(CaveatTwoPointFit, "%s fit rests on %d points; R² is trivially 1", model.Mode, model.N)
	}
}
