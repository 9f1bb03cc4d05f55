package calibration

import (
	"fmt"
	"sort"

	"github.com/soltixdb/spectrocal/internal/models"
)

// Mode names
const (
	ModeDirect      = "direct"
	ModeSternVolmer = "stern_volmer"
)

// Mode maps calibration points to the response regressed against concentration
type Mode interface {
	// Name returns the mode name
	Name() string
	// Response returns one y value per point, in the same order.
	// Reference values such as the blank are resolved from all.
	Response(points, all []Point) ([]float64, error)
}

var modeRegistry = make(map[string]Mode)

// RegisterMode adds a mode to the registry
func RegisterMode(mode Mode) {
	modeRegistry[mode.Name()] = mode
}

// GetMode returns a mode by name
func GetMode(name string) (Mode, error) {
	if mode, ok := modeRegistry[name]; ok {
		return mode, nil
	}
	return nil, fmt.Errorf("unknown calibration mode: %s", name)
}

// ListModes returns the registered mode names, sorted
func ListModes() []string {
	names := make([]string, 0, len(modeRegistry))
	for name := range modeRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	RegisterMode(DirectMode{})
	RegisterMode(SternVolmerMode{})
}

// DirectMode regresses the signal itself against concentration
type DirectMode struct{}

// Name returns the mode name
func (DirectMode) Name() string { return ModeDirect }

// Response returns each point's signal
func (DirectMode) Response(points, _ []Point) ([]float64, error) {
	ys := make([]float64, len(points))
	for i, p := range points {
		ys[i] = p.Signal
	}
	return ys, nil
}

// SternVolmerMode regresses the quenching ratio F0/F against concentration,
// where F0 is the blank signal. Its slope is the quenching constant.
type SternVolmerMode struct{}

// Name returns the mode name
func (SternVolmerMode) Name() string { return ModeSternVolmer }

// Response returns blank/signal for each point. The blank need not be among points.
func (SternVolmerMode) Response(points, all []Point) ([]float64, error) {
	blank, ok := FindBlank(all)
	if !ok {
		return nil, models.ErrMissingBlank
	}

	ys := make([]float64, len(points))
	for i, p := range points {
		if p.Signal == 0 {
			return nil, models.NewAnalysisErrorWithDetails(models.FailureZeroSignal,
				fmt.Sprintf("condition %s has zero signal", p.Label),
				map[string]interface{}{"condition": p.Label.String()})
		}
		ys[i] = blank.Signal / p.Signal
	}
	return ys, nil
}
