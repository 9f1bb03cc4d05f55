package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/soltixdb/spectrocal/internal/aggregation"
	"github.com/soltixdb/spectrocal/internal/analytics/calibration"
	"github.com/soltixdb/spectrocal/internal/analytics/merit"
	"github.com/soltixdb/spectrocal/internal/config"
	"github.com/soltixdb/spectrocal/internal/logging"
	"github.com/soltixdb/spectrocal/internal/models"
	"github.com/soltixdb/spectrocal/internal/spectrum"
)

// AnalysisService runs the calibration pipeline over condition groups
type AnalysisService struct {
	cfg    *config.Config
	logger *logging.Logger
	parser *spectrum.Parser
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(cfg *config.Config, logger *logging.Logger) (*AnalysisService, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.Global()
	}

	parser, err := spectrum.NewParser(spectrum.Options{
		Encodings:  cfg.Parser.Encodings,
		Delimiters: cfg.Parser.Delimiters,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create parser: %w", err)
	}

	return &AnalysisService{
		cfg:    cfg,
		logger: logger,
		parser: parser,
	}, nil
}

// GroupInput names one condition and the replicate files measured under it.
// Name is a folder or file name such as "100uM" or "pH 7".
type GroupInput struct {
	Name  string
	Paths []string
}

// FitFailure records a calibration mode that could not be fitted
type FitFailure struct {
	Mode  string             `json:"mode"`
	Kind  models.FailureKind `json:"kind,omitempty"`
	Error string             `json:"error"`
}

// PointFailure records a condition that could not be reduced to a calibration point
type PointFailure struct {
	Label string             `json:"label"`
	Kind  models.FailureKind `json:"kind,omitempty"`
	Error string             `json:"error"`
}

// Report is the outcome of one analysis run
type Report struct {
	RunID         string                         `json:"run_id"`
	StartedAt     time.Time                      `json:"started_at"`
	Duration      string                         `json:"duration"`
	Series        []aggregation.AggregatedSeries `json:"series"`
	Points        []calibration.Point            `json:"points"`
	Direct        *calibration.Model             `json:"direct,omitempty"`
	SternVolmer   *calibration.Model             `json:"stern_volmer,omitempty"`
	FitFailures   []FitFailure                   `json:"fit_failures,omitempty"`
	PointFailures []PointFailure                 `json:"point_failures,omitempty"`
	Metrics       *merit.Metrics                 `json:"metrics"`
	Failures      []models.FileFailure           `json:"file_failures,omitempty"`
	Degenerate    []string                       `json:"degenerate_groups,omitempty"`
}

// Run parses every file, aggregates each condition, fits the direct and
// Stern-Volmer models and derives the figures of merit.
//
// Under the lenient policy failed files are reported and skipped. Under the
// strict policy the first failed file aborts the run with a ServiceError.
func (s *AnalysisService) Run(ctx context.Context, inputs []GroupInput) (*Report, error) {
	started := time.Now()

	if len(inputs) == 0 {
		return nil, NewServiceError(CodeInvalidInput, "no condition groups given")
	}

	runID := uuid.NewString()
	ctx = logging.WithLogger(logging.WithRunID(ctx, runID), s.logger)
	log := s.logger.WithContext(ctx)

	log.Info("Analysis started", "groups", len(inputs), "policy", s.cfg.Parser.Policy)

	results, err := s.parseAll(ctx, inputs)
	if err != nil {
		return nil, err
	}

	groups := mergeGroups(inputs, results, s.cfg.Analysis.Unit)

	report := &Report{
		RunID:     runID,
		StartedAt: started,
	}

	usable := make(map[string]aggregation.ReplicateGroup, len(groups))
	for _, group := range groups {
		report.Failures = append(report.Failures, group.Failures...)

		if group.IsDegenerate() {
			label := group.Label.String()
			report.Degenerate = append(report.Degenerate, label)
			log.Warn("Condition has no usable replicates", "condition", label, "failed_files", len(group.Failures))
			continue
		}

		series, err := aggregation.Aggregate(group)
		if err != nil {
			return nil, fmt.Errorf("aggregate %s: %w", group.Label, err)
		}
		series = aggregation.Smooth(series, s.cfg.Analysis.SmoothingWindow)

		report.Series = append(report.Series, series)
		usable[group.Label.Key()] = group
	}

	if len(report.Series) == 0 {
		return nil, NewServiceErrorWithDetails(CodeNoUsableGroups, "no condition has usable replicates",
			map[string]interface{}{"degenerate_groups": report.Degenerate})
	}

	report.Points, report.PointFailures = s.extractPoints(ctx, report.Series, usable)
	report.Direct, report.SternVolmer, report.FitFailures = s.fitModels(ctx, report.Points)

	report.Metrics = merit.Compute(merit.Input{
		Direct:      report.Direct,
		SternVolmer: report.SternVolmer,
		Points:      report.Points,
		Failures:    report.Failures,
		Degenerate:  report.Degenerate,
		Excluded:    excludedLabels(report.PointFailures),
	})

	report.Duration = time.Since(started).String()

	log.Info("Analysis completed",
		"series", len(report.Series),
		"points", len(report.Points),
		"file_failures", len(report.Failures),
		"degenerate_groups", len(report.Degenerate),
		"caveats", len(report.Metrics.Caveats),
		"duration", report.Duration)

	return report, nil
}

func excludedLabels(failures []PointFailure) []string {
	labels := make([]string, 0, len(failures))
	for _, f := range failures {
		labels = append(labels, f.Label)
	}
	return labels
}

// parseAll parses every file concurrently. Results keep the input layout so the
// merge that follows does not depend on completion order.
func (s *AnalysisService) parseAll(ctx context.Context, inputs []GroupInput) ([][]*spectrum.Result, error) {
	results := make([][]*spectrum.Result, len(inputs))
	for i, in := range inputs {
		results[i] = make([]*spectrum.Result, len(in.Paths))
	}

	strict := s.cfg.IsStrict()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.cfg.Analysis.Workers))

	for i, in := range inputs {
		i, in := i, in
		for j, path := range in.Paths {
			j, path := j, path
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				res, err := s.parser.ParseFile(path)
				results[i][j] = res
				if err == nil {
					return nil
				}

				logging.WarnCtx(gctx, "File failed", "path", path, "condition", in.Name, "kind", string(res.Kind()), "error", err)
				if strict {
					return &ServiceError{
						Code:    CodeFileFailed,
						Message: fmt.Sprintf("strict policy: %s", err),
						Details: map[string]interface{}{"path": path, "kind": string(res.Kind())},
						Err:     err,
					}
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		var se *ServiceError
		if errors.As(err, &se) {
			return nil, se
		}
		return nil, &ServiceError{Code: CodeRunCancelled, Message: "analysis run cancelled", Err: err}
	}

	return results, nil
}

// mergeGroups combines parse results by condition label. Inputs whose names map
// to the same label (e.g. "100uM", "100 µM" and a bare "100" under the default
// unit) form one group. Groups come back ordered by label.
func mergeGroups(inputs []GroupInput, results [][]*spectrum.Result, defaultUnit string) []aggregation.ReplicateGroup {
	byKey := make(map[string]*aggregation.ReplicateGroup)
	var labels []models.ConditionLabel

	for i, in := range inputs {
		label := models.ParseConditionLabel(in.Name).WithDefaultUnit(defaultUnit)
		group, ok := byKey[label.Key()]
		if !ok {
			group = &aggregation.ReplicateGroup{Label: label}
			byKey[label.Key()] = group
			labels = append(labels, label)
		}

		for j, res := range results[i] {
			if res != nil && res.Err == nil {
				group.Series = append(group.Series, res.Series)
				continue
			}

			failure := models.FileFailure{Path: in.Paths[j], Label: label.String()}
			if res != nil {
				failure.Kind = res.Kind()
				failure.Err = res.Err.Error()
			}
			group.Failures = append(group.Failures, failure)
		}
	}

	models.SortLabels(labels)

	groups := make([]aggregation.ReplicateGroup, 0, len(labels))
	for _, label := range labels {
		groups = append(groups, *byKey[label.Key()])
	}
	return groups
}

func scaleName(l models.ConditionLabel) string {
	if l.Prefix != "" {
		return l.Prefix
	}
	return l.Unit
}

func (s *AnalysisService) band() calibration.Band {
	return calibration.Band{Min: s.cfg.Analysis.BandMin, Max: s.cfg.Analysis.BandMax}
}

// calibrationScale picks the label whose prefix and unit every calibration
// point must share: the configured unit when any condition carries it,
// otherwise the first numeric condition in label order.
func calibrationScale(series []aggregation.AggregatedSeries, unit string) (models.ConditionLabel, bool) {
	want := models.NumericLabel(0, unit)

	var first *models.ConditionLabel
	for i := range series {
		label := series[i].Label
		if !label.Numeric {
			continue
		}
		if label.SameScale(want) {
			return want, true
		}
		if first == nil {
			first = &series[i].Label
		}
	}
	if first == nil {
		return models.ConditionLabel{}, false
	}
	return *first, true
}

// extractPoints reduces every numeric condition to one calibration point.
// Conditions on a different unit than the calibration scale are refused.
func (s *AnalysisService) extractPoints(
	ctx context.Context,
	series []aggregation.AggregatedSeries,
	groups map[string]aggregation.ReplicateGroup,
) ([]calibration.Point, []PointFailure) {
	var (
		points   []calibration.Point
		failures []PointFailure
	)

	scale, _ := calibrationScale(series, s.cfg.Analysis.Unit)

	for _, sr := range series {
		if !sr.Label.Numeric {
			logging.DebugCtx(logging.WithCondition(ctx, sr.Label.String()), "Categorical condition excluded from calibration")
			continue
		}

		if !sr.Label.SameScale(scale) {
			err := models.NewAnalysisErrorWithDetails(models.FailureMixedUnits,
				fmt.Sprintf("condition %s is not on the calibration scale %q", sr.Label, scaleName(scale)),
				map[string]interface{}{"condition": sr.Label.String(), "scale": scaleName(scale)})
			failures = append(failures, PointFailure{
				Label: sr.Label.String(),
				Kind:  err.Kind,
				Error: err.Error(),
			})
			logging.WarnCtx(logging.WithCondition(ctx, sr.Label.String()), "Condition excluded from calibration", "error", err)
			continue
		}

		var (
			p   calibration.Point
			err error
		)
		switch s.cfg.Analysis.Statistic {
		case config.StatisticReplicateMax:
			p, err = calibration.PointFromReplicates(sr.Label, groups[sr.Label.Key()].Series, s.band())
		default:
			p, err = calibration.PointFromSeries(sr, s.band())
		}

		if err != nil {
			failures = append(failures, PointFailure{
				Label: sr.Label.String(),
				Kind:  models.KindOf(err),
				Error: err.Error(),
			})
			logging.WarnCtx(logging.WithCondition(ctx, sr.Label.String()), "No calibration point", "error", err)
			continue
		}
		points = append(points, p)
	}

	return calibration.SortPoints(points), failures
}

// fitModels fits both calibration modes. A failed fit is recorded, never replaced by a default line.
func (s *AnalysisService) fitModels(ctx context.Context, points []calibration.Point) (*calibration.Model, *calibration.Model, []FitFailure) {
	domain := calibration.Between(
		s.cfg.Fit.MinConcentration, s.cfg.Fit.LowerInclusive,
		s.cfg.Fit.UpperBound(), s.cfg.Fit.UpperInclusive,
	)

	var failures []FitFailure
	fit := func(mode calibration.Mode) *calibration.Model {
		model, err := calibration.Fit(points, domain, mode)
		if err != nil {
			failures = append(failures, FitFailure{
				Mode:  mode.Name(),
				Kind:  models.KindOf(err),
				Error: err.Error(),
			})
			logging.WarnCtx(ctx, "Calibration fit failed", "mode", mode.Name(), "error", err)
			return nil
		}
		logging.InfoCtx(ctx, "Calibration fitted", "mode", mode.Name(), "model", model.String())
		return model
	}

	direct := fit(calibration.DirectMode{})
	sternVolmer := fit(calibration.SternVolmerMode{})
	return direct, sternVolmer, failures
}
