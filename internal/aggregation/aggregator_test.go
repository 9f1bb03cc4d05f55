package aggregation

import (
	"errors"
	"math"
	"testing"

	"github.com/soltixdb/spectrocal/internal/models"
	"github.com/soltixdb/spectrocal/internal/spectrum"
)

const tolerance = 1e-9

func series(x []float64, y []float64) spectrum.RawSeries {
	return spectrum.NewRawSeries(x, y)
}

func TestAggregate_ThreeSingleLineReplicates(t *testing.T) {
	group := ReplicateGroup{
		Label: models.ParseConditionLabel("0"),
		Series: []spectrum.RawSeries{
			series([]float64{500}, []float64{10.0}),
			series([]float64{500}, []float64{12.0}),
			series([]float64{500}, []float64{11.0}),
		},
	}

	agg, err := Aggregate(group)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if agg.Len() != 1 {
		t.Fatalf("Expected 1 point, got %d", agg.Len())
	}
	p := agg.Points[0]
	if p.X != 500 {
		t.Errorf("Expected X=500, got %v", p.X)
	}
	if math.Abs(p.Mean-11.0) > tolerance {
		t.Errorf("Expected Mean=11, got %v", p.Mean)
	}
	if math.Abs(p.StdDev-1.0) > tolerance {
		t.Errorf("Expected StdDev=1, got %v", p.StdDev)
	}
	if p.Count != 3 {
		t.Errorf("Expected Count=3, got %d", p.Count)
	}
	if math.Abs(p.SEM-1/math.Sqrt(3)) > tolerance {
		t.Errorf("Expected SEM≈0.577, got %v", p.SEM)
	}
	if agg.Replicates != 3 {
		t.Errorf("Expected Replicates=3, got %d", agg.Replicates)
	}
}

func TestAggregate_IdenticalReplicates(t *testing.T) {
	x := []float64{400, 401, 402, 403}
	y := []float64{5, 7.5, 9, 4}

	const n = 4
	group := ReplicateGroup{Label: models.ParseConditionLabel("10uM")}
	for i := 0; i < n; i++ {
		group.Series = append(group.Series, series(x, y))
	}

	agg, err := Aggregate(group)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	for i, p := range agg.Points {
		if p.StdDev != 0 {
			t.Errorf("point %d: expected StdDev=0, got %v", i, p.StdDev)
		}
		if p.SEM != 0 {
			t.Errorf("point %d: expected SEM=0, got %v", i, p.SEM)
		}
		if p.Count != n {
			t.Errorf("point %d: expected Count=%d, got %d", i, n, p.Count)
		}
		if p.Mean != y[i] {
			t.Errorf("point %d: expected Mean=%v, got %v", i, y[i], p.Mean)
		}
	}
}

func TestAggregate_SortedByX(t *testing.T) {
	group := ReplicateGroup{
		Label: models.ParseConditionLabel("5uM"),
		Series: []spectrum.RawSeries{
			series([]float64{403, 401, 402}, []float64{3, 1, 2}),
		},
	}

	agg, err := Aggregate(group)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	for i := 1; i < agg.Len(); i++ {
		if agg.Points[i].X <= agg.Points[i-1].X {
			t.Fatalf("X not strictly increasing at %d: %v", i, agg.Xs())
		}
	}
	if agg.Points[0].Mean != 1 || agg.Points[2].Mean != 3 {
		t.Errorf("Means did not follow their x values: %v", agg.Means())
	}
}

func TestAggregate_PartialGrid(t *testing.T) {
	group := ReplicateGroup{
		Label: models.ParseConditionLabel("5uM"),
		Series: []spectrum.RawSeries{
			series([]float64{400, 401, 402}, []float64{1, 2, 3}),
			series([]float64{401, 402}, []float64{4, 5}),
		},
	}

	agg, err := Aggregate(group)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if agg.Len() != 3 {
		t.Fatalf("Expected 3 points, got %d", agg.Len())
	}
	if agg.Points[0].Count != 1 || agg.Points[0].StdDev != 0 {
		t.Errorf("x=400: expected single contributor with std 0, got %+v", agg.Points[0])
	}
	if agg.Points[1].Count != 2 || agg.Points[1].Mean != 3 {
		t.Errorf("x=401: expected count 2 mean 3, got %+v", agg.Points[1])
	}
	if agg.MinCount() != 1 {
		t.Errorf("Expected MinCount=1, got %d", agg.MinCount())
	}
}

func TestAggregate_SkipsEmptyMembers(t *testing.T) {
	group := ReplicateGroup{
		Label: models.ParseConditionLabel("5uM"),
		Series: []spectrum.RawSeries{
			{},
			series([]float64{400}, []float64{2}),
		},
		Failures: []models.FileFailure{{Path: "bad.txt", Kind: models.FailureEncodingUnresolved}},
	}

	agg, err := Aggregate(group)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if agg.Replicates != 1 {
		t.Errorf("Expected 1 usable replicate, got %d", agg.Replicates)
	}
}

func TestAggregate_DegenerateGroup(t *testing.T) {
	group := ReplicateGroup{
		Label:  models.ParseConditionLabel("25uM"),
		Series: []spectrum.RawSeries{{}, {}},
	}

	_, err := Aggregate(group)
	if err == nil {
		t.Fatal("Expected error for degenerate group")
	}
	if !errors.Is(err, models.ErrDegenerateGroup) {
		t.Errorf("Expected ErrDegenerateGroup, got %v", err)
	}

	if _, err := Aggregate(ReplicateGroup{Label: models.ParseConditionLabel("x")}); !errors.Is(err, models.ErrDegenerateGroup) {
		t.Errorf("Expected ErrDegenerateGroup for empty group, got %v", err)
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	a := series([]float64{400, 401}, []float64{1.25, 9.5})
	b := series([]float64{400, 401}, []float64{3.75, 2.5})
	c := series([]float64{400, 401}, []float64{8.0, 4.0})

	first, err := Aggregate(ReplicateGroup{Series: []spectrum.RawSeries{a, b, c}})
	if err != nil {
		t.Fatal(err)
	}
	second, err := Aggregate(ReplicateGroup{Series: []spectrum.RawSeries{c, a, b}})
	if err != nil {
		t.Fatal(err)
	}

	for i := range first.Points {
		p, q := first.Points[i], second.Points[i]
		if math.Abs(p.Mean-q.Mean) > tolerance || math.Abs(p.StdDev-q.StdDev) > tolerance || p.Count != q.Count {
			t.Errorf("point %d differs by order: %+v vs %+v", i, p, q)
		}
	}
}

func TestAggregate_DuplicateXWithinReplicate(t *testing.T) {
	group := ReplicateGroup{
		Series: []spectrum.RawSeries{
			series([]float64{400, 400}, []float64{2, 4}),
			series([]float64{400}, []float64{5}),
		},
	}

	agg, err := Aggregate(group)
	if err != nil {
		t.Fatal(err)
	}
	p := agg.Points[0]
	if p.Count != 2 {
		t.Errorf("Expected each replicate to count once, got Count=%d", p.Count)
	}
	if math.Abs(p.Mean-4) > tolerance {
		t.Errorf("Expected mean of (3, 5) = 4, got %v", p.Mean)
	}
}
