// Package spectrum decodes plain-text two-column measurement files into numeric series.
package spectrum

// Point is one (x, y) sample
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RawSeries is the ordered (x, y) content of one file.
// X and Y always have the same length; both are empty when parsing failed.
type RawSeries struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// NewRawSeries copies x and y into a new series, truncating to the shorter of the two
func NewRawSeries(x, y []float64) RawSeries {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	s := RawSeries{
		X: make([]float64, n),
		Y: make([]float64, n),
	}
	copy(s.X, x[:n])
	copy(s.Y, y[:n])
	return s
}

// Len returns the number of samples
func (s RawSeries) Len() int {
	return len(s.X)
}

// IsEmpty reports whether the series holds no samples
func (s RawSeries) IsEmpty() bool {
	return len(s.X) == 0
}

// Points returns the samples as pairs
func (s RawSeries) Points() []Point {
	points := make([]Point, len(s.X))
	for i := range s.X {
		points[i] = Point{X: s.X[i], Y: s.Y[i]}
	}
	return points
}

// Window returns the samples with min <= x <= max, in file order
func (s RawSeries) Window(min, max float64) RawSeries {
	var x, y []float64
	for i, v := range s.X {
		if v >= min && v <= max {
			x = append(x, v)
			y = append(y, s.Y[i])
		}
	}
	return RawSeries{X: x, Y: y}
}
