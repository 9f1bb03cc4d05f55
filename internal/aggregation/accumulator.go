package aggregation

import (
	"math"
)

// Accumulator holds running statistics for the y values observed at one x.
// It uses Welford's update so replicates can be added one at a time, and
// Merge combines partial accumulators built independently.
type Accumulator struct {
	Count int64   // Number of contributing replicates
	Mean  float64 // Running mean
	M2    float64 // Sum of squared deviations from the mean
	Min   float64
	Max   float64
}

// NewAccumulator creates an accumulator from a single value
func NewAccumulator(value float64) *Accumulator {
	return &Accumulator{
		Count: 1,
		Mean:  value,
		Min:   value,
		Max:   value,
	}
}

// AddValue adds a single value to the accumulator
func (a *Accumulator) AddValue(value float64) {
	if a.Count == 0 {
		*a = *NewAccumulator(value)
		return
	}

	a.Count++
	delta := value - a.Mean
	a.Mean += delta / float64(a.Count)
	a.M2 += delta * (value - a.Mean)

	if value < a.Min {
		a.Min = value
	}
	if value > a.Max {
		a.Max = value
	}
}

// Merge combines another accumulator into this one
func (a *Accumulator) Merge(other *Accumulator) {
	if other == nil || other.Count == 0 {
		return
	}
	if a.Count == 0 {
		*a = *other
		return
	}

	n := a.Count + other.Count
	delta := other.Mean - a.Mean
	a.M2 += other.M2 + delta*delta*float64(a.Count)*float64(other.Count)/float64(n)
	a.Mean += delta * float64(other.Count) / float64(n)
	a.Count = n

	if other.Min < a.Min {
		a.Min = other.Min
	}
	if other.Max > a.Max {
		a.Max = other.Max
	}
}

// Variance returns the sample variance; 0 when fewer than two values were added
func (a *Accumulator) Variance() float64 {
	if a.Count <= 1 {
		return 0
	}
	v := a.M2 / float64(a.Count-1)
	if v < 0 {
		return 0
	}
	return v
}

// StdDev returns the sample standard deviation
func (a *Accumulator) StdDev() float64 {
	return math.Sqrt(a.Variance())
}

// SEM returns the standard error of the mean
func (a *Accumulator) SEM() float64 {
	if a.Count == 0 {
		return 0
	}
	return a.StdDev() / math.Sqrt(float64(a.Count))
}
