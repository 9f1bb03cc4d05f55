package calibration

import (
	"encoding/json"
	"fmt"
	"math"
)

// Domain restricts which concentrations take part in a fit.
// Inclusivity at each edge is always chosen by the caller.
type Domain struct {
	Lower          float64 `json:"lower"`
	Upper          float64 `json:"upper"`
	LowerInclusive bool    `json:"lower_inclusive"`
	UpperInclusive bool    `json:"upper_inclusive"`
}

// FullDomain accepts every finite concentration
func FullDomain() Domain {
	return Domain{
		Lower:          math.Inf(-1),
		Upper:          math.Inf(1),
		LowerInclusive: true,
		UpperInclusive: true,
	}
}

// UpTo accepts concentrations below limit, including limit when inclusive is set
func UpTo(limit float64, inclusive bool) Domain {
	d := FullDomain()
	d.Upper = limit
	d.UpperInclusive = inclusive
	return d
}

// Between builds a two-sided domain
func Between(lower float64, lowerInclusive bool, upper float64, upperInclusive bool) Domain {
	return Domain{
		Lower:          lower,
		Upper:          upper,
		LowerInclusive: lowerInclusive,
		UpperInclusive: upperInclusive,
	}
}

// Contains reports whether v lies inside the domain
func (d Domain) Contains(v float64) bool {
	if d.LowerInclusive {
		if v < d.Lower {
			return false
		}
	} else if v <= d.Lower {
		return false
	}

	if d.UpperInclusive {
		return v <= d.Upper
	}
	return v < d.Upper
}

// String renders the domain in interval notation, e.g. "[0, 100)"
func (d Domain) String() string {
	left, right := "(", ")"
	if d.LowerInclusive && !math.IsInf(d.Lower, -1) {
		left = "["
	}
	if d.UpperInclusive && !math.IsInf(d.Upper, 1) {
		right = "]"
	}
	return fmt.Sprintf("%s%g, %g%s", left, d.Lower, d.Upper, right)
}

// MarshalJSON writes infinite bounds as null
func (d Domain) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Lower          *float64 `json:"lower"`
		Upper          *float64 `json:"upper"`
		LowerInclusive bool     `json:"lower_inclusive"`
		UpperInclusive bool     `json:"upper_inclusive"`
		Interval       string   `json:"interval"`
	}{
		Lower:          finiteOrNil(d.Lower),
		Upper:          finiteOrNil(d.Upper),
		LowerInclusive: d.LowerInclusive,
		UpperInclusive: d.UpperInclusive,
		Interval:       d.String(),
	})
}

func finiteOrNil(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
