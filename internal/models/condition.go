// Package models holds the value types shared across the calibration pipeline:
// condition labels, failure kinds and typed probe resolutions.
package models

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	// "100uM", "2.5 mM", "0,5uM", "1e-3 M", "100"
	leadingNumberPattern = regexp.MustCompile(`^([-+]?\d+(?:[.,]\d+)?(?:[eE][-+]?\d+)?)\s*(.*)$`)
	// "pH 7", "pH7", "T 25"
	prefixedNumberPattern = regexp.MustCompile(`^([A-Za-z]+)\s*([-+]?\d+(?:[.,]\d+)?)$`)

	dataFileExtensions = map[string]bool{
		".txt": true,
		".csv": true,
		".tsv": true,
		".dat": true,
		".asc": true,
	}

	// Micro is commonly typed as "u" in file names
	unitAliases = map[string]string{
		"uM": "µM",
		"ug": "µg",
		"uL": "µL",
		"umol/L": "µmol/L",
		"ug/L":   "µg/L",
		"ug/mL":  "µg/mL",
	}

	// A leading number is only a measured value when followed by one of these
	knownUnits = map[string]bool{
		"M": true, "mM": true, "µM": true, "nM": true, "pM": true, "fM": true,
		"mol/L": true, "mmol/L": true, "µmol/L": true,
		"g/L": true, "mg/L": true, "µg/L": true, "ng/L": true,
		"mg/mL": true, "µg/mL": true, "ng/mL": true,
		"ppm": true, "ppb": true, "ppt": true, "%": true,
		"g": true, "mg": true, "µg": true, "L": true, "mL": true, "µL": true,
		"nm": true, "°C": true, "K": true, "s": true, "min": true, "h": true,
	}
)

// ConditionLabel identifies a nominal experimental condition.
// Numeric labels (concentrations, pH values) carry their value and sort numerically.
type ConditionLabel struct {
	Raw     string  `json:"raw"`
	Value   float64 `json:"value"`
	Unit    string  `json:"unit,omitempty"`
	Prefix  string  `json:"prefix,omitempty"`
	Numeric bool    `json:"numeric"`
}

// ParseConditionLabel derives a label from a folder or file name.
// The same name always yields the same label.
func ParseConditionLabel(name string) ConditionLabel {
	raw := strings.TrimSpace(name)
	base := raw
	if ext := filepath.Ext(base); dataFileExtensions[strings.ToLower(ext)] {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.TrimSpace(base)

	label := ConditionLabel{Raw: base}

	if m := leadingNumberPattern.FindStringSubmatch(base); m != nil {
		unit := NormalizeUnit(m[2])
		if unit == "" || knownUnits[unit] {
			if v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64); err == nil {
				label.Value = v
				label.Unit = unit
				label.Numeric = true
				return label
			}
		}
	}

	if m := prefixedNumberPattern.FindStringSubmatch(base); m != nil {
		if v, err := strconv.ParseFloat(strings.Replace(m[2], ",", ".", 1), 64); err == nil {
			label.Prefix = m[1]
			label.Value = v
			label.Numeric = true
			return label
		}
	}

	return label
}

// NumericLabel builds a numeric label directly from a value and unit
func NumericLabel(value float64, unit string) ConditionLabel {
	l := ConditionLabel{Value: value, Unit: NormalizeUnit(unit), Numeric: true}
	l.Raw = l.String()
	return l
}

// WithDefaultUnit returns the label with unit applied when it is a bare number
func (l ConditionLabel) WithDefaultUnit(unit string) ConditionLabel {
	if l.Numeric && l.Prefix == "" && l.Unit == "" {
		l.Unit = NormalizeUnit(unit)
	}
	return l
}

// NormalizeUnit trims unit and maps ASCII spellings such as "uM" to "µM"
func NormalizeUnit(unit string) string {
	unit = strings.TrimSpace(unit)
	if alias, ok := unitAliases[unit]; ok {
		return alias
	}
	return unit
}

// String returns the display form, e.g. "100 µM" or "pH 7"
func (l ConditionLabel) String() string {
	if !l.Numeric {
		return l.Raw
	}
	v := strconv.FormatFloat(l.Value, 'f', -1, 64)
	switch {
	case l.Prefix != "":
		return l.Prefix + " " + v
	case l.Unit != "":
		return v + " " + l.Unit
	default:
		return v
	}
}

// Key is the grouping key for replicates; labels with equal keys are the same condition
func (l ConditionLabel) Key() string {
	return l.String()
}

// IsBlank reports whether the label is the zero-concentration condition
func (l ConditionLabel) IsBlank() bool {
	return l.Numeric && l.Prefix == "" && l.Value == 0
}

// SameScale reports whether two numeric labels share prefix and unit, so their values compare
func (l ConditionLabel) SameScale(other ConditionLabel) bool {
	return l.Prefix == other.Prefix && l.Unit == other.Unit
}

// Less orders numeric labels by prefix and unit, then by value, before
// categorical labels, which order lexically
func (l ConditionLabel) Less(other ConditionLabel) bool {
	switch {
	case l.Numeric && other.Numeric:
		if l.Prefix != other.Prefix {
			return l.Prefix < other.Prefix
		}
		if l.Unit != other.Unit {
			return l.Unit < other.Unit
		}
		if l.Value != other.Value {
			return l.Value < other.Value
		}
		return l.Key() < other.Key()
	case l.Numeric != other.Numeric:
		return l.Numeric
	default:
		return l.Raw < other.Raw
	}
}

// SortLabels sorts labels in place using Less
func SortLabels(labels []ConditionLabel) {
	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].Less(labels[j])
	})
}
