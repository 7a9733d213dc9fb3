// Package insights reduces groups of audio-feature records to field means and
// classifies the difference between two groups. The functions here are purely
// computational; callers fetch the records.
package insights

import (
	"fmt"

	"github.com/oakmoss/tonearm/internal/shared"
)

// Record is one upstream audio-feature object, keyed by attribute name.
type Record = map[string]any

// Classification labels for a mean delta between two record groups.
const (
	LabelUpbeat = "upbeat"
	LabelMellow = "mellow"
	LabelStable = "stable"
)

// Default band around zero inside which a shift reads as stable.
const defaultThreshold = 0.1

// Mean computes the arithmetic mean of a numeric field across a record group.
// Records missing the field (or carrying a non-numeric value) contribute 0 to
// the sum but still count toward the divisor. An empty group returns
// ErrEmptyGroup rather than dividing by zero.
func Mean(records []Record, field string) (float64, error) {
	if len(records) == 0 {
		return 0, fmt.Errorf("%w: cannot average %q over zero records", shared.ErrEmptyGroup, field)
	}

	var sum float64
	for _, rec := range records {
		sum += numericField(rec, field)
	}
	return sum / float64(len(records)), nil
}

// numericField extracts a field as float64, defaulting to 0 when absent or
// non-numeric. JSON decoding yields float64 for all numbers, but records built
// in-process may carry int values.
func numericField(rec Record, field string) float64 {
	switch v := rec[field].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

// Classifier maps a delta to one of the three labels. Thresholds are
// configurable; zero values fall back to the +0.1 / -0.1 defaults.
type Classifier struct {
	UpbeatThreshold float64 // delta above this is upbeat
	MellowThreshold float64 // delta below this is mellow
}

// DefaultClassifier returns a classifier with the standard thresholds.
func DefaultClassifier() Classifier {
	return Classifier{UpbeatThreshold: defaultThreshold, MellowThreshold: -defaultThreshold}
}

// Classify returns exactly one of upbeat, mellow, or stable. Boundary values
// land on stable.
func (c Classifier) Classify(delta float64) string {
	upper := c.UpbeatThreshold
	lower := c.MellowThreshold
	if upper == 0 && lower == 0 {
		upper, lower = defaultThreshold, -defaultThreshold
	}

	switch {
	case delta > upper:
		return LabelUpbeat
	case delta < lower:
		return LabelMellow
	default:
		return LabelStable
	}
}

// Shift is the result of comparing a field's mean between two record groups.
type Shift struct {
	Before float64 `json:"before"`
	After  float64 `json:"after"`
	Delta  float64 `json:"delta"`
	Label  string  `json:"label"`
}

// ReduceAndClassify computes the field mean for both groups and classifies
// after minus before. Either group being empty returns ErrEmptyGroup.
func ReduceAndClassify(before, after []Record, field string, c Classifier) (*Shift, error) {
	avgBefore, err := Mean(before, field)
	if err != nil {
		return nil, err
	}
	avgAfter, err := Mean(after, field)
	if err != nil {
		return nil, err
	}

	delta := avgAfter - avgBefore
	return &Shift{
		Before: avgBefore,
		After:  avgAfter,
		Delta:  delta,
		Label:  c.Classify(delta),
	}, nil
}
