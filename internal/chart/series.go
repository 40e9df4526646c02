package chart

import (
	"errors"
	"fmt"
	"strings"

	"tipsdash/internal/dataset"
)

// Kind selects how a series is drawn and aggregated.
type Kind string

const (
	KindMarkers Kind = "markers"
	KindBar     Kind = "bar"
	KindViolin  Kind = "violin"
	KindBox     Kind = "box"
)

// CategoricalKinds are the kinds the categorical plot accepts.
var CategoricalKinds = []Kind{KindBar, KindViolin, KindBox}

var ErrUnknownKind = errors.New("unknown plot kind")

// ParseKind maps a selector value to a categorical Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range CategoricalKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Point is one (total_bill, tip) pair.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Series describes one renderable group. Builders create a fresh slice
// on every call and never modify it afterwards.
type Series struct {
	Label    string           `json:"label"`
	Group    string           `json:"group"`
	Category string           `json:"category,omitempty"`
	Kind     Kind             `json:"kind"`
	Color    string           `json:"color"`
	Records  []dataset.Record `json:"-"`
	Points   []Point          `json:"points,omitempty"`
	Values   []float64        `json:"values,omitempty"`
	Summary  *Summary         `json:"summary,omitempty"`
}

// AxisLabel capitalizes a column name the way the page titles axes:
// first letter upper case, the rest lower case.
func AxisLabel(col dataset.Column) string {
	s := string(col)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
