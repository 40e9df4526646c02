package chart

import (
	"maps"
	"slices"

	"tipsdash/internal/dataset"
)

// fallbackColors is used for a column that has no palette configured.
var fallbackColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// Palette maps a group column to the ordered colors of its values.
type Palette map[dataset.Column][]string

// DefaultPalette returns the dashboard's color set.
func DefaultPalette() Palette {
	return Palette{
		dataset.Sex:    {"#ff3fd8", "#4290ff"},
		dataset.Smoker: {"#32fc7c", "#ed2828"},
		dataset.Time:   {"#0059a3", "#f2e200"},
		dataset.Day:    {"#ff8800", "#ddff00", "#3de800", "#00c9ed"},
	}
}

// Clone returns a deep copy, so callers cannot reach into a builder's palette.
func (p Palette) Clone() Palette {
	out := make(Palette, len(p))
	for col, colors := range p {
		out[col] = slices.Clone(colors)
	}
	return out
}

// Merge returns a copy of p with the columns of other replacing its own.
func (p Palette) Merge(other Palette) Palette {
	out := p.Clone()
	maps.Copy(out, other.Clone())
	return out
}

// Color returns the color for the index-th distinct value of col. When
// the palette is shorter than the number of values the colors cycle and
// cycled is true.
func (p Palette) Color(col dataset.Column, index int) (color string, cycled bool) {
	colors := p[col]
	if len(colors) == 0 {
		colors = fallbackColors
	}
	if index < 0 {
		index = 0
	}
	return colors[index%len(colors)], index >= len(colors)
}
