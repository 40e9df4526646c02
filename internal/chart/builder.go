// Package chart turns selector values into series descriptors and
// plotly figures. Builders are pure: every call rebuilds from the
// dataset and nothing is cached.
package chart

import (
	"fmt"
	"log/slog"

	"tipsdash/internal/dataset"
)

// Option configures a Builder.
type Option func(*Builder)

// WithPalette overrides the color set.
func WithPalette(p Palette) Option {
	return func(b *Builder) {
		b.palette = p.Clone()
	}
}

// WithGroupBy sets the fixed grouping column of the categorical plot.
func WithGroupBy(col dataset.Column) Option {
	return func(b *Builder) {
		b.groupBy = col
	}
}

// WithMeasure sets the numeric column on the categorical y axis.
func WithMeasure(col dataset.Column) Option {
	return func(b *Builder) {
		b.measure = col
	}
}

// WithLogger sets the logger used to report palette overflow.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		b.l = l
	}
}

// WithOverflowHook is called once per series whose color had to cycle.
func WithOverflowHook(fn func(col dataset.Column)) Option {
	return func(b *Builder) {
		b.onOverflow = fn
	}
}

// Builder builds series and figures over one dataset. It is not
// modified after New returns.
type Builder struct {
	ds         *dataset.Dataset
	palette    Palette
	groupBy    dataset.Column
	measure    dataset.Column
	l          *slog.Logger
	onOverflow func(col dataset.Column)
}

// New creates a Builder. The defaults are the dashboard's palette,
// grouping by sex and tips on the categorical y axis.
func New(ds *dataset.Dataset, opts ...Option) (*Builder, error) {
	b := &Builder{
		ds:      ds,
		palette: DefaultPalette(),
		groupBy: dataset.Sex,
		measure: dataset.Tip,
		l:       slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.l = b.l.With(slog.String("module", "chart"))

	if !dataset.IsCategorical(b.groupBy) {
		return nil, fmt.Errorf("group column %q: %w", b.groupBy, dataset.ErrNotCategorical)
	}
	if !dataset.IsNumeric(b.measure) {
		return nil, fmt.Errorf("measure %q: %w", b.measure, dataset.ErrNotNumeric)
	}
	return b, nil
}

// GroupBy returns the fixed grouping column of the categorical plot.
func (b *Builder) GroupBy() dataset.Column {
	return b.groupBy
}

// Measure returns the categorical y column.
func (b *Builder) Measure() dataset.Column {
	return b.measure
}

// Palette returns a copy of the builder's colors.
func (b *Builder) Palette() Palette {
	return b.palette.Clone()
}

// color resolves a color and reports overflow.
func (b *Builder) color(col dataset.Column, index int, value string) string {
	c, cycled := b.palette.Color(col, index)
	if cycled {
		b.l.Warn("palette too short, cycling colors",
			slog.String("column", string(col)),
			slog.String("value", value),
			slog.Int("index", index),
			slog.Int("palette_size", len(b.palette[col])))
		if b.onOverflow != nil {
			b.onOverflow(col)
		}
	}
	return c
}

func requireCategorical(col dataset.Column) error {
	if _, err := dataset.ParseColumn(string(col)); err != nil {
		return err
	}
	if !dataset.IsCategorical(col) {
		return fmt.Errorf("%w: %q", dataset.ErrNotCategorical, col)
	}
	return nil
}
