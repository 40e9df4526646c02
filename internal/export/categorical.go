package export

import (
	"fmt"
	"image/color"
	"io"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"tipsdash/internal/chart"
)

// groupSpan is how much of a category slot, in x data units, the grouped
// bars or boxes of one category occupy.
const groupSpan = 0.7

// swatch is a filled legend entry.
type swatch struct{ c color.Color }

func (s swatch) Thumbnail(c *draw.Canvas) {
	c.FillPolygon(s.c, []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	})
}

// errorPoints places bar error bars on the bar centers.
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

// CategoricalPNG draws grouped bars with 95% confidence error bars, or
// grouped box plots, with gonum/plot. Violins are drawn as box plots.
func CategoricalPNG(w io.Writer, kind chart.Kind, xLabel string, series []chart.Series) error {
	if len(series) == 0 {
		return ErrNoSeries
	}
	if _, err := chart.ParseKind(string(kind)); err != nil {
		return err
	}

	var categories, groups []string
	for _, s := range series {
		if !slices.Contains(categories, s.Category) {
			categories = append(categories, s.Category)
		}
		if !slices.Contains(groups, s.Group) {
			groups = append(groups, s.Group)
		}
	}

	p := plot.New()
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "US$"
	p.Legend.Top = true
	p.NominalX(categories...)

	step := groupSpan / float64(len(groups))
	width := vg.Points(Width * groupSpan / float64(len(categories)*len(groups)) * 0.6)
	offset := func(group string) float64 {
		gi := slices.Index(groups, group)
		return (float64(gi) - float64(len(groups)-1)/2) * step
	}

	legend := make(map[string]bool)
	for _, s := range series {
		c := seriesColor(s.Color)
		x := float64(slices.Index(categories, s.Category)) + offset(s.Group)

		var err error
		switch kind {
		case chart.KindBar:
			err = addBar(p, s, x, width, c)
		default:
			err = addBox(p, s, x, width, c)
		}
		if err != nil {
			return fmt.Errorf("%s %s/%s: %w", kind, s.Group, s.Category, err)
		}

		if !legend[s.Group] {
			legend[s.Group] = true
			p.Legend.Add(s.Label, swatch{c: c})
		}
	}

	wt, err := p.WriterTo(Width*vg.Inch/96, Height*vg.Inch/96, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func addBar(p *plot.Plot, s chart.Series, x float64, width vg.Length, c color.Color) error {
	if s.Summary == nil {
		return ErrNoSeries
	}

	bar, err := plotter.NewBarChart(plotter.Values{s.Summary.Mean}, width)
	if err != nil {
		return err
	}
	bar.XMin = x
	bar.Color = c
	bar.LineStyle.Width = 0

	eb, err := plotter.NewYErrorBars(errorPoints{
		XYs:     plotter.XYs{{X: x, Y: s.Summary.Mean}},
		YErrors: plotter.YErrors{{Low: s.Summary.CI95, High: s.Summary.CI95}},
	})
	if err != nil {
		return err
	}

	p.Add(bar, eb)
	return nil
}

func addBox(p *plot.Plot, s chart.Series, x float64, width vg.Length, c color.Color) error {
	box, err := plotter.NewBoxPlot(width, x, plotter.Values(s.Values))
	if err != nil {
		return err
	}
	box.FillColor = c

	p.Add(box)
	return nil
}
