package export

import (
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"tipsdash/internal/chart"
)

// ScatterPNG draws one dot series per hue value with go-chart.
func ScatterPNG(w io.Writer, series []chart.Series) error {
	if len(series) == 0 {
		return ErrNoSeries
	}

	g := gochart.Chart{
		Width:      Width,
		Height:     Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      gochart.XAxis{Name: "Total Bill"},
		YAxis:      gochart.YAxis{Name: "Tip"},
	}

	for _, s := range series {
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i] = p.X
			ys[i] = p.Y
		}

		c := seriesColor(s.Color)
		g.Series = append(g.Series, gochart.ContinuousSeries{
			Name: s.Label,
			Style: gochart.Style{
				StrokeWidth: gochart.Disabled,
				DotWidth:    5,
				DotColor:    drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A},
			},
			XValues: xs,
			YValues: ys,
		})
	}
	g.Elements = []gochart.Renderable{gochart.Legend(&g)}

	return g.Render(gochart.PNG, w)
}
