package chart

import (
	"tipsdash/internal/dataset"
	"tipsdash/internal/models"
)

// ScatterSeries returns one series per distinct hue value, in first-seen
// order, holding the (total_bill, tip) pairs of that value.
func (b *Builder) ScatterSeries(hue dataset.Column) ([]Series, error) {
	if err := requireCategorical(hue); err != nil {
		return nil, err
	}

	values, err := b.ds.DistinctValues(hue)
	if err != nil {
		return nil, err
	}

	series := make([]Series, 0, len(values))
	for i, v := range values {
		records, err := b.ds.FilterBy(hue, v)
		if err != nil {
			return nil, err
		}

		points := make([]Point, len(records))
		for j, rec := range records {
			points[j] = Point{X: rec.TotalBill, Y: rec.Tip}
		}

		series = append(series, Series{
			Label:   v,
			Group:   v,
			Kind:    KindMarkers,
			Color:   b.color(hue, i, v),
			Records: records,
			Points:  points,
		})
	}

	return series, nil
}

// ScatterFigure wraps ScatterSeries in the scatter plot layout.
func (b *Builder) ScatterFigure(hue dataset.Column) (models.Figure, error) {
	series, err := b.ScatterSeries(hue)
	if err != nil {
		return models.Figure{}, err
	}

	traces := make([]models.Trace, 0, len(series))
	for _, s := range series {
		x := make([]any, len(s.Points))
		y := make([]float64, len(s.Points))
		for i, p := range s.Points {
			x[i] = p.X
			y[i] = p.Y
		}

		traces = append(traces, models.Trace{
			Type: "scatter",
			Mode: "markers",
			Name: s.Label,
			X:    x,
			Y:    y,
			Marker: &models.Marker{
				Color: s.Color,
				Size:  10,
				Line:  &models.MarkerLine{Width: 0.5, Color: "white"},
			},
		})
	}

	return models.Figure{
		Data: traces,
		Layout: models.Layout{
			XAxis:     models.Axis{Title: models.AxisTitle{Text: "Total Bill"}},
			YAxis:     models.Axis{Title: models.AxisTitle{Text: "Tip"}},
			Margin:    models.Margin{L: 40, B: 40, T: 10, R: 10},
			HoverMode: "closest",
		},
	}, nil
}
