package chart

import (
	"tipsdash/internal/dataset"
	"tipsdash/internal/models"
)

// CategoricalSeries partitions the dataset by the distinct values of x
// and of the grouping column, one series per non-empty combination.
// Series are ordered by group value, then x value, both first-seen.
// kind only tags the series; the partition is the same for every kind.
func (b *Builder) CategoricalSeries(kind Kind, x dataset.Column) ([]Series, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	if err := requireCategorical(x); err != nil {
		return nil, err
	}

	groups, err := b.ds.DistinctValues(b.groupBy)
	if err != nil {
		return nil, err
	}
	categories, err := b.ds.DistinctValues(x)
	if err != nil {
		return nil, err
	}

	series := []Series{}
	for gi, g := range groups {
		members, err := b.ds.FilterBy(b.groupBy, g)
		if err != nil {
			return nil, err
		}
		color := b.color(b.groupBy, gi, g)

		for _, c := range categories {
			records := []dataset.Record{}
			values := []float64{}
			for _, rec := range members {
				if v, _ := rec.Value(x); v != c {
					continue
				}
				y, err := rec.Float(b.measure)
				if err != nil {
					return nil, err
				}
				records = append(records, rec)
				values = append(values, y)
			}
			if len(records) == 0 {
				continue
			}

			series = append(series, Series{
				Label:    g,
				Group:    g,
				Category: c,
				Kind:     kind,
				Color:    color,
				Records:  records,
				Values:   values,
				Summary:  Summarize(values),
			})
		}
	}

	return series, nil
}

// CategoricalFigure wraps CategoricalSeries in the categorical plot layout.
// Bars show the mean with 95% confidence error bars; box and violin
// traces carry the raw values.
func (b *Builder) CategoricalFigure(kind Kind, x dataset.Column) (models.Figure, error) {
	series, err := b.CategoricalSeries(kind, x)
	if err != nil {
		return models.Figure{}, err
	}

	legendShown := make(map[string]bool)
	traces := make([]models.Trace, 0, len(series))
	for _, s := range series {
		show := !legendShown[s.Group]
		legendShown[s.Group] = true

		t := models.Trace{
			Type:        string(s.Kind),
			Name:        s.Label,
			LegendGroup: s.Group,
			OffsetGroup: s.Group,
			ShowLegend:  &show,
			Marker:      &models.Marker{Color: s.Color},
		}

		switch s.Kind {
		case KindBar:
			t.X = []any{s.Category}
			t.Y = []float64{s.Summary.Mean}
			t.ErrorY = &models.ErrorBar{Type: "data", Array: []float64{s.Summary.CI95}, Visible: true}
		default:
			t.X = make([]any, len(s.Values))
			for i := range s.Values {
				t.X[i] = s.Category
			}
			t.Y = s.Values
			if s.Kind == KindBox {
				t.BoxPoints = "outliers"
			}
		}
		traces = append(traces, t)
	}

	return models.Figure{
		Data: traces,
		Layout: models.Layout{
			XAxis:      models.Axis{Title: models.AxisTitle{Text: AxisLabel(x)}},
			YAxis:      models.Axis{Title: models.AxisTitle{Text: "US$"}},
			Margin:     models.Margin{L: 40, B: 40, T: 10, R: 10},
			Legend:     &models.Legend{X: 0, Y: 1.2},
			HoverMode:  "closest",
			BarMode:    "group",
			BoxMode:    "group",
			ViolinMode: "group",
		},
	}, nil
}
