package ui

import (
	"slices"

	"tipsdash/internal/chart"
	"tipsdash/internal/dataset"
)

// Graph ids the controls feed.
const (
	ScatterGraph     = "scatterPlot"
	CategoricalGraph = "categoricalPlot"
)

// Option is one dropdown entry.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Control is a dropdown with a closed domain and a default.
type Control struct {
	ID      string   `json:"id"`
	Options []Option `json:"options"`
	Default string   `json:"default"`
	Output  string   `json:"output"`
}

var (
	HueControl = Control{
		ID: "ddl-hue-scatter-plot",
		Options: []Option{
			{Label: "Sex", Value: "sex"},
			{Label: "Smoker", Value: "smoker"},
			{Label: "Day", Value: "day"},
			{Label: "Time", Value: "time"},
		},
		Default: "sex",
		Output:  ScatterGraph,
	}
	KindControl = Control{
		ID: "ddl-jenis-plot-category",
		Options: []Option{
			{Label: "Bar", Value: "bar"},
			{Label: "Violin", Value: "violin"},
			{Label: "Box", Value: "box"},
		},
		Default: "bar",
		Output:  CategoricalGraph,
	}
	XControl = Control{
		ID: "ddl-x-plot-category",
		Options: []Option{
			{Label: "Smoker", Value: "smoker"},
			{Label: "Sex", Value: "sex"},
			{Label: "Day", Value: "day"},
			{Label: "Time", Value: "time"},
		},
		Default: "sex",
		Output:  CategoricalGraph,
	}
)

// Controls lists every dropdown on the page.
func Controls() []Control {
	return []Control{HueControl, KindControl, XControl}
}

// ControlByID finds a control.
func ControlByID(id string) (Control, bool) {
	for _, c := range Controls() {
		if c.ID == id {
			return c, true
		}
	}
	return Control{}, false
}

// Resolve returns value when it is in the control's domain, otherwise
// the default with fellBack set.
func (c Control) Resolve(value string) (resolved string, fellBack bool) {
	if slices.ContainsFunc(c.Options, func(o Option) bool { return o.Value == value }) {
		return value, false
	}
	return c.Default, true
}

// Values maps control ids to their current value.
type Values map[string]string

// Selection is a validated set of control values.
type Selection struct {
	Hue  dataset.Column
	Kind chart.Kind
	X    dataset.Column
}

// Values renders the selection back into control values.
func (s Selection) Values() Values {
	return Values{
		HueControl.ID:  string(s.Hue),
		KindControl.ID: string(s.Kind),
		XControl.ID:    string(s.X),
	}
}

// FallbackFunc is told about every value replaced by a default.
type FallbackFunc func(control, got, used string)

// Resolve validates every control value, falling back to defaults for
// missing or out-of-domain values. onFallback may be nil.
func Resolve(values Values, onFallback FallbackFunc) Selection {
	pick := func(c Control) string {
		got, ok := values[c.ID]
		used, fellBack := c.Resolve(got)
		if fellBack && ok && onFallback != nil {
			onFallback(c.ID, got, used)
		}
		return used
	}

	return Selection{
		Hue:  dataset.Column(pick(HueControl)),
		Kind: chart.Kind(pick(KindControl)),
		X:    dataset.Column(pick(XControl)),
	}
}

// DefaultSelection is the page's initial state.
func DefaultSelection() Selection {
	return Resolve(nil, nil)
}
