package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"tipsdash/internal/chart"
	"tipsdash/internal/config"
	"tipsdash/internal/dataset"
	"tipsdash/internal/metrics"
	"tipsdash/internal/models"
	"tipsdash/internal/state"
)

func newState(t *testing.T) *state.AppState {
	t.Helper()
	ds, err := dataset.Load(context.Background(), dataset.EmbeddedSource{})
	require.NoError(t, err)
	s, err := state.New(ds, config.DefaultConfig(), nil, metrics.New())
	require.NoError(t, err)
	return s
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func traceNames(fig models.Figure) []string {
	names := make([]string, 0, len(fig.Data))
	for _, tr := range fig.Data {
		names = append(names, tr.Name)
	}
	return names
}

func TestControl_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		control  Control
		value    string
		want     string
		fellBack bool
	}{
		{"hue in domain", HueControl, "day", "day", false},
		{"hue out of domain", HueControl, "size", "sex", true},
		{"kind in domain", KindControl, "violin", "violin", false},
		{"kind empty", KindControl, "", "bar", true},
		{"x in domain", XControl, "time", "time", false},
		{"x case sensitive", XControl, "Smoker", "sex", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fellBack := tt.control.Resolve(tt.value)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.fellBack, fellBack)
		})
	}
}

func TestResolve_ReportsOnlyPresentValues(t *testing.T) {
	var reported []string
	sel := Resolve(Values{
		HueControl.ID:  "tip",
		KindControl.ID: "box",
	}, func(control, got, used string) {
		reported = append(reported, control+":"+got+"->"+used)
	})

	assert.Equal(t, Selection{Hue: dataset.Sex, Kind: chart.KindBox, X: dataset.Sex}, sel)
	assert.Equal(t, []string{"ddl-hue-scatter-plot:tip->sex"}, reported)
}

func TestDefaultSelection(t *testing.T) {
	sel := DefaultSelection()
	assert.Equal(t, dataset.Sex, sel.Hue)
	assert.Equal(t, chart.KindBar, sel.Kind)
	assert.Equal(t, dataset.Sex, sel.X)
	assert.Equal(t, Values{
		"ddl-hue-scatter-plot":    "sex",
		"ddl-jenis-plot-category": "bar",
		"ddl-x-plot-category":     "sex",
	}, sel.Values())
}

func TestControlByID(t *testing.T) {
	c, ok := ControlByID("ddl-x-plot-category")
	require.True(t, ok)
	assert.Equal(t, CategoricalGraph, c.Output)

	_, ok = ControlByID("ddl-unknown")
	assert.False(t, ok)
}

func TestDispatcher_Routes(t *testing.T) {
	s := newState(t)
	d := NewDispatcher(s)

	assert.Equal(t, []Key{
		{Control: HueControl.ID, Event: EventChange},
		{Control: KindControl.ID, Event: EventChange},
		{Control: XControl.ID, Event: EventChange},
	}, d.Keys())

	out, err := d.Dispatch(Key{Control: HueControl.ID, Event: EventChange}, Values{HueControl.ID: "smoker"})
	require.NoError(t, err)
	assert.Equal(t, ScatterGraph, out.Graph)
	assert.Equal(t, []string{"No", "Yes"}, traceNames(out.Figure))
	assert.Equal(t, "smoker", out.Values[HueControl.ID])

	out, err = d.Dispatch(Key{Control: KindControl.ID, Event: EventChange}, Values{
		KindControl.ID: "box",
		XControl.ID:    "time",
	})
	require.NoError(t, err)
	assert.Equal(t, CategoricalGraph, out.Graph)
	require.NotEmpty(t, out.Figure.Data)
	for _, tr := range out.Figure.Data {
		assert.Equal(t, "box", tr.Type)
	}
	assert.Equal(t, "Time", out.Figure.Layout.XAxis.Title.Text)
}

func TestDispatcher_UsesOtherControlValue(t *testing.T) {
	d := NewDispatcher(newState(t))

	out, err := d.Dispatch(Key{Control: XControl.ID, Event: EventChange}, Values{
		KindControl.ID: "violin",
		XControl.ID:    "day",
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.Figure.Data)
	assert.Equal(t, "violin", out.Figure.Data[0].Type)
	assert.Equal(t, "Day", out.Figure.Layout.XAxis.Title.Text)
}

func TestDispatcher_UnknownKey(t *testing.T) {
	d := NewDispatcher(newState(t))

	_, err := d.Dispatch(Key{Control: "ddl-nope", Event: EventChange}, nil)
	assert.ErrorIs(t, err, ErrNoHandler)

	_, err = d.Dispatch(Key{Control: HueControl.ID, Event: "click"}, nil)
	assert.ErrorIs(t, err, ErrNoHandler)
}

func TestDispatcher_FallbackIsCounted(t *testing.T) {
	s := newState(t)
	d := NewDispatcher(s)

	out, err := d.Dispatch(Key{Control: HueControl.ID, Event: EventChange}, Values{HueControl.ID: "total_bill"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Female", "Male"}, traceNames(out.Figure))
	assert.Equal(t, "sex", out.Values[HueControl.ID])

	assert.Contains(t, scrape(t, s.Metrics()), `tipsdash_selector_fallbacks_total{control="ddl-hue-scatter-plot"} 1`)
}

func TestDispatcher_FailureIsReturned(t *testing.T) {
	s := newState(t)
	d := NewDispatcher(s)

	d.Register(HueControl, EventChange, func(Selection) (models.Figure, error) {
		return models.Figure{}, errors.New("boom")
	})
	_, err := d.Dispatch(Key{Control: HueControl.ID, Event: EventChange}, nil)
	assert.ErrorContains(t, err, "boom")

	d.Register(KindControl, EventChange, func(Selection) (models.Figure, error) {
		panic("broken")
	})
	_, err = d.Dispatch(Key{Control: KindControl.ID, Event: EventChange}, nil)
	assert.ErrorContains(t, err, "panic: broken")

	body := scrape(t, s.Metrics())
	assert.Contains(t, body, `tipsdash_figure_rebuild_failures_total{figure="scatterPlot"} 1`)
	assert.Contains(t, body, `tipsdash_figure_rebuild_failures_total{figure="categoricalPlot"} 1`)
}

func TestLayout(t *testing.T) {
	s := newState(t)
	tree := Layout(s, NewDispatcher(s))

	assert.Equal(t, NodePage, tree.Type)
	assert.Equal(t, "Purwadhika Dash Plotly", tree.Text)

	tabs := tree.Find("tabs")
	require.NotNil(t, tabs)
	var titles []string
	for _, tab := range tabs.Children {
		titles = append(titles, tab.Text)
	}
	assert.Equal(t, []string{"Tips Data Set", "Scatter Plot", "Categorical Plot"}, titles)

	var headings []string
	tree.Walk(func(n *Node) {
		if n.Type == NodeH1 {
			headings = append(headings, n.Text)
		}
	})
	assert.Equal(t, []string{
		"Purwadhika Dash Plotly",
		"Tips Data Set",
		"Scatter Plot Tips Data Set",
		"Categorical Plot Tips Data Set",
	}, headings)

	table, ok := tree.Find("table").Props["table"].(Table)
	require.True(t, ok)
	assert.Equal(t, []string{"total_bill", "tip", "sex", "smoker", "day", "time", "size"}, table.Columns)
	assert.Len(t, table.Rows, 10)

	for _, c := range Controls() {
		n := tree.Find(c.ID)
		require.NotNil(t, n, c.ID)
		assert.Equal(t, NodeDropdown, n.Type)
		assert.Equal(t, c.Options, n.Props["options"])
		assert.Equal(t, c.Default, n.Props["value"])
	}

	for _, id := range []string{ScatterGraph, CategoricalGraph} {
		n := tree.Find(id)
		require.NotNil(t, n, id)
		fig, ok := n.Props["figure"].(models.Figure)
		require.True(t, ok, id)
		assert.NotEmpty(t, fig.Data)
	}
}

func TestTableOf_Bounds(t *testing.T) {
	ds := dataset.New([]dataset.Record{
		{TotalBill: 16.99, Tip: 1.01, Sex: "Female", Smoker: "No", Day: "Sun", Time: "Dinner", Size: 2},
	}, "test")

	table := TableOf(ds, 10)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"16.99", "1.01", "Female", "No", "Sun", "Dinner", "2"}, table.Rows[0])

	assert.Empty(t, TableOf(ds, 0).Rows)
}

func TestLayout_JSON(t *testing.T) {
	s := newState(t)
	raw, err := json.Marshal(Layout(s, NewDispatcher(s)))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "page", decoded["type"])
	assert.Contains(t, string(raw), `"id":"ddl-jenis-plot-category"`)
}

func TestRender(t *testing.T) {
	s := newState(t)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Layout(s, NewDispatcher(s))))

	doc, err := html.Parse(&buf)
	require.NoError(t, err)

	byID := map[string]*html.Node{}
	var title string
	var rows, selected int
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Key == "id" {
					byID[a.Val] = n
				}
				if n.Data == "option" && a.Key == "selected" {
					selected++
				}
			}
			switch n.Data {
			case "title":
				title = n.FirstChild.Data
			case "tr":
				rows++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	assert.Equal(t, "Purwadhika Dash Plotly", title)
	assert.Equal(t, 11, rows, "header plus ten rows")
	assert.Equal(t, 3, selected)

	for _, id := range []string{"tab-one", "tab-two", "tab-three", HueControl.ID, KindControl.ID, XControl.ID, ScatterGraph, CategoricalGraph} {
		assert.Contains(t, byID, id)
	}

	script := byID["figure-"+ScatterGraph]
	require.NotNil(t, script)
	require.NotNil(t, script.FirstChild)

	var fig models.Figure
	require.NoError(t, json.NewDecoder(strings.NewReader(script.FirstChild.Data)).Decode(&fig))
	assert.Equal(t, []string{"Female", "Male"}, traceNames(fig))
	assert.Equal(t, "Total Bill", fig.Layout.XAxis.Title.Text)
}

func TestRender_RejectsNonPage(t *testing.T) {
	err := Render(io.Discard, &Node{Type: NodeDiv})
	assert.Error(t, err)
}
