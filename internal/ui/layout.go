package ui

import (
	"tipsdash/internal/dataset"
	"tipsdash/internal/models"
	"tipsdash/internal/state"
)

// Node types understood by the renderer.
const (
	NodePage     = "page"
	NodeTabs     = "tabs"
	NodeTab      = "tab"
	NodeDiv      = "div"
	NodeH1       = "h1"
	NodeP        = "p"
	NodeTable    = "table"
	NodeDropdown = "dropdown"
	NodeGraph    = "graph"
)

// Node is one element of the declarative page tree.
type Node struct {
	Type     string         `json:"type"`
	ID       string         `json:"id,omitempty"`
	Text     string         `json:"text,omitempty"`
	Class    string         `json:"class,omitempty"`
	Props    map[string]any `json:"props,omitempty"`
	Children []*Node        `json:"children,omitempty"`
}

// Find returns the first node in the subtree with the given id.
func (n *Node) Find(id string) *Node {
	if n == nil {
		return nil
	}
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits every node depth first.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Table is the tabular payload of a table node.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Layout builds the dashboard tree. Graphs carry their figures for the
// default selection so the page needs no round trip to draw.
func Layout(s *state.AppState, d *Dispatcher) *Node {
	figures := d.Initial()

	dataTab := &Node{Type: NodeTab, ID: "tab-one", Text: "Tips Data Set", Children: []*Node{
		{Type: NodeH1, Text: "Tips Data Set"},
		{Type: NodeTable, ID: "table", Props: map[string]any{
			"table": TableOf(s.Dataset(), s.TableMaxRows()),
		}},
	}}

	scatterTab := &Node{Type: NodeTab, ID: "tab-two", Text: "Scatter Plot", Children: []*Node{
		{Type: NodeH1, Text: "Scatter Plot Tips Data Set"},
		controlBlock("Hue : ", HueControl),
		graph(ScatterGraph, figures),
	}}

	categoricalTab := &Node{Type: NodeTab, ID: "tab-three", Text: "Categorical Plot", Children: []*Node{
		{Type: NodeH1, Text: "Categorical Plot Tips Data Set"},
		{Type: NodeDiv, Class: "row", Children: []*Node{
			controlBlock("Jenis : ", KindControl),
			controlBlock("X Axis : ", XControl),
		}},
		graph(CategoricalGraph, figures),
	}}

	return &Node{Type: NodePage, Text: s.Title(), Children: []*Node{
		{Type: NodeH1, Text: s.Title()},
		{Type: NodeTabs, ID: "tabs", Props: map[string]any{"value": "tab-one"}, Children: []*Node{
			dataTab, scatterTab, categoricalTab,
		}},
	}}
}

// TableOf returns the header and the first maxRows rows of ds.
func TableOf(ds *dataset.Dataset, maxRows int) Table {
	t := Table{Columns: ds.Columns()}

	for _, rec := range ds.Head(maxRows) {
		row := make([]string, 0, len(dataset.Columns))
		for _, col := range dataset.Columns {
			v, _ := rec.Value(col)
			row = append(row, v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func controlBlock(label string, c Control) *Node {
	return &Node{Type: NodeDiv, Class: "col", Children: []*Node{
		{Type: NodeP, Text: label},
		{Type: NodeDropdown, ID: c.ID, Props: map[string]any{
			"options": c.Options,
			"value":   c.Default,
		}},
	}}
}

func graph(id string, figures map[string]models.Figure) *Node {
	n := &Node{Type: NodeGraph, ID: id, Props: map[string]any{}}
	if fig, ok := figures[id]; ok {
		n.Props["figure"] = fig
	}
	return n
}
