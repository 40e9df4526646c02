package models

// Figure is a plotly.js figure: traces plus layout
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one plotly.js trace
type Trace struct {
	Type        string    `json:"type"`
	Mode        string    `json:"mode,omitempty"`
	Name        string    `json:"name"`
	LegendGroup string    `json:"legendgroup,omitempty"`
	OffsetGroup string    `json:"offsetgroup,omitempty"`
	ShowLegend  *bool     `json:"showlegend,omitempty"`
	X           []any     `json:"x"`
	Y           []float64 `json:"y"`
	Marker      *Marker   `json:"marker,omitempty"`
	ErrorY      *ErrorBar `json:"error_y,omitempty"`
	BoxPoints   string    `json:"boxpoints,omitempty"`
}

// Marker holds the visual style of a trace
type Marker struct {
	Color string      `json:"color"`
	Size  int         `json:"size,omitempty"`
	Line  *MarkerLine `json:"line,omitempty"`
}

// MarkerLine is the outline drawn around markers
type MarkerLine struct {
	Width float64 `json:"width"`
	Color string  `json:"color"`
}

// ErrorBar draws symmetric error bars from explicit values
type ErrorBar struct {
	Type    string    `json:"type"`
	Array   []float64 `json:"array"`
	Visible bool      `json:"visible"`
}

// Layout mirrors the subset of plotly.js layout the dashboard sets
type Layout struct {
	XAxis      Axis    `json:"xaxis"`
	YAxis      Axis    `json:"yaxis"`
	Margin     Margin  `json:"margin"`
	Legend     *Legend `json:"legend,omitempty"`
	HoverMode  string  `json:"hovermode,omitempty"`
	BarMode    string  `json:"barmode,omitempty"`
	BoxMode    string  `json:"boxmode,omitempty"`
	ViolinMode string  `json:"violinmode,omitempty"`
}

// Axis configures one axis
type Axis struct {
	Title AxisTitle `json:"title"`
}

// AxisTitle is the label under or beside an axis
type AxisTitle struct {
	Text string `json:"text"`
}

// Margin is the plot margin in pixels
type Margin struct {
	L int `json:"l"`
	B int `json:"b"`
	T int `json:"t"`
	R int `json:"r"`
}

// Legend positions the legend in normalized coordinates
type Legend struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
