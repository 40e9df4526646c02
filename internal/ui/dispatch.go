package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tipsdash/internal/models"
	"tipsdash/internal/state"
)

// Event is what happened to a control.
type Event string

const EventChange Event = "change"

var ErrNoHandler = errors.New("no handler registered")

// Key identifies a callback by control and event.
type Key struct {
	Control string
	Event   Event
}

// Output is the recomputed figure for one graph.
type Output struct {
	Graph  string
	Figure models.Figure
	Values Values
}

// HandlerFunc rebuilds a figure from a validated selection.
type HandlerFunc func(sel Selection) (models.Figure, error)

type route struct {
	graph   string
	handler HandlerFunc
}

// Dispatcher maps (control, event) to the handler that rebuilds the
// control's graph. The table is fixed once NewDispatcher returns.
type Dispatcher struct {
	state  *state.AppState
	routes map[Key]route
	l      *slog.Logger
}

// NewDispatcher registers the dashboard callbacks.
func NewDispatcher(s *state.AppState) *Dispatcher {
	d := &Dispatcher{
		state:  s,
		routes: make(map[Key]route),
		l:      s.Logger().With(slog.String("module", "dispatch")),
	}

	scatter := func(sel Selection) (models.Figure, error) {
		return s.Charts().ScatterFigure(sel.Hue)
	}
	categorical := func(sel Selection) (models.Figure, error) {
		return s.Charts().CategoricalFigure(sel.Kind, sel.X)
	}

	d.Register(HueControl, EventChange, scatter)
	d.Register(KindControl, EventChange, categorical)
	d.Register(XControl, EventChange, categorical)
	return d
}

// Register routes (c.ID, ev) to h, replacing any earlier handler.
func (d *Dispatcher) Register(c Control, ev Event, h HandlerFunc) {
	d.routes[Key{Control: c.ID, Event: ev}] = route{graph: c.Output, handler: h}
}

// Keys lists the registered callbacks.
func (d *Dispatcher) Keys() []Key {
	keys := make([]Key, 0, len(d.routes))
	for _, c := range Controls() {
		k := Key{Control: c.ID, Event: EventChange}
		if _, ok := d.routes[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// Resolve validates values, logging and counting every fallback.
func (d *Dispatcher) Resolve(values Values) Selection {
	return Resolve(values, func(control, got, used string) {
		d.l.Warn("selector value out of domain, using default",
			slog.String("control", control),
			slog.String("value", got),
			slog.String("default", used))
		d.state.Metrics().Fallback(control)
	})
}

// Dispatch runs the handler for key with the current control values.
// A handler error or panic is returned as an error so the caller can
// keep the previous figure.
func (d *Dispatcher) Dispatch(key Key, values Values) (out Output, err error) {
	r, ok := d.routes[key]
	if !ok {
		return Output{}, fmt.Errorf("%w: %s/%s", ErrNoHandler, key.Control, key.Event)
	}

	sel := d.Resolve(values)
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("rebuild %s: panic: %v", r.graph, rec)
		}
		d.state.Metrics().ObserveRebuild(r.graph, start, err)
		if err != nil {
			d.l.Error("figure rebuild failed", slog.String("graph", r.graph), slog.String("error", err.Error()))
		}
	}()

	fig, err := r.handler(sel)
	if err != nil {
		return Output{}, fmt.Errorf("rebuild %s: %w", r.graph, err)
	}
	return Output{Graph: r.graph, Figure: fig, Values: sel.Values()}, nil
}

// Initial builds every graph for the default selection.
func (d *Dispatcher) Initial() map[string]models.Figure {
	figures := make(map[string]models.Figure)
	for _, k := range d.Keys() {
		r := d.routes[k]
		if _, done := figures[r.graph]; done {
			continue
		}
		out, err := d.Dispatch(k, DefaultSelection().Values())
		if err != nil {
			continue
		}
		figures[out.Graph] = out.Figure
	}
	return figures
}
