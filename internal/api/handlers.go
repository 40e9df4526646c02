package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"tipsdash/internal/chart"
	"tipsdash/internal/dataset"
	"tipsdash/internal/export"
	"tipsdash/internal/models"
	"tipsdash/internal/state"
	"tipsdash/internal/ui"
)

// MaxBodySize bounds callback request bodies.
const MaxBodySize = 64 * 1024

type Handler struct {
	State      *state.AppState
	Dispatcher *ui.Dispatcher
	l          *slog.Logger
}

func NewHandler(s *state.AppState) *Handler {
	return &Handler{
		State:      s,
		Dispatcher: ui.NewDispatcher(s),
		l:          s.Logger().With(slog.String("module", "api")),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/health", h.HealthCheck)
	r.Handle("/metrics", h.State.Metrics().Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/layout", h.GetLayout)
		r.Get("/dataset", h.GetDataset)
		r.Get("/figures/scatter", h.GetScatterFigure)
		r.Get("/figures/categorical", h.GetCategoricalFigure)
		r.Post("/callback", h.Callback)
	})

	r.Get("/figures/scatter.png", h.GetScatterPNG)
	r.Get("/figures/categorical.png", h.GetCategoricalPNG)
}

// ============================================================================
// Page
// ============================================================================

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := ui.Render(&buf, ui.Layout(h.State, h.Dispatcher)); err != nil {
		h.l.Error("render page", slog.String("error", err.Error()))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (h *Handler) GetLayout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, ui.Layout(h.State, h.Dispatcher))
}

// ============================================================================
// Health
// ============================================================================

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Instance-ID", h.State.InstanceID())

	if r.Header.Get("Accept") == "application/json" {
		writeJSON(w, models.HealthResponse{
			Status:     "OK",
			InstanceID: h.State.InstanceID(),
			Rows:       h.State.Dataset().Len(),
			Uptime:     time.Since(h.State.StartedAt()).Round(time.Second).String(),
		})
		return
	}
	w.Write([]byte("OK"))
}

// ============================================================================
// Dataset
// ============================================================================

func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	rows := getIntParam(r, "rows", h.State.TableMaxRows())
	if rows < 0 {
		rows = 0
	}

	ds := h.State.Dataset()
	resp := models.DatasetResponse{
		Source:  ds.Source(),
		Total:   ds.Len(),
		Columns: ds.Columns(),
		Rows:    []map[string]string{},
	}
	for _, rec := range ds.Head(rows) {
		row := make(map[string]string, len(dataset.Columns))
		for _, col := range dataset.Columns {
			row[string(col)], _ = rec.Value(col)
		}
		resp.Rows = append(resp.Rows, row)
	}

	writeJSON(w, resp)
}

// ============================================================================
// Figures
// ============================================================================

func (h *Handler) GetScatterFigure(w http.ResponseWriter, r *http.Request) {
	h.serveFigure(w, ui.HueControl, queryValues(r, map[string]string{"hue": ui.HueControl.ID}))
}

func (h *Handler) GetCategoricalFigure(w http.ResponseWriter, r *http.Request) {
	h.serveFigure(w, ui.KindControl, queryValues(r, map[string]string{
		"kind": ui.KindControl.ID,
		"x":    ui.XControl.ID,
	}))
}

func (h *Handler) serveFigure(w http.ResponseWriter, c ui.Control, values ui.Values) {
	out, err := h.Dispatcher.Dispatch(ui.Key{Control: c.ID, Event: ui.EventChange}, values)
	if err != nil {
		http.Error(w, "Failed to build figure", http.StatusInternalServerError)
		return
	}
	writeJSON(w, out.Figure)
}

// Callback rebuilds the graph fed by a changed control. When the rebuild
// fails the response is empty so the page keeps its current figure.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	var req models.CallbackRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize)).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Control == "" {
		http.Error(w, "control is required", http.StatusBadRequest)
		return
	}
	if req.Event == "" {
		req.Event = string(ui.EventChange)
	}

	out, err := h.Dispatcher.Dispatch(ui.Key{Control: req.Control, Event: ui.Event(req.Event)}, req.Values)
	switch {
	case errors.Is(err, ui.ErrNoHandler):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, models.CallbackResponse{
		Graph:  out.Graph,
		Figure: out.Figure,
		Values: out.Values,
	})
}

// ============================================================================
// Images
// ============================================================================

func (h *Handler) GetScatterPNG(w http.ResponseWriter, r *http.Request) {
	sel := h.Dispatcher.Resolve(queryValues(r, map[string]string{"hue": ui.HueControl.ID}))

	h.servePNG(w, ui.ScatterGraph, func(buf *bytes.Buffer) error {
		series, err := h.State.Charts().ScatterSeries(sel.Hue)
		if err != nil {
			return err
		}
		return export.ScatterPNG(buf, series)
	})
}

func (h *Handler) GetCategoricalPNG(w http.ResponseWriter, r *http.Request) {
	sel := h.Dispatcher.Resolve(queryValues(r, map[string]string{
		"kind": ui.KindControl.ID,
		"x":    ui.XControl.ID,
	}))

	h.servePNG(w, ui.CategoricalGraph, func(buf *bytes.Buffer) error {
		series, err := h.State.Charts().CategoricalSeries(sel.Kind, sel.X)
		if err != nil {
			return err
		}
		return export.CategoricalPNG(buf, sel.Kind, chart.AxisLabel(sel.X), series)
	})
}

func (h *Handler) servePNG(w http.ResponseWriter, graph string, draw func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	start := time.Now()
	err := draw(&buf)
	h.State.Metrics().ObserveRebuild(graph+".png", start, err)
	if err != nil {
		h.l.Error("render image", slog.String("graph", graph), slog.String("error", err.Error()))
		http.Error(w, "Failed to render image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// ============================================================================
// Helpers
// ============================================================================

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// queryValues maps present query parameters to control values. Absent
// parameters are left out so they take the default without a warning.
func queryValues(r *http.Request, params map[string]string) ui.Values {
	q := r.URL.Query()
	values := ui.Values{}
	for param, control := range params {
		if q.Has(param) {
			values[control] = q.Get(param)
		}
	}
	return values
}

func getIntParam(r *http.Request, name string, defaultVal int) int {
	valStr := r.URL.Query().Get(name)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}
