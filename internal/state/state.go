package state

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tipsdash/internal/chart"
	"tipsdash/internal/config"
	"tipsdash/internal/dataset"
	"tipsdash/internal/metrics"
)

// AppState is the process-wide context: built once at startup, then only
// read.
type AppState struct {
	instanceID   string
	startedAt    time.Time
	title        string
	tableMaxRows int

	dataset *dataset.Dataset
	charts  *chart.Builder
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Load builds the dataset source named by cfg, loads it and assembles the
// state. A load failure is fatal for the caller.
func Load(ctx context.Context, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (*AppState, error) {
	src, err := SourceFor(cfg.Dataset)
	if err != nil {
		return nil, err
	}

	ds, err := dataset.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return New(ds, cfg, logger, m)
}

// New assembles the state around an already loaded dataset.
func New(ds *dataset.Dataset, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (*AppState, error) {
	if logger == nil {
		logger = slog.Default()
	}

	palette := chart.DefaultPalette()
	overrides := chart.Palette{}
	for name, colors := range cfg.Chart.Palette {
		col, err := dataset.ParseColumn(name)
		if err != nil {
			return nil, fmt.Errorf("palette: %w", err)
		}
		overrides[col] = colors
	}

	groupBy, err := dataset.ParseColumn(cfg.Chart.GroupBy)
	if err != nil {
		return nil, fmt.Errorf("group column: %w", err)
	}
	measure, err := dataset.ParseColumn(cfg.Chart.Measure)
	if err != nil {
		return nil, fmt.Errorf("measure: %w", err)
	}

	charts, err := chart.New(ds,
		chart.WithPalette(palette.Merge(overrides)),
		chart.WithGroupBy(groupBy),
		chart.WithMeasure(measure),
		chart.WithLogger(logger),
		chart.WithOverflowHook(func(col dataset.Column) { m.PaletteOverflow(string(col)) }),
	)
	if err != nil {
		return nil, err
	}

	s := &AppState{
		instanceID:   uuid.NewString(),
		startedAt:    time.Now(),
		title:        cfg.Server.Title,
		tableMaxRows: cfg.Table.MaxRows,
		dataset:      ds,
		charts:       charts,
		metrics:      m,
		logger:       logger,
	}

	logger.Info("Dataset loaded",
		slog.String("source", ds.Source()),
		slog.Int("rows", ds.Len()),
		slog.String("instance_id", s.instanceID))
	return s, nil
}

// SourceFor maps the dataset config to a Source.
func SourceFor(cfg config.DatasetConfig) (dataset.Source, error) {
	switch cfg.Source {
	case config.SourceEmbedded, "":
		return dataset.EmbeddedSource{}, nil
	case config.SourceFile:
		return dataset.FileSource{Path: cfg.Path}, nil
	case config.SourcePostgres:
		return dataset.PostgresSource{Config: cfg.Postgres, Table: cfg.Table, OrderBy: cfg.OrderBy}, nil
	}
	return nil, fmt.Errorf("unknown dataset source %q", cfg.Source)
}

// InstanceID identifies this process in health checks and logs.
func (s *AppState) InstanceID() string { return s.instanceID }

// StartedAt is when the state was built.
func (s *AppState) StartedAt() time.Time { return s.startedAt }

// Title is the page title.
func (s *AppState) Title() string { return s.title }

// TableMaxRows is how many rows the dataset tab shows.
func (s *AppState) TableMaxRows() int { return s.tableMaxRows }

// Dataset returns the loaded dataset.
func (s *AppState) Dataset() *dataset.Dataset { return s.dataset }

// Charts returns the figure builder.
func (s *AppState) Charts() *chart.Builder { return s.charts }

// Metrics returns the collectors; may be nil.
func (s *AppState) Metrics() *metrics.Metrics { return s.metrics }

// Logger returns the application logger.
func (s *AppState) Logger() *slog.Logger { return s.logger }
