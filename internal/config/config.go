// Package config provides configuration loading and management for the
// tips dashboard.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tipsdash/internal/dataset"
)

// Dataset source kinds
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// DefaultPort is the port the dashboard has always listened on.
const DefaultPort = 1997

// Config represents the complete dashboard configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Dataset DatasetConfig `yaml:"dataset"`
	Table   TableConfig   `yaml:"table"`
	Chart   ChartConfig   `yaml:"chart"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	// Host to bind (empty = all interfaces)
	Host string `yaml:"host"`
	// Port to bind (default: 1997)
	Port int `yaml:"port"`
	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// AllowedOrigins for CORS on the JSON API
	AllowedOrigins []string `yaml:"allowed_origins"`
	// Title is the browser page title
	Title string `yaml:"title"`
}

// DatasetConfig selects where the tips records come from
type DatasetConfig struct {
	// Source is one of embedded, file, postgres
	Source string `yaml:"source"`
	// Path is the CSV path for the file source
	Path string `yaml:"path"`
	// Postgres holds connection details for the postgres source
	Postgres dataset.PostgresConfig `yaml:"postgres"`
	// Table is the postgres table, optionally schema-qualified
	Table string `yaml:"table"`
	// OrderBy is an optional postgres column giving row order
	OrderBy string `yaml:"order_by"`
}

// TableConfig configures the dataset tab
type TableConfig struct {
	MaxRows int `yaml:"max_rows"`
}

// ChartConfig configures the plot builders
type ChartConfig struct {
	// GroupBy is the fixed grouping column of the categorical plot
	GroupBy string `yaml:"group_by"`
	// Measure is the numeric column on the categorical y axis
	Measure string `yaml:"measure"`
	// Palette overrides colors per group column
	Palette map[string][]string `yaml:"palette"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with the dashboard's original behaviour
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            DefaultPort,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"http://localhost:3000", "http://127.0.0.1:3000"},
			Title:           "Purwadhika Dash Plotly",
		},
		Dataset: DatasetConfig{
			Source: SourceEmbedded,
		},
		Table: TableConfig{
			MaxRows: 10,
		},
		Chart: ChartConfig{
			GroupBy: string(dataset.Sex),
			Measure: string(dataset.Tip),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}

	switch c.Dataset.Source {
	case SourceEmbedded:
	case SourceFile:
		if c.Dataset.Path == "" {
			return fmt.Errorf("dataset.path is required for the file source")
		}
	case SourcePostgres:
		if c.Dataset.Postgres.Host == "" || c.Dataset.Postgres.DBName == "" {
			return fmt.Errorf("dataset.postgres.host and dataset.postgres.dbname are required for the postgres source")
		}
		if c.Dataset.Table == "" {
			return fmt.Errorf("dataset.table is required for the postgres source")
		}
	default:
		return fmt.Errorf("dataset.source must be one of %s, %s, %s", SourceEmbedded, SourceFile, SourcePostgres)
	}

	if c.Table.MaxRows < 1 {
		return fmt.Errorf("table.max_rows must be positive")
	}

	groupBy, err := dataset.ParseColumn(c.Chart.GroupBy)
	if err != nil || !dataset.IsCategorical(groupBy) {
		return fmt.Errorf("chart.group_by must be a categorical column, got %q", c.Chart.GroupBy)
	}
	measure, err := dataset.ParseColumn(c.Chart.Measure)
	if err != nil || !dataset.IsNumeric(measure) {
		return fmt.Errorf("chart.measure must be a numeric column, got %q", c.Chart.Measure)
	}
	for name, colors := range c.Chart.Palette {
		col, err := dataset.ParseColumn(name)
		if err != nil || !dataset.IsCategorical(col) {
			return fmt.Errorf("chart.palette: %q is not a categorical column", name)
		}
		if len(colors) == 0 || slices.Contains(colors, "") {
			return fmt.Errorf("chart.palette.%s: colors must be non-empty", name)
		}
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	config, err := parseFile(path)
	if err != nil {
		return nil, err
	}

	merged := DefaultConfig()
	merged.Merge(config)
	return merged, nil
}

// parseFile decodes a YAML file without applying defaults
func parseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Server
	if other.Server.Host != "" {
		c.Server.Host = other.Server.Host
	}
	if other.Server.Port != 0 {
		c.Server.Port = other.Server.Port
	}
	if other.Server.ShutdownTimeout != 0 {
		c.Server.ShutdownTimeout = other.Server.ShutdownTimeout
	}
	if len(other.Server.AllowedOrigins) > 0 {
		c.Server.AllowedOrigins = other.Server.AllowedOrigins
	}
	if other.Server.Title != "" {
		c.Server.Title = other.Server.Title
	}

	// Dataset
	if other.Dataset.Source != "" {
		c.Dataset = other.Dataset
	}

	// Table
	if other.Table.MaxRows != 0 {
		c.Table.MaxRows = other.Table.MaxRows
	}

	// Chart
	if other.Chart.GroupBy != "" {
		c.Chart.GroupBy = other.Chart.GroupBy
	}
	if other.Chart.Measure != "" {
		c.Chart.Measure = other.Chart.Measure
	}
	if len(other.Chart.Palette) > 0 {
		if c.Chart.Palette == nil {
			c.Chart.Palette = make(map[string][]string)
		}
		for col, colors := range other.Chart.Palette {
			c.Chart.Palette[col] = colors
		}
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}
