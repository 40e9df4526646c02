package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// ProjectConfigFile is read from the working directory when present
const ProjectConfigFile = "tipsdash.yaml"

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
	getenv func(string) string
	dir    string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, getenv: os.Getenv}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. Project config (tipsdash.yaml in the working directory)
// 3. Explicit config file (path, if non-empty)
// 4. PORT environment variable
func (l *Loader) Load(path string) (*Config, error) {
	config := DefaultConfig()

	projectConfigPath := l.projectConfigPath()
	if projectConfigPath != "" {
		if _, err := os.Stat(projectConfigPath); err == nil {
			projectConfig, err := parseFile(projectConfigPath)
			if err != nil {
				return nil, err
			}
			l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
			config.Merge(projectConfig)
		}
	}

	if path != "" {
		explicit, err := parseFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config", slog.String("path", path))
		config.Merge(explicit)
	}

	if portStr := l.getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			config.Server.Port = port
		} else {
			l.logger.Warn("Ignoring invalid PORT", slog.String("value", portStr))
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (l *Loader) projectConfigPath() string {
	dir := l.dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = cwd
	}
	return filepath.Join(dir, ProjectConfigFile)
}
