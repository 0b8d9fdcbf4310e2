// Package config loads habitiviz settings from a YAML file, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/habitiviz/internal/graph"
	"github.com/spf13/viper"
)

const (
	appName   = "habitiviz"
	envPrefix = "HABITIVIZ"
)

// Config is the resolved configuration.
type Config struct {
	SourcePath string
	SourceURL  string
	SourceDB   string

	Graph        graph.Config
	CanvasWidth  int
	CanvasHeight int

	Timezone string
	Location *time.Location

	LogLevel string
	LogFile  string
}

// Default returns the built-in settings: a 500x100 canvas holding 50
// columns of 8px cells spaced 10px apart.
func Default() *Config {
	return &Config{
		SourcePath:   "./data/habitica-tasks-history.csv",
		Graph:        graph.DefaultConfig(),
		CanvasWidth:  500,
		CanvasHeight: 100,
		Timezone:     "Local",
		Location:     time.Local,
		LogLevel:     "info",
	}
}

// New returns a viper instance with defaults and environment binding set up.
// Flags may be bound to it before calling Load.
func New() *viper.Viper {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("source.path", cfg.SourcePath)
	v.SetDefault("source.url", cfg.SourceURL)
	v.SetDefault("source.db", cfg.SourceDB)
	v.SetDefault("graph.cell_size", cfg.Graph.CellSize)
	v.SetDefault("graph.cell_spacing", cfg.Graph.CellSpacing)
	v.SetDefault("graph.columns", cfg.Graph.Columns)
	v.SetDefault("canvas.width", cfg.CanvasWidth)
	v.SetDefault("canvas.height", cfg.CanvasHeight)
	v.SetDefault("timezone", cfg.Timezone)
	v.SetDefault("log.level", cfg.LogLevel)
	v.SetDefault("log.file", cfg.LogFile)
	return v
}

// Load reads file, or config.yaml from the user config directory when file
// is empty, and resolves the result. A missing config file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		SourcePath: v.GetString("source.path"),
		SourceURL:  v.GetString("source.url"),
		SourceDB:   v.GetString("source.db"),
		Graph: graph.Config{
			CellSize:    v.GetInt("graph.cell_size"),
			CellSpacing: v.GetInt("graph.cell_spacing"),
			Columns:     v.GetInt("graph.columns"),
		},
		CanvasWidth:  v.GetInt("canvas.width"),
		CanvasHeight: v.GetInt("canvas.height"),
		Timezone:     v.GetString("timezone"),
		LogLevel:     v.GetString("log.level"),
		LogFile:      v.GetString("log.file"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings and resolves the timezone.
func (c *Config) Validate() error {
	checks := []struct {
		name  string
		value int
	}{
		{"graph.cell_size", c.Graph.CellSize},
		{"graph.cell_spacing", c.Graph.CellSpacing},
		{"graph.columns", c.Graph.Columns},
		{"canvas.width", c.CanvasWidth},
		{"canvas.height", c.CanvasHeight},
	}
	for _, ch := range checks {
		if ch.value <= 0 {
			return fmt.Errorf("invalid %s %d: must be positive", ch.name, ch.value)
		}
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	c.Location = loc

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q", c.LogLevel)
	}
	return nil
}

// Dir returns ~/.config/habitiviz.
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, appName), nil
}

// LogPath returns the configured log file, falling back to
// ~/.config/habitiviz/habitiviz.log.
func (c *Config) LogPath() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".log"), nil
}
