package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Canvas() CanvasConfig
	Analysis() AnalysisConfig

	// Canvas Setters
	SetCanvasGridSize(float64)
	SetCanvasSnapToGrid(bool)

	// Analysis Setters
	SetAnalysisModelName(string)
	SetAnalysisExternalEngine(string)
}

// Config holds the entire application configuration. It uses private fields
// to enforce access through the Interface's getter methods; decoding goes
// through fileConfig because mapstructure cannot set unexported fields.
type Config struct {
	logger   LoggerConfig
	canvas   CanvasConfig
	analysis AnalysisConfig
}

// fileConfig is the exported decode target mirroring Config.
type fileConfig struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Canvas   CanvasConfig   `mapstructure:"canvas" yaml:"canvas"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig     { return c.logger }
func (c *Config) Canvas() CanvasConfig     { return c.canvas }
func (c *Config) Analysis() AnalysisConfig { return c.analysis }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetCanvasGridSize(s float64)        { c.canvas.GridSize = s }
func (c *Config) SetCanvasSnapToGrid(b bool)         { c.canvas.SnapToGrid = b }
func (c *Config) SetAnalysisModelName(n string)      { c.analysis.ModelName = n }
func (c *Config) SetAnalysisExternalEngine(e string) { c.analysis.ExternalEngine = e }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// CanvasConfig holds settings for the diagram canvas behavior.
type CanvasConfig struct {
	GridSize   float64 `mapstructure:"grid_size" yaml:"grid_size"`
	SnapToGrid bool    `mapstructure:"snap_to_grid" yaml:"snap_to_grid"`
	// DefaultConnector is the connector kind used when none is specified:
	// line, elbow, curved or arrow.
	DefaultConnector string `mapstructure:"default_connector" yaml:"default_connector"`
}

// AnalysisConfig holds settings for the threat analysis engine.
type AnalysisConfig struct {
	// ModelName labels the threat model in generated reports.
	ModelName string `mapstructure:"model_name" yaml:"model_name"`
	// ExternalEngine names an optional external analysis engine. Empty means
	// the built-in STRIDE engine is used directly.
	ExternalEngine string `mapstructure:"external_engine" yaml:"external_engine"`
	// ReportFormat selects the default report output format: json or text.
	ReportFormat string `mapstructure:"report_format" yaml:"report_format"`
	// WatchDebounce is how long the watch command waits after a file change
	// before re-running analysis, absorbing editor save bursts.
	WatchDebounce time.Duration `mapstructure:"watch_debounce" yaml:"watch_debounce"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	cfg, err := NewConfigFromViper(v)
	if err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "stridecanvas")
	v.SetDefault("logger.log_file", "stridecanvas.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Canvas --
	v.SetDefault("canvas.grid_size", 20.0)
	v.SetDefault("canvas.snap_to_grid", false)
	v.SetDefault("canvas.default_connector", "line")

	// -- Analysis --
	v.SetDefault("analysis.model_name", "Diagram Threat Model")
	v.SetDefault("analysis.external_engine", "")
	v.SetDefault("analysis.report_format", "json")
	v.SetDefault("analysis.watch_debounce", "500ms")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg := &Config{
		logger:   fc.Logger,
		canvas:   fc.Canvas,
		analysis: fc.Analysis,
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.canvas.GridSize <= 0 {
		return fmt.Errorf("canvas.grid_size must be a positive number")
	}
	switch c.canvas.DefaultConnector {
	case "line", "elbow", "curved", "arrow":
	default:
		return fmt.Errorf("canvas.default_connector must be one of line, elbow, curved, arrow")
	}
	switch c.analysis.ReportFormat {
	case "json", "text":
	default:
		return fmt.Errorf("analysis.report_format must be json or text")
	}
	if c.analysis.WatchDebounce < 0 {
		return fmt.Errorf("analysis.watch_debounce must not be negative")
	}
	return nil
}
