package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vango-dev/retree/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "retree.json"

	// DefaultPort is the default inspector port.
	DefaultPort = 7070

	// DefaultHost is the default inspector host.
	DefaultHost = "localhost"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "retree"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "github.com/vango-dev/retree"

	// DefaultSnapshotDir is the default directory for exported snapshots.
	DefaultSnapshotDir = "snapshots"
)

// Config represents the complete retree.json configuration.
type Config struct {
	// Log contains logger configuration.
	Log LogConfig `json:"log"`

	// Inspector contains inspector server configuration.
	Inspector InspectorConfig `json:"inspector"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing"`

	// Snapshot contains export configuration.
	Snapshot SnapshotConfig `json:"snapshot"`

	configPath string
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// InspectorConfig configures the inspector HTTP server.
type InspectorConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`
}

// MetricsConfig configures tree event metrics.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig configures reconcile cycle spans.
type TracingConfig struct {
	TracerName string `json:"tracerName,omitempty"`
}

// SnapshotConfig configures where exported snapshots go. When S3.Bucket is
// set snapshots are uploaded, otherwise they are written under Dir.
type SnapshotConfig struct {
	Dir string   `json:"dir,omitempty"`
	S3  S3Config `json:"s3,omitempty"`
}

// S3Config names the export bucket.
type S3Config struct {
	Bucket string `json:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Region string `json:"region,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Inspector: InspectorConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
		Snapshot: SnapshotConfig{
			Dir: DefaultSnapshotDir,
		},
	}
}

// Load reads retree.json from dir. A missing file yields the defaults.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	cfg, err := LoadFile(path)
	if err != nil && !Exists(dir) {
		cfg = New()
		cfg.configPath = path
		return cfg, nil
	}
	return cfg, err
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E120").
				WithDetail("No " + ConfigFileName + " found at " + path).
				WithSuggestion("Create the file or omit --config to use the defaults")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Inspector.Host == "" {
		c.Inspector.Host = DefaultHost
	}
	if c.Inspector.Port == 0 {
		c.Inspector.Port = DefaultPort
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = DefaultSnapshotDir
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Inspector.Port < 0 || c.Inspector.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 0 and 65535")
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E123").WithSubject("%s", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E120").
			WithDetail("log.format must be \"text\" or \"json\", got " + strconv.Quote(c.Log.Format))
	}
	if c.Snapshot.S3.Bucket != "" && c.Snapshot.S3.Region == "" {
		return errors.New("E121").
			WithDetail("snapshot.s3.region is required when snapshot.s3.bucket is set")
	}
	return nil
}

// InspectorAddress returns the listen address of the inspector.
func (c *Config) InspectorAddress() string {
	return c.Inspector.Host + ":" + strconv.Itoa(c.Inspector.Port)
}

// SnapshotPath returns the absolute path of the snapshot directory.
func (c *Config) SnapshotPath() string {
	if filepath.IsAbs(c.Snapshot.Dir) {
		return c.Snapshot.Dir
	}
	return filepath.Join(c.Dir(), c.Snapshot.Dir)
}

// UsesS3 reports whether snapshots are exported to S3.
func (c *Config) UsesS3() bool {
	return c.Snapshot.S3.Bucket != ""
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
