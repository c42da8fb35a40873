package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/rmx/internal/errors"
)

// ConfigFileName is the default configuration file name.
const ConfigFileName = "rmx.json"

// ConfigFileNames lists the recognised configuration files in lookup order.
var ConfigFileNames = []string{ConfigFileName, "rmx.yaml", "rmx.yml"}

// Default configuration values.
const (
	DefaultPort             = 3000
	DefaultHost             = "localhost"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultConcurrency      = 4
	DefaultMetricsNamespace = "rmx"
	DefaultMetricsPath      = "/metrics"
	DefaultClientScript     = "/static/rmx.js"
	DefaultFramePrefix      = "/frames/"
	DefaultDemo             = "inbox"
)

// Config represents the rmx configuration file.
type Config struct {
	// Name of the project, used as the page title by the demo server.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Server configures `rmx serve`.
	Server ServerConfig `json:"server" yaml:"server"`

	// Log configures the slog handler the CLI installs.
	Log LogConfig `json:"log" yaml:"log"`

	// Render configures server rendering.
	Render RenderConfig `json:"render" yaml:"render"`

	// Hydrate configures the client hydrator.
	Hydrate HydrateConfig `json:"hydrate" yaml:"hydrate"`

	// Metrics configures the prometheus collectors.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Demo is the demo page rendered when no name is given.
	Demo string `json:"demo,omitempty" yaml:"demo,omitempty"`

	// configPath is the path to the config file (not serialized).
	configPath string
}

// ServerConfig configures the demo HTTP server.
type ServerConfig struct {
	// Host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// FramePrefix is the URL prefix frame sources are served under.
	FramePrefix string `json:"framePrefix,omitempty" yaml:"framePrefix,omitempty"`

	// ClientScript is the module script tag emitted at the end of the body.
	ClientScript string `json:"clientScript,omitempty" yaml:"clientScript,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// RenderConfig configures the server renderer.
type RenderConfig struct {
	// Pretty enables indented output outside hydration regions.
	Pretty bool `json:"pretty,omitempty" yaml:"pretty,omitempty"`

	// Indent is the indentation string used when Pretty is set.
	Indent string `json:"indent,omitempty" yaml:"indent,omitempty"`
}

// HydrateConfig configures the hydration client.
type HydrateConfig struct {
	// Concurrency bounds parallel module loads.
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
}

// MetricsConfig configures metrics.
type MetricsConfig struct {
	// Enabled toggles the /metrics endpoint.
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`

	// Path is the URL path metrics are served on.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load finds and loads the configuration for dir. The directory and its
// parents are searched for one of ConfigFileNames.
func Load(dir string) (*Config, error) {
	root, name, err := FindProjectRoot(dir)
	if err != nil {
		return nil, err
	}
	return LoadFile(filepath.Join(root, name))
}

// LoadFile loads configuration from a specific file path. The format is
// chosen by extension.
func LoadFile(path string) (*Config, error) {
	unmarshal, err := decoderFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetailf("%s does not exist", path).
				WithSuggestion("Create an rmx.json or rmx.yaml file")
		}
		return nil, errors.New(errors.CodeConfigNotFound).Wrap(err)
	}

	cfg := New()
	if err := unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigInvalid).
			WithDetailf("%s: %v", filepath.Base(path), err).
			Wrap(err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	cfg.configPath = abs
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decoderFor(path string) (func([]byte, any) error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Unmarshal, nil
	case ".yaml", ".yml":
		return yaml.Unmarshal, nil
	}
	return nil, errors.New(errors.CodeConfigFormat).
		WithDetailf("unsupported config file %q", filepath.Base(path)).
		WithSuggestion("Use a .json, .yaml or .yml file")
}

// Save writes the configuration back to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New(errors.CodeConfigNotFound).
			WithDetail("Config was not loaded from a file")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path, encoded by extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		_, err = decoderFor(path)
		return err
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	c.configPath = path
	return nil
}

// Path returns the path to the config file.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return "."
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in zero values.
func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "rmx"
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.FramePrefix == "" {
		c.Server.FramePrefix = DefaultFramePrefix
	}
	if c.Server.ClientScript == "" {
		c.Server.ClientScript = DefaultClientScript
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Render.Indent == "" {
		c.Render.Indent = "  "
	}
	if c.Hydrate.Concurrency == 0 {
		c.Hydrate.Concurrency = DefaultConcurrency
	}
	if c.Metrics.Enabled == nil {
		enabled := true
		c.Metrics.Enabled = &enabled
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Demo == "" {
		c.Demo = DefaultDemo
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("server.port must be between 0 and 65535, got %d", c.Server.Port)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Hydrate.Concurrency < 0 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("hydrate.concurrency must not be negative, got %d", c.Hydrate.Concurrency)
	}
	if !strings.HasPrefix(c.Server.FramePrefix, "/") || !strings.HasSuffix(c.Server.FramePrefix, "/") {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("server.framePrefix must start and end with '/', got %q", c.Server.FramePrefix)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("metrics.path must start with '/', got %q", c.Metrics.Path)
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errors.New(errors.CodeConfigInvalid).
			WithDetailf("log.level must be debug, info, warn or error, got %q", c.Log.Level).
			Wrap(err)
	}
	return level, nil
}

// MetricsEnabled reports whether the /metrics endpoint is served.
func (c *Config) MetricsEnabled() bool {
	return c.Metrics.Enabled == nil || *c.Metrics.Enabled
}

// Address returns the listen address for the server.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// URL returns the base URL of the server.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// Exists reports whether dir contains a config file, returning its name.
func Exists(dir string) (string, bool) {
	for _, name := range ConfigFileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return name, true
		}
	}
	return "", false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory and the config file name found in it.
func FindProjectRoot(startDir string) (string, string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", "", err
	}

	for {
		if name, ok := Exists(dir); ok {
			return dir, name, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", errors.New(errors.CodeConfigNotFound).
				WithDetailf("No rmx.json or rmx.yaml found in %s or any parent directory", startDir).
				WithSuggestion("Run 'rmx' with --config, or create an rmx.json file")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
// A project without a config file gets the defaults.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := Load(wd)
	if errors.Is(err, errors.CodeConfigNotFound) {
		return New(), nil
	}
	return cfg, err
}
