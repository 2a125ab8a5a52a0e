package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/abs/internal/errors"
	"github.com/vango-dev/abs/pkg/component"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "abs.json"

	// YAMLConfigFileName is the name of the YAML configuration file.
	YAMLConfigFileName = "abs.yaml"

	// DefaultPort is the default inspection server port.
	DefaultPort = 4100

	// DefaultHost is the default inspection server host.
	DefaultHost = "localhost"

	// DefaultMaxBodyBytes caps documents posted to the inspection server.
	DefaultMaxBodyBytes = 4 << 20

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "abs"

	// DefaultHTTPTimeout bounds fetching http(s) documents.
	DefaultHTTPTimeout = "15s"
)

// configNames lists the files Load looks for, in order.
var configNames = []string{ConfigFileName, YAMLConfigFileName, "abs.yml"}

// Config represents the complete abs configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// AttributeSelector is the attribute naming a node's component tag.
	AttributeSelector string `json:"attributeSelector,omitempty" yaml:"attributeSelector,omitempty"`

	// NodeAttributeSelector is an alias of AttributeSelector.
	NodeAttributeSelector string `json:"nodeAttributeSelector,omitempty" yaml:"nodeAttributeSelector,omitempty"`

	// Components lists the tags the CLI registers for inspection.
	Components []string `json:"components,omitempty" yaml:"components,omitempty"`

	// Liveness selects the purge liveness check: "tag" or "identity".
	Liveness string `json:"liveness,omitempty" yaml:"liveness,omitempty"`

	// ContinueOnError makes discovery passes skip bad nodes instead of stopping.
	ContinueOnError bool `json:"continueOnError,omitempty" yaml:"continueOnError,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty" yaml:"log,omitempty"`

	// Serve contains inspection server configuration.
	Serve ServeConfig `json:"serve,omitempty" yaml:"serve,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// Sources contains document source configuration.
	Sources SourcesConfig `json:"sources,omitempty" yaml:"sources,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// ServeConfig contains inspection server settings.
type ServeConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// MaxBodyBytes caps the size of posted documents.
	MaxBodyBytes int64 `json:"maxBodyBytes,omitempty" yaml:"maxBodyBytes,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// SourcesConfig contains document source settings.
type SourcesConfig struct {
	// S3Region is the AWS region used for s3:// references.
	S3Region string `json:"s3Region,omitempty" yaml:"s3Region,omitempty"`

	// HTTPTimeout bounds http(s) fetches (e.g., "15s").
	HTTPTimeout string `json:"httpTimeout,omitempty" yaml:"httpTimeout,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		AttributeSelector: component.DefaultAttributeSelector,
		Liveness:          component.LivenessByTag.String(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Serve: ServeConfig{
			Host:         DefaultHost,
			Port:         DefaultPort,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Sources: SourcesConfig{
			HTTPTimeout: DefaultHTTPTimeout,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for abs.json, then abs.yaml, then abs.yml.
func Load(dir string) (*Config, error) {
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("A011").
		WithSubject(dir).
		WithSuggestion("create abs.json or abs.yaml, or pass --config")
}

// LoadFile reads configuration from the specified file path.
// The format follows the file extension; anything but .yaml/.yml is JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("A011").
				WithSubject(path).
				WithSuggestion("create abs.json or abs.yaml, or pass --config")
		}
		return nil, errors.New("A010").WithSubject(path).Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("A010").
			WithSubject(path).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid " + formatName(path))
	}

	cfg.configPath = path
	cfg.applyDefaults()

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
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("A010").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("A010").WithSubject(path).Wrap(err)
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
	// Selector - prefer attributeSelector, fall back to the legacy alias
	if c.AttributeSelector == "" || c.AttributeSelector == component.DefaultAttributeSelector {
		if c.NodeAttributeSelector != "" {
			c.AttributeSelector = c.NodeAttributeSelector
		}
	}
	if c.AttributeSelector == "" {
		c.AttributeSelector = component.DefaultAttributeSelector
	}
	if c.Liveness == "" {
		c.Liveness = component.LivenessByTag.String()
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Serve.Host == "" {
		c.Serve.Host = DefaultHost
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = DefaultPort
	}
	if c.Serve.MaxBodyBytes == 0 {
		c.Serve.MaxBodyBytes = DefaultMaxBodyBytes
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Sources.HTTPTimeout == "" {
		c.Sources.HTTPTimeout = DefaultHTTPTimeout
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.ContainsAny(c.AttributeSelector, " \t\n\"'>/=") {
		return errors.New("A012").
			WithSubject("attributeSelector").
			WithDetail("Attribute names cannot contain whitespace, quotes, '>', '/' or '='")
	}
	if _, err := component.ParseLiveness(c.Liveness); err != nil {
		return errors.New("A012").WithSubject("liveness").Wrap(err)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return errors.New("A012").WithSubject("log.level").Wrap(err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("A012").
			WithSubject("log.format").
			WithDetail("Log format must be text or json")
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return errors.New("A012").
			WithSubject("serve.port").
			WithDetail("Port must be between 0 and 65535")
	}
	if c.Serve.MaxBodyBytes < 0 {
		return errors.New("A012").WithSubject("serve.maxBodyBytes")
	}
	if _, err := time.ParseDuration(c.Sources.HTTPTimeout); err != nil {
		return errors.New("A012").WithSubject("sources.httpTimeout").Wrap(err)
	}
	return nil
}

// ServeAddress returns the listen address for the inspection server.
func (c *Config) ServeAddress() string {
	return fmt.Sprintf("%s:%d", c.Serve.Host, c.Serve.Port)
}

// HTTPTimeout returns the parsed fetch timeout, or the default on error.
func (c *Config) HTTPTimeout() time.Duration {
	d, err := time.ParseDuration(c.Sources.HTTPTimeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultHTTPTimeout)
	}
	return d
}

// LivenessMode returns the parsed liveness mode.
func (c *Config) LivenessMode() component.LivenessMode {
	mode, _ := component.ParseLiveness(c.Liveness)
	return mode
}

// ManagerOptions translates the configuration into component options.
func (c *Config) ManagerOptions(logger *slog.Logger) []component.Option {
	return []component.Option{
		component.WithAttributeSelector(c.AttributeSelector),
		component.WithLiveness(c.LivenessMode()),
		component.WithContinueOnError(c.ContinueOnError),
		component.WithLogger(logger),
	}
}

// NewLogger builds a slog.Logger writing to w according to Log.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func formatName(path string) string {
	if isYAML(path) {
		return "YAML"
	}
	return "JSON"
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range configNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("A011").
				WithDetail("No abs.json or abs.yaml found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or its closest ancestor holding a config file.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
