package configs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "APIDOCGEN"

// FileConfig defines the structure loaded from the YAML configuration file.
type FileConfig struct {
	Input      string   `yaml:"input"`
	Output     string   `yaml:"output"`
	Manifest   string   `yaml:"manifest"`
	BaseURL    string   `yaml:"base_url"`
	DocsPrefix string   `yaml:"docs_prefix"`
	Categories []string `yaml:"categories"`
	LeafPolicy string   `yaml:"leaf_policy"`
	MaxDepth   int      `yaml:"max_depth"`
	LogLevel   string   `yaml:"log_level"`
}

// Config holds the final application configuration. Values come from, in increasing order of
// precedence: defaults, the YAML file, environment variables prefixed with "APIDOCGEN_".
// Command line flags are applied on top by the caller.
type Config struct {
	// Config File Path (Loaded first from env)
	ConfigFilePath string `envconfig:"CONFIG_FILE"`

	Input      string   `envconfig:"INPUT" default:"apifox-export.json"`
	Output     string   `envconfig:"OUTPUT" default:"docs/api"`
	Manifest   string   `envconfig:"MANIFEST"`
	BaseURL    string   `envconfig:"BASE_URL" default:"https://gptproto.com"`
	DocsPrefix string   `envconfig:"DOCS_PREFIX" default:"api"`
	Categories []string `envconfig:"CATEGORIES"`
	LeafPolicy string   `envconfig:"LEAF_POLICY" default:"exclusive"`
	MaxDepth   int      `envconfig:"MAX_DEPTH" default:"64"`

	OtelExporterOtlpEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelExporterOtlpInsecure bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
	LogLevel                 string `envconfig:"LOG_LEVEL" default:"info"`
}

// ParsedLogLevel returns the slog.Level based on the configured LogLevel string.
func (c *Config) ParsedLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// Load reads the environment, then the optional YAML file named by APIDOCGEN_CONFIG_FILE.
// File values fill only the settings whose environment variable is unset.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if cfg.ConfigFilePath == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(cfg.ConfigFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", cfg.ConfigFilePath, err)
	}
	var fileCfg FileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file '%s': %w", cfg.ConfigFilePath, err)
	}
	cfg.applyFile(fileCfg)
	slog.Debug("Loaded configuration from file", slog.String("path", cfg.ConfigFilePath))

	return &cfg, nil
}

// applyFile copies non-empty file values into settings not set in the environment.
func (c *Config) applyFile(f FileConfig) {
	setString := func(env string, dst *string, v string) {
		if v != "" && !envSet(env) {
			*dst = v
		}
	}
	setString("INPUT", &c.Input, f.Input)
	setString("OUTPUT", &c.Output, f.Output)
	setString("MANIFEST", &c.Manifest, f.Manifest)
	setString("BASE_URL", &c.BaseURL, f.BaseURL)
	setString("DOCS_PREFIX", &c.DocsPrefix, f.DocsPrefix)
	setString("LEAF_POLICY", &c.LeafPolicy, f.LeafPolicy)
	setString("LOG_LEVEL", &c.LogLevel, f.LogLevel)

	if len(f.Categories) > 0 && !envSet("CATEGORIES") {
		c.Categories = f.Categories
	}
	if f.MaxDepth > 0 && !envSet("MAX_DEPTH") {
		c.MaxDepth = f.MaxDepth
	}
}

func envSet(name string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + name)
	return ok
}
