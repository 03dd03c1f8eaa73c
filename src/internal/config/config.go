// FILE: eslogger/src/internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

// DefaultURL is the local Elasticsearch endpoint used when none is configured
const DefaultURL = "http://localhost:9200/"

// EnvPrefix prefixes every environment override
const EnvPrefix = "ESLOGGER_"

// Config is the complete eslogger configuration.
type Config struct {
	// Diagnostics of the logger itself
	Logging LogConfig `toml:"logging"`

	// Terminal rendering
	Console ConsoleConfig `toml:"console"`

	// Remote bulk sink
	Elastic ElasticConfig `toml:"elastic"`

	// Batch delivery loop
	Delivery DeliveryConfig `toml:"delivery"`

	// Source path prefix stripped from the "module" field
	PathPrefix string `toml:"path_prefix"`

	// Upper bound for the flush performed by Fatal, 0 waits indefinitely
	FatalFlushTimeoutMS int64 `toml:"fatal_flush_timeout_ms"`

	// Connect to Elastic.URL when the logger is created
	AutoConnect bool `toml:"auto_connect"`
}

// ConsoleConfig controls terminal output.
type ConsoleConfig struct {
	// "stdout" or "stderr"
	Target string `toml:"target"`

	// "auto", "always" or "never"
	Color string `toml:"color"`

	// text/template for a console line, empty selects the built-in layout
	Template string `toml:"template"`

	// Go time layout for the line timestamp
	TimestampFormat string `toml:"timestamp_format"`

	// Start with bright foreground colors
	Bold bool `toml:"bold"`
}

// DeliveryConfig controls the batch delivery loop.
type DeliveryConfig struct {
	BatchSize      int64  `toml:"batch_size"`
	IdleIntervalMS int64  `toml:"idle_interval_ms"`
	FlushPollMS    int64  `toml:"flush_poll_ms"`
	IndexPrefix    string `toml:"index_prefix"`

	// Mapping type written in the action line, empty omits it
	DocType string `toml:"doc_type"`

	// Entries must pass every filter to be shipped; console output is unaffected
	Filters []FilterConfig `toml:"filters"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Logging: *DefaultLogConfig(),
		Console: ConsoleConfig{
			Target:          "stdout",
			Color:           "auto",
			TimestampFormat: "15:04:05.0",
			Bold:            true,
		},
		Elastic: ElasticConfig{
			URL:            DefaultURL,
			TimeoutSeconds: 30,
			JWT: JWTConfig{
				Issuer:     "eslogger",
				TTLSeconds: 300,
			},
		},
		Delivery: DeliveryConfig{
			BatchSize:      100,
			IdleIntervalMS: 1000,
			FlushPollMS:    200,
			IndexPrefix:    "logger-",
		},
		FatalFlushTimeoutMS: 30000,
	}
}

// LoadWithCLI loads defaults, then the config file, environment and CLI
// arguments, highest precedence last in that list.
func LoadWithCLI(cliArgs []string) (*Config, error) {
	configPath := GetConfigPath()

	cfg, err := lconfig.NewBuilder().
		WithDefaults(Defaults()).
		WithEnvPrefix(EnvPrefix).
		WithFile(configPath).
		WithArgs(cliArgs).
		WithEnvTransform(customEnvTransform).
		WithSources(
			lconfig.SourceCLI,
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	finalConfig := &Config{}
	if err := cfg.Scan(finalConfig); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	return finalConfig, finalConfig.Validate()
}

func customEnvTransform(path string) string {
	env := strings.ReplaceAll(path, ".", "_")
	env = strings.ToUpper(env)
	env = EnvPrefix + env
	return env
}

// GetConfigPath resolves the config file from ESLOGGER_CONFIG_FILE and
// ESLOGGER_CONFIG_DIR, falling back to ~/.config/eslogger.toml.
func GetConfigPath() string {
	if configFile := os.Getenv(EnvPrefix + "CONFIG_FILE"); configFile != "" {
		if filepath.IsAbs(configFile) {
			return configFile
		}
		if configDir := os.Getenv(EnvPrefix + "CONFIG_DIR"); configDir != "" {
			return filepath.Join(configDir, configFile)
		}
		return configFile
	}

	if configDir := os.Getenv(EnvPrefix + "CONFIG_DIR"); configDir != "" {
		return filepath.Join(configDir, "eslogger.toml")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "eslogger.toml")
	}

	return "eslogger.toml"
}
