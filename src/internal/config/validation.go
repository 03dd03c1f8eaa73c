// FILE: eslogger/src/internal/config/validation.go
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	lconfig "github.com/lixenwraith/config"
)

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}

	if err := validateLogConfig(&c.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	if err := validateConsole(&c.Console); err != nil {
		return fmt.Errorf("console config: %w", err)
	}
	if err := ValidateElastic(&c.Elastic); err != nil {
		return fmt.Errorf("elastic config: %w", err)
	}
	if err := validateDelivery(&c.Delivery); err != nil {
		return fmt.Errorf("delivery config: %w", err)
	}

	if c.FatalFlushTimeoutMS < 0 {
		return fmt.Errorf("fatal_flush_timeout_ms cannot be negative: %d", c.FatalFlushTimeoutMS)
	}

	return nil
}

func validateConsole(cfg *ConsoleConfig) error {
	switch cfg.Target {
	case "stdout", "stderr":
	default:
		return fmt.Errorf("invalid console target: %s", cfg.Target)
	}

	switch cfg.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color mode: %s", cfg.Color)
	}

	if cfg.TimestampFormat != "" && (time.Time{}).Format(cfg.TimestampFormat) == cfg.TimestampFormat {
		return fmt.Errorf("timestamp format has no time fields: %s", cfg.TimestampFormat)
	}

	return nil
}

// ValidateElastic checks endpoint and authentication settings.
func ValidateElastic(cfg *ElasticConfig) error {
	if err := lconfig.NonEmpty(cfg.URL); err != nil {
		return fmt.Errorf("url: %w", err)
	}

	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", cfg.URL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("url must use http or https: %s", cfg.URL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("url has no host: %s", cfg.URL)
	}

	if cfg.TimeoutSeconds < 1 {
		return fmt.Errorf("timeout must be positive: %d", cfg.TimeoutSeconds)
	}

	modes := 0
	if cfg.JWT.Secret != "" {
		modes++
		if cfg.JWT.TTLSeconds < 1 {
			return fmt.Errorf("jwt ttl must be positive: %d", cfg.JWT.TTLSeconds)
		}
	}
	if cfg.APIKey != "" {
		modes++
	}
	if cfg.Username != "" {
		modes++
	}
	if modes > 1 {
		return fmt.Errorf("only one of jwt, api_key or username may be set")
	}
	if cfg.Password != "" && cfg.Username == "" {
		return fmt.Errorf("password set without username")
	}

	if err := validateTLSVersion(cfg.TLS.MinVersion); err != nil {
		return fmt.Errorf("tls min_version: %w", err)
	}
	if err := validateTLSVersion(cfg.TLS.MaxVersion); err != nil {
		return fmt.Errorf("tls max_version: %w", err)
	}
	if (cfg.TLS.CertFile == "") != (cfg.TLS.KeyFile == "") {
		return fmt.Errorf("tls cert_file and key_file must be set together")
	}

	if cfg.RateLimit.Rate < 0 {
		return fmt.Errorf("rate limit cannot be negative: %f", cfg.RateLimit.Rate)
	}
	if cfg.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit burst cannot be negative: %d", cfg.RateLimit.Burst)
	}

	return nil
}

func validateTLSVersion(v string) error {
	switch strings.ToUpper(v) {
	case "", "TLS1.0", "TLS10", "TLS1.1", "TLS11", "TLS1.2", "TLS12", "TLS1.3", "TLS13":
		return nil
	default:
		return fmt.Errorf("unknown TLS version: %s", v)
	}
}

func validateDelivery(cfg *DeliveryConfig) error {
	if cfg.BatchSize < 1 {
		return fmt.Errorf("batch size must be positive: %d", cfg.BatchSize)
	}
	if cfg.IdleIntervalMS < 1 {
		return fmt.Errorf("idle interval must be positive: %d ms", cfg.IdleIntervalMS)
	}
	if cfg.FlushPollMS < 1 {
		return fmt.Errorf("flush poll interval must be positive: %d ms", cfg.FlushPollMS)
	}
	if err := lconfig.NonEmpty(cfg.IndexPrefix); err != nil {
		return fmt.Errorf("index prefix: %w", err)
	}
	if strings.ToLower(cfg.IndexPrefix) != cfg.IndexPrefix {
		return fmt.Errorf("index prefix must be lowercase: %s", cfg.IndexPrefix)
	}
	for i := range cfg.Filters {
		if err := validateFilter(i, &cfg.Filters[i]); err != nil {
			return err
		}
	}
	return nil
}
