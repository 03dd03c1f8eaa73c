// FILE: eslogger/src/cmd/eslogger/flags.go
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"eslogger/src/internal/ansi"
	"eslogger/src/internal/config"
)

// Command-line flags
var (
	// General flags
	configFile  = flag.String("config", "", "Config file path")
	showVersion = flag.Bool("version", false, "Show version information")
	quiet       = flag.Bool("quiet", false, "Suppress all non-log output")
	writeConfig = flag.String("write-config", "", "Write the effective config as TOML to this path and exit")

	// Delivery flags
	elasticURL   = flag.String("url", "", "Elasticsearch base URL (overrides config)")
	connect      = flag.Bool("connect", true, "Connect to Elasticsearch after the console-only demo")
	flushTimeout = flag.Duration("flush-timeout", 10*time.Second, "Maximum wait for pending entries at shutdown")
	statusEvery  = flag.Duration("status-interval", 30*time.Second, "Interval of delivery status reports, 0 disables")
	metricsAddr  = flag.String("metrics-addr", "", "Serve Prometheus metrics at http://<addr>/metrics, empty disables")

	// Console flags
	colorMode = flag.String("color", "", "Color mode: auto, always, never (overrides config)")

	// Logging flags
	logOutput = flag.String("log-output", "", "Diagnostics output: file, stdout, stderr, both, none (overrides config)")
	logLevel  = flag.String("log-level", "", "Diagnostics level: debug, info, warn, error (overrides config)")
)

func init() {
	flag.Usage = customUsage
}

func customUsage() {
	fmt.Fprintf(os.Stderr, "eslogger - console and Elasticsearch logging demo\n\n")
	fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()

	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  # Console demo, then ship to a local node\n")
	fmt.Fprintf(os.Stderr, "  %s\n\n", os.Args[0])

	fmt.Fprintf(os.Stderr, "  # Console only, no colors\n")
	fmt.Fprintf(os.Stderr, "  %s -connect=false -color never\n\n", os.Args[0])

	fmt.Fprintf(os.Stderr, "  # Expose delivery metrics for scraping\n")
	fmt.Fprintf(os.Stderr, "  %s -metrics-addr :9464\n\n", os.Args[0])

	fmt.Fprintf(os.Stderr, "  # Save the effective config, including env overrides\n")
	fmt.Fprintf(os.Stderr, "  %s -write-config ./eslogger.toml\n\n", os.Args[0])

	fmt.Fprintf(os.Stderr, "  # Remote cluster with debug diagnostics\n")
	fmt.Fprintf(os.Stderr, "  %s -url https://search.example:9200 -log-level debug\n\n", os.Args[0])

	fmt.Fprintf(os.Stderr, "Environment Variables:\n")
	fmt.Fprintf(os.Stderr, "  ESLOGGER_CONFIG_FILE  Config file path\n")
	fmt.Fprintf(os.Stderr, "  ESLOGGER_CONFIG_DIR   Config directory\n")
	fmt.Fprintf(os.Stderr, "  ESLOGGER_<SECTION>_<KEY>  Any config value, e.g. ESLOGGER_ELASTIC_URL\n")
}

func parseFlags() error {
	flag.Parse()

	if *logOutput != "" {
		validOutputs := map[string]bool{
			"file": true, "stdout": true, "stderr": true,
			"both": true, "none": true,
		}
		if !validOutputs[*logOutput] {
			return fmt.Errorf("invalid log-output: %s (valid: file, stdout, stderr, both, none)", *logOutput)
		}
	}

	if *colorMode != "" {
		if _, err := ansi.ParseMode(*colorMode); err != nil {
			return fmt.Errorf("invalid color: %s (valid: auto, always, never)", *colorMode)
		}
	}

	if *flushTimeout < 0 {
		return fmt.Errorf("flush-timeout cannot be negative: %s", *flushTimeout)
	}

	return nil
}

// applyFlagOverrides copies explicitly set flags over the loaded config.
func applyFlagOverrides(cfg *config.Config) {
	if *elasticURL != "" {
		cfg.Elastic.URL = *elasticURL
	}
	if *colorMode != "" {
		cfg.Console.Color = *colorMode
	}
	if *logOutput != "" {
		cfg.Logging.Output = *logOutput
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *quiet {
		cfg.Logging.Output = "none"
	}
}
