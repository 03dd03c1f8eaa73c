// FILE: eslogger/src/cmd/eslogger/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"eslogger/src/eslog"
	"eslogger/src/internal/config"
	"eslogger/src/internal/version"

	"github.com/lixenwraith/log"
	"github.com/prometheus/client_golang/prometheus"
)

var logger *log.Logger

func main() {
	if err := parseFlags(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	InitOutputHandler(*quiet)

	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	if *configFile != "" {
		os.Setenv(config.EnvPrefix+"CONFIG_FILE", *configFile)
	}

	cfg, err := loadConfig()
	if err != nil {
		if *configFile != "" && strings.Contains(err.Error(), "not found") {
			FatalError(2, "Config file not found: %s\n", *configFile)
		}
		FatalError(1, "Failed to load config: %v\n", err)
	}

	if *writeConfig != "" {
		if err := cfg.SaveToFile(*writeConfig); err != nil {
			FatalError(1, "Failed to write config: %v\n", err)
		}
		Print("Config written to %s\n", *writeConfig)
		os.Exit(0)
	}

	logger, err = eslog.NewDiagnostics(&cfg.Logging)
	if err != nil {
		FatalError(1, "Failed to initialize logger: %v\n", err)
	}
	defer shutdownLogger()

	logger.Info("msg", "eslogger starting",
		"version", version.String(),
		"config_file", config.GetConfigPath(),
		"url", cfg.Elastic.URL,
		"auth", cfg.Elastic.AuthMode())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := NewSignalHandler(logger)
	defer signals.Stop()

	l, err := bootstrapLogger(cfg)
	if err != nil {
		logger.Error("msg", "Failed to create logger", "error", err)
		shutdownLogger()
		os.Exit(1)
	}
	eslog.SetDefault(l)

	var metricsServer *MetricsServer
	if *metricsAddr != "" {
		metricsServer, err = StartMetricsServer(*metricsAddr, prometheus.DefaultGatherer, logger)
		if err != nil {
			logger.Error("msg", "Failed to start metrics server", "error", err)
			shutdownLogger()
			os.Exit(1)
		}
		Print("Metrics available at http://%s%s\n", metricsServer.Addr(), metricsPath)
	}

	consoleDemo()

	if !*connect {
		logStatus(l, "Console demo complete")
		return
	}

	if err := eslog.Connect(cfg.Elastic.URL); err != nil {
		logger.Error("msg", "Failed to connect", "url", cfg.Elastic.URL, "error", err)
		shutdownLogger()
		os.Exit(1)
	}

	connectedDemo()

	if *statusEvery > 0 {
		go statusReporter(ctx, l, *statusEvery)
	}

	Print("Entries are being delivered to %s, press Ctrl+C to stop\n", cfg.Elastic.URL)
	signals.Wait(ctx)

	shutdown(l)
	if metricsServer != nil {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer stopCancel()
		if err := metricsServer.Shutdown(stopCtx); err != nil {
			logger.Warn("msg", "Metrics server shutdown error", "error", err)
		}
	}
}

// loadConfig loads the layered configuration, then applies flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithCLI(nil)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(cfg)
	return cfg, cfg.Validate()
}

// bootstrapLogger creates the process logger sharing the diagnostics
// logger. Collectors join the default Prometheus registry only when the
// metrics endpoint is enabled.
func bootstrapLogger(cfg *config.Config) (*eslog.Logger, error) {
	opts := []eslog.Option{eslog.WithDiagnostics(logger)}
	if *metricsAddr != "" {
		opts = append(opts, eslog.WithRegisterer(prometheus.DefaultRegisterer))
	}
	return eslog.New(cfg, opts...)
}

// shutdown flushes within flush-timeout, then stops delivery.
func shutdown(l *eslog.Logger) {
	flushCtx, flushCancel := context.WithTimeout(context.Background(), *flushTimeout)
	defer flushCancel()

	if err := l.FlushContext(flushCtx); err != nil {
		logger.Warn("msg", "Shutdown flush incomplete",
			"pending", l.Stats().Buffer.Pending,
			"error", err)
	}
	l.Stop()

	select {
	case <-l.Done():
	case <-flushCtx.Done():
		logger.Warn("msg", "Delivery loop still running at shutdown")
	}

	logStatus(l, "Shutdown complete")
}

func shutdownLogger() {
	if logger != nil {
		if err := logger.Shutdown(2 * time.Second); err != nil {
			Error("Logger shutdown error: %v\n", err)
		}
	}
}
