// FILE: eslogger/src/eslog/diagnostics.go
package eslog

import (
	"fmt"
	"strings"

	"eslogger/src/internal/config"

	"github.com/lixenwraith/log"
)

// NewDiagnostics creates the logger that reports the Logger's own
// failures, configured from the logging section.
func NewDiagnostics(cfg *config.LogConfig) (*log.Logger, error) {
	logger := log.NewLogger()

	var configArgs []string

	levelValue, err := parseLogLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	configArgs = append(configArgs, fmt.Sprintf("level=%d", levelValue))

	switch cfg.Output {
	case "none":
		configArgs = append(configArgs, "disable_file=true", "enable_stdout=false")

	case "stdout", "stderr":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			fmt.Sprintf("stdout_target=%s", cfg.Output))

	case "file":
		configArgs = append(configArgs, "enable_stdout=false")
		configureFileLogging(&configArgs, cfg)

	case "both":
		configArgs = append(configArgs, "enable_stdout=true", "stdout_target=stderr")
		configureFileLogging(&configArgs, cfg)

	default:
		return nil, fmt.Errorf("invalid log output mode: %s", cfg.Output)
	}

	if err := logger.InitWithDefaults(configArgs...); err != nil {
		return nil, fmt.Errorf("failed to initialize diagnostics: %w", err)
	}
	return logger, nil
}

func configureFileLogging(configArgs *[]string, cfg *config.LogConfig) {
	*configArgs = append(*configArgs,
		fmt.Sprintf("directory=%s", cfg.File.Directory),
		fmt.Sprintf("name=%s", cfg.File.Name),
		fmt.Sprintf("max_size_mb=%d", cfg.File.MaxSizeMB),
		fmt.Sprintf("max_total_size_mb=%d", cfg.File.MaxTotalSizeMB))

	if cfg.File.RetentionHours > 0 {
		*configArgs = append(*configArgs,
			fmt.Sprintf("retention_period_hrs=%.1f", cfg.File.RetentionHours))
	}
}

func parseLogLevel(level string) (int, error) {
	switch strings.ToLower(level) {
	case "debug":
		return int(log.LevelDebug), nil
	case "info":
		return int(log.LevelInfo), nil
	case "warn", "warning":
		return int(log.LevelWarn), nil
	case "error":
		return int(log.LevelError), nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}
