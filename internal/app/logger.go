package app

import (
	"strings"

	"github.com/OluRemiFour/OctoOps-backend/pkg/logger"
)

// ConfigureLogging initialises the global logger with the provided level, defaulting to info.
// When cfg.File is set, output is also written to a rotated log file.
func ConfigureLogging(level string, cfg LogConfig) error {
	level = strings.TrimSpace(level)
	if level == "" {
		level = "info"
	}
	return logger.Configure(logger.Options{
		Level:  level,
		Format: cfg.Format,
		File: logger.FileOptions{
			Path:       strings.TrimSpace(cfg.File),
			MaxSizeMB:  cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAgeDays: cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		},
	})
}
