package config

import (
	"context"
	"log/slog"
)

// Log logs the resolved settings in a granular way, skipping irrelevant ones
func Log(s *Settings) {
	LogWithLogger(s, slog.Default())
}

// LogWithLogger logs the resolved settings using the provided logger
func LogWithLogger(s *Settings, logger *slog.Logger) {
	ctx := context.Background()
	logger.InfoContext(ctx, "Config: corpus.dir", "value", s.Corpus.Dir)
	logger.InfoContext(ctx, "Config: corpus.output_dir", "value", s.Corpus.OutputDir)
	logger.InfoContext(ctx, "Config: serve.host", "value", s.Serve.Host)
	logger.InfoContext(ctx, "Config: serve.port", "value", s.Serve.Port)
	if s.Serve.StaticDir != "" {
		logger.InfoContext(ctx, "Config: serve.static_dir", "value", s.Serve.StaticDir)
	}
	logger.InfoContext(ctx, "Config: serve.max_results", "value", s.Serve.MaxResults)
}

// SettingsLogValue returns a slog.Value for Settings
func SettingsLogValue(s Settings) slog.Value {
	return slog.GroupValue(
		slog.Group("corpus",
			slog.String("dir", s.Corpus.Dir),
			slog.String("output_dir", s.Corpus.OutputDir),
		),
		slog.Group("serve",
			slog.String("host", s.Serve.Host),
			slog.Int("port", s.Serve.Port),
			slog.String("static_dir", s.Serve.StaticDir),
			slog.Int("max_results", s.Serve.MaxResults),
		),
	)
}
