package main

import (
	"io"
	"log/slog"
	"sip-stack/config"

	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger logs text to stderr, or JSON into a rotated file when one is
// configured.
func newLogger(cfg config.LogConfig, stderr io.Writer) (*slog.Logger, func() error) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	if cfg.File == "" {
		return slog.New(slog.NewTextHandler(stderr, opts)), func() error { return nil }
	}

	w := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
	return slog.New(slog.NewJSONHandler(w, opts)), w.Close
}
