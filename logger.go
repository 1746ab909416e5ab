// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framelink

import (
	"log/slog"

	"github.com/gogpu/framelink/internal/logx"
)

// SetLogger configures the logger for framelink and all its sub-packages.
// By default, framelink produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by framelink:
//   - [slog.LevelDebug]: per-frame diagnostics (missing drawables, skipped passes)
//   - [slog.LevelInfo]: lifecycle events (display link created, device opened)
//   - [slog.LevelWarn]: non-fatal issues (timer start failures, submit errors)
//
// Example:
//
//	// Enable debug-level logging to stderr:
//	framelink.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logx.SetLogger(l)
}

// Logger returns the current logger used by framelink.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logx.Logger()
}
