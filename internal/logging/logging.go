// Package logging sets up the structured logger shared by the service
// binaries. Log records are JSON, written through a size-capped rotating
// file so long-running servers do not fill the disk.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger writing JSON records to dir/name.log with rotation,
// mirrored to stderr. An empty dir defaults to "logs".
func New(level, dir, name string) *slog.Logger {
	return build(level, dir, name, true)
}

// NewFileOnly is New without the stderr mirror, for binaries that own the
// terminal.
func NewFileOnly(level, dir, name string) *slog.Logger {
	return build(level, dir, name, false)
}

func build(level, dir, name string, mirror bool) *slog.Logger {
	if dir == "" {
		dir = "logs"
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, name+".log"),
		MaxSize:    32, // MB
		MaxBackups: 3,
		MaxAge:     14,
		Compress:   true,
	}

	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "%s: invalid log level, using info\n", level)
	}

	var out io.Writer = w
	if mirror {
		out = io.MultiWriter(w, os.Stderr)
	}
	h := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl})
	logger := slog.New(h)

	logger.Info("logger initialized",
		slog.String("GOARCH", runtime.GOARCH),
		slog.String("GOOS", runtime.GOOS),
		slog.Int("NumCPUs", runtime.NumCPU()))

	return logger
}
