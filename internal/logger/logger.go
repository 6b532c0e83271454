package logger

import (
	"io"
	"log"

	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

func levelFromString(s string) (l slog.Level, ok bool) {
	switch strings.ToLower(s) {
	case "debug", "dbg":
		return slog.LevelDebug, true
	case "info", "inf":
		return slog.LevelInfo, true
	case "warn", "wrn":
		return slog.LevelWarn, true
	case "error", "err":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// InitLogger routes the default slog logger to a file, creating the
// directory as needed.
func InitLogger(path, level string) {
	loglevel, _ := levelFromString(level)

	logDir := filepath.Dir(path)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.Fatal("Failed to create log directory:", err)
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatal("Failed to open log file:", err)
	}

	setDefault(logFile, loglevel)
}

// InitStderr routes the default slog logger to stderr, for one-shot CLI
// runs where a log file is just clutter.
func InitStderr(level string) {
	loglevel, _ := levelFromString(level)
	setDefault(os.Stderr, loglevel)
}

func setDefault(w io.Writer, level slog.Level) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
