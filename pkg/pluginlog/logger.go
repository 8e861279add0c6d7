// Package pluginlog provides the structured logging engine for the plugin
// host, built on log/slog with an optional append-only audit sink for
// plugin lifecycle events (install, enable, disable, register_service).
package pluginlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Logger wraps slog.Logger with plugin-host-specific utilities.
type Logger struct {
	*slog.Logger
	auditW io.Writer // append-only audit log writer (nil = disabled)
}

// New constructs a Logger. level is one of "debug"/"info"/"warn"/"error";
// format is "json" or "text"; if hostHome is non-empty, an audit log is
// opened at hostHome/audit.log.
func New(level, format, hostHome string) (*Logger, error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	var auditW io.Writer
	if hostHome != "" {
		if err := os.MkdirAll(hostHome, 0o750); err == nil {
			auditPath := filepath.Join(hostHome, "audit.log")
			if af, err := os.OpenFile(auditPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640); err == nil {
				auditW = af
			}
		}
	}

	return &Logger{Logger: slog.New(handler), auditW: auditW}, nil
}

// PluginLevel maps the plugin ABI's 0-4 numeric log level onto slog. Levels
// at or above 4 (error) are always logged as errors.
func (l *Logger) PluginLevel(pluginID string, level int, message string) {
	switch {
	case level <= 0:
		l.Debug(message, "plugin", pluginID, "plugin_level", level)
	case level == 1:
		l.Debug(message, "plugin", pluginID, "plugin_level", level)
	case level == 2:
		l.Info(message, "plugin", pluginID, "plugin_level", level)
	case level == 3:
		l.Warn(message, "plugin", pluginID, "plugin_level", level)
	default:
		l.Error(message, "plugin", pluginID, "plugin_level", level)
	}
}

// AuditEntry represents a single plugin lifecycle audit event.
type AuditEntry struct {
	Timestamp time.Time `json:"ts"`
	Op        string    `json:"op"` // enable | disable | install | uninstall | register_service
	Plugin    string    `json:"plugin,omitempty"`
	Result    string    `json:"result"` // success | failure
	Detail    string    `json:"detail,omitempty"`
}

// Audit writes an append-only audit log entry for a plugin lifecycle event.
func (l *Logger) Audit(entry AuditEntry) {
	l.Info("audit", "op", entry.Op, "plugin", entry.Plugin, "result", entry.Result)
	if l.auditW == nil {
		return
	}
	line := fmt.Sprintf(`{"ts":%q,"op":%q,"plugin":%q,"result":%q,"detail":%q}`+"\n",
		entry.Timestamp.UTC().Format(time.RFC3339),
		entry.Op, entry.Plugin, entry.Result, entry.Detail,
	)
	_, _ = l.auditW.Write([]byte(line))
}
