package logger

import (
	"os"
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// Logger is the printf-style surface used by main packages.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type Fields map[string]any

// Log works at info level until Init is called.
var Log Logger = NewLogger("info")

// Init replaces Log. LOG_LEVEL overrides level.
func Init(level string) {
	if env := strings.TrimSpace(os.Getenv("LOG_LEVEL")); env != "" {
		level = env
	}
	if level = strings.ToLower(level); level == "" {
		level = "info"
	}
	Log = NewLogger(level)
}

// NewLogger writes one JSON object per line to the console. Only datetime,
// level and message are base keys; fields are merged in at the top level.
func NewLogger(level string) Logger {
	threshold := slog.LevelByName(level)
	enabled := make(slog.Levels, 0, len(slog.AllLevels))
	for _, lv := range slog.AllLevels {
		if lv <= threshold {
			enabled = append(enabled, lv)
		}
	}

	h := handler.NewConsoleHandler(enabled)
	h.SetFormatter(slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{slog.FieldKeyDatetime, slog.FieldKeyLevel, slog.FieldKeyMessage}
		f.Aliases = slog.StringMap{
			slog.FieldKeyDatetime: "datetime",
			slog.FieldKeyLevel:    "level",
			slog.FieldKeyMessage:  "message",
		}
		f.TimeFormat = "2006-01-02T15:04:05"
	}))
	return slog.NewWithHandlers(h)
}

func InfoWithFields(msg string, fields Fields)  { logWithFields(slog.InfoLevel, msg, fields) }
func DebugWithFields(msg string, fields Fields) { logWithFields(slog.DebugLevel, msg, fields) }
func WarnWithFields(msg string, fields Fields)  { logWithFields(slog.WarnLevel, msg, fields) }
func ErrorWithFields(msg string, fields Fields) { logWithFields(slog.ErrorLevel, msg, fields) }

func logWithFields(level slog.Level, msg string, fields Fields) {
	lg, ok := Log.(*slog.Logger)
	if !ok {
		// a replaced Log without field support still gets the message
		switch level {
		case slog.DebugLevel:
			Log.Debug(msg)
		case slog.WarnLevel:
			Log.Warn(msg)
		case slog.ErrorLevel:
			Log.Error(msg)
		default:
			Log.Info(msg)
		}
		return
	}

	lg.WithFields(withServiceName(fields)).Log(level, msg)
}

// withServiceName copies fields and adds service_name from SERVICE_NAME
// unless the caller set one.
func withServiceName(fields Fields) slog.M {
	m := make(slog.M, len(fields)+1)
	for k, v := range fields {
		m[k] = v
	}
	if _, set := m["service_name"]; !set {
		if sn := os.Getenv("SERVICE_NAME"); sn != "" {
			m["service_name"] = sn
		}
	}
	return m
}
