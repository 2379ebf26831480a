package logger

import (
	"log/slog"
	"os"
)

// Logger is the application-wide structured logger. Handlers, services and
// repositories receive it by injection; the level comes from config.
type Logger struct {
	*slog.Logger
}

// New creates a text logger on stdout at the given slog level
// (0 info, 4 warn, 8 error, -4 debug).
func New(level int) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.Level(level)})),
	}
}

// Fatal logs at error level and exits the process. Reserved for startup
// failures before the server is accepting requests.
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
