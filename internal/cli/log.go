package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/extrasrequire/pkg/errors"
)

// newLogger creates a logger writing to w at level, with timestamps
// formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// parseLogLevel accepts the level names of charmbracelet/log, case-insensitively.
func parseLogLevel(s string) (log.Level, error) {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel, errors.New(errors.ErrCodeInvalidArgument,
			"invalid log level %q (want debug, info, warn, error or fatal)", s)
	}
	return level, nil
}

// stage times one step of a command and logs its outcome as structured
// fields with the elapsed time appended.
type stage struct {
	logger *log.Logger
	msg    string
	start  time.Time
}

func startStage(l *log.Logger, msg string) *stage {
	l.Debug(msg, "state", "started")
	return &stage{logger: l, msg: msg, start: time.Now()}
}

func (s *stage) done(keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(s.start).Round(time.Millisecond))
	s.logger.Info(s.msg, keyvals...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the command logger, or log.Default() outside a
// command run.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
