package logger

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
)

// NewPGXTracer logs pgx activity through l. Query arguments and backend pids are dropped, successful
// queries go to debug level.
func NewPGXTracer(l *slog.Logger) *tracelog.TraceLog {
	return &tracelog.TraceLog{
		Logger: tracelog.LoggerFunc(func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
			lvl, attrs := pgxLevel(level)

			if !l.Enabled(ctx, lvl) {
				return
			}

			for k, v := range data {
				switch k {
				case "args":
				case "pid":
				default:
					attrs = append(attrs, slog.Any(k, v))
				}
			}

			sort.Slice(attrs, func(i, j int) bool {
				return attrs[i].Key < attrs[j].Key
			})

			var pc uintptr
			var pcs [1]uintptr
			// skip [runtime.Callers, this function, this function's caller * 3]
			runtime.Callers(5, pcs[:])
			pc = pcs[0]

			r := slog.NewRecord(time.Now(), lvl, "pgx: "+msg, pc)
			r.AddAttrs(attrs...)
			_ = l.Handler().Handle(ctx, r)
		}),
		LogLevel: tracelog.LogLevelDebug,
	}
}

func pgxLevel(l tracelog.LogLevel) (slog.Level, []slog.Attr) {
	switch l {
	case tracelog.LogLevelTrace, tracelog.LogLevelDebug, tracelog.LogLevelInfo:
		return slog.LevelDebug, nil
	case tracelog.LogLevelWarn:
		return slog.LevelWarn, nil
	case tracelog.LogLevelError:
		return slog.LevelError, nil
	default:
		return slog.LevelError, []slog.Attr{slog.Any("INVALID_PGX_LOG_LEVEL", l)}
	}
}
