// Package logger emits structured JSON log lines.
package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Config for the logger.
type Config struct {
	Level   Level
	Output  io.Writer
	Service string
}

// Logger writes one flat JSON object per line. Bound fields are merged
// into the line alongside timestamp, level, service and message.
type Logger struct {
	mu      *sync.Mutex
	level   Level
	output  io.Writer
	service string
	fields  map[string]any
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Init initializes the default logger. Later calls are no-ops.
func Init(cfg Config) {
	once.Do(func() {
		defaultLogger = New(cfg)
	})
}

// Default returns the default logger, initializing it if needed.
func Default() *Logger {
	if defaultLogger == nil {
		Init(Config{Level: LevelInfo})
	}
	return defaultLogger
}

// New creates a logger writing to cfg.Output (stdout when nil).
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Service == "" {
		cfg.Service = "devconnect"
	}
	return &Logger{
		mu:      &sync.Mutex{},
		level:   cfg.Level,
		output:  cfg.Output,
		service: cfg.Service,
	}
}

// child copies the logger with extra bound fields. The mutex is shared
// so children never interleave lines with their parent.
func (l *Logger) child(extra map[string]any) *Logger {
	fields := make(map[string]any, len(l.fields)+len(extra))
	for k, v := range l.fields {
		fields[k] = v
	}
	for k, v := range extra {
		fields[k] = v
	}
	return &Logger{
		mu:      l.mu,
		level:   l.level,
		output:  l.output,
		service: l.service,
		fields:  fields,
	}
}

// WithField binds one field to every line the returned logger writes.
func (l *Logger) WithField(key string, value any) *Logger {
	return l.child(map[string]any{key: value})
}

// WithFields binds several fields at once.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	return l.child(fields)
}

// WithError binds the error's message under "error". A nil error
// returns the logger unchanged.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.child(map[string]any{"error": err.Error()})
}

func (l *Logger) log(level Level, msg string, args ...any) {
	if level < l.level {
		return
	}

	line := make(map[string]any, len(l.fields)+5)
	for k, v := range l.fields {
		line[k] = v
	}
	line["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	line["level"] = level.String()
	line["service"] = l.service
	line["message"] = fmt.Sprintf(msg, args...)

	// Errors carry their call site.
	if level >= LevelError {
		if _, file, lineNo, ok := runtime.Caller(2); ok {
			line["caller"] = fmt.Sprintf("%s:%d", file, lineNo)
		}
	}

	data, err := json.Marshal(line)
	if err != nil {
		data = []byte(fmt.Sprintf(`{"level":"ERROR","message":"marshal log line: %s"}`, err))
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	l.output.Write(data)
}

func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }
func (l *Logger) Fatal(msg string, args ...any) {
	l.log(LevelFatal, msg, args...)
	os.Exit(1)
}

// Package-level functions on the default logger.
func Debug(msg string, args ...any) { Default().Debug(msg, args...) }
func Info(msg string, args ...any)  { Default().Info(msg, args...) }
func Warn(msg string, args ...any)  { Default().Warn(msg, args...) }
func Error(msg string, args ...any) { Default().Error(msg, args...) }
func Fatal(msg string, args ...any) { Default().Fatal(msg, args...) }

func WithField(key string, value any) *Logger  { return Default().WithField(key, value) }
func WithFields(fields map[string]any) *Logger { return Default().WithFields(fields) }
func WithError(err error) *Logger              { return Default().WithError(err) }
