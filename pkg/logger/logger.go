// Package logger wraps zerolog behind a small structured-field API and
// feeds error-level entries into an optional Kafka collector.
package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config selects level, format, and destination.
type Config struct {
	Level      string // debug, info, warn, error, fatal, panic
	Format     string // json or console
	Output     string // stdout, stderr, or file path
	TimeFormat string // time format for log messages
}

type Logger struct {
	zl        zerolog.Logger
	collector *LogCollector
}

func New(cfg *Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer
	switch cfg.Output {
	case "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("could not open log file: %w", err)
		}
		output = file
	}

	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.RFC3339Nano
	}
	zerolog.TimeFieldFormat = cfg.TimeFormat

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: cfg.TimeFormat}
	}

	zl := zerolog.New(output).
		With().
		Timestamp().
		CallerWithSkipFrameCount(4).
		Logger()

	return &Logger{zl: zl}, nil
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.emit(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.emit(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.emit(l.zl.Warn(), msg, fields)
}

// Error logs the entry and forwards it to the collector, when one is
// attached.
func (l *Logger) Error(msg string, fields ...Field) {
	l.emit(l.zl.Error(), msg, fields)
	l.addToCollector("error", msg, fields)
}

func (l *Logger) emit(event *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		f.AddTo(event)
	}
	event.Msg(msg)
}

// AddCollector attaches an aggregating collector. A previous collector
// is flushed and closed first.
func (l *Logger) AddCollector(config *CollectionConfig) {
	if l.collector != nil {
		l.collector.Close()
	}
	l.collector = NewLogCollector(config)
}

// RemoveCollector flushes and detaches the collector.
func (l *Logger) RemoveCollector() {
	if l.collector != nil {
		l.collector.Close()
	}
}

func (l *Logger) addToCollector(level, msg string, fields []Field) {
	if l.collector == nil {
		return
	}

	// frames: this function, the level method, then the caller
	_, file, line, ok := runtime.Caller(2)
	caller := "unknown"
	if ok {
		parts := strings.Split(file, "FxSignals")
		caller = fmt.Sprintf("%s:%d", parts[len(parts)-1], line)
	}

	fieldMap := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		key, value := f.GetKeyValue()
		fieldMap[key] = value
	}
	l.collector.AddLog(level, msg, fieldMap, caller)
}

// Field is one structured key/value pair on a log entry.
type Field interface {
	AddTo(event *zerolog.Event)
	GetKeyValue() (string, interface{})
}

// kv is the single Field implementation; AddTo dispatches on the
// dynamic type of the value.
type kv struct {
	key string
	val interface{}
}

func (f kv) AddTo(event *zerolog.Event) {
	switch v := f.val.(type) {
	case string:
		event.Str(f.key, v)
	case int:
		event.Int(f.key, v)
	case int64:
		event.Int64(f.key, v)
	case bool:
		event.Bool(f.key, v)
	case error:
		event.Err(v)
	default:
		event.Interface(f.key, v)
	}
}

func (f kv) GetKeyValue() (string, interface{}) {
	if err, ok := f.val.(error); ok {
		return f.key, err.Error()
	}
	return f.key, f.val
}

func String(key, value string) Field {
	return kv{key: key, val: value}
}

func Int(key string, value int) Field {
	return kv{key: key, val: value}
}

func Int32(key string, value int32) Field {
	return kv{key: key, val: int(value)}
}

func Int64(key string, value int64) Field {
	return kv{key: key, val: value}
}

func Uint(key string, value uint) Field {
	return kv{key: key, val: int(value)}
}

func Uint64(key string, value uint64) Field {
	return kv{key: key, val: int64(value)}
}

func Bool(key string, value bool) Field {
	return kv{key: key, val: value}
}

func Error(err error) Field {
	return kv{key: "error", val: err}
}

func Any(key string, value interface{}) Field {
	return kv{key: key, val: value}
}

// Duration logs as integer milliseconds.
func Duration(key string, value time.Duration) Field {
	return kv{key: key, val: int(value / time.Millisecond)}
}

func Strings(key string, value []string) Field {
	return kv{key: key, val: strings.Join(value, ", ")}
}
