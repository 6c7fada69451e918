// Package logging provides structured JSON logging for the service.
package logging

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Level is a log severity. Records below the logger's level are dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
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
	}
	return "UNKNOWN"
}

type record struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Logger writes one JSON object per line. It is safe for concurrent use.
type Logger struct {
	mu   sync.Mutex
	out  io.Writer
	min  Level
	base map[string]any
}

func New() *Logger {
	return &Logger{out: os.Stdout, min: LevelInfo}
}

// SetOutput redirects log output. Returns the logger for chaining.
func (l *Logger) SetOutput(w io.Writer) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
	return l
}

// SetLevel sets the minimum severity that gets written.
func (l *Logger) SetLevel(level Level) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.min = level
	return l
}

// WithFields returns a derived logger whose records carry the given fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	merged := make(map[string]any, len(l.base)+len(fields))
	for k, v := range l.base {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{out: l.out, min: l.min, base: merged}
}

func (l *Logger) Debug(msg string, fields ...map[string]any) { l.write(LevelDebug, msg, fields) }
func (l *Logger) Info(msg string, fields ...map[string]any)  { l.write(LevelInfo, msg, fields) }
func (l *Logger) Warn(msg string, fields ...map[string]any)  { l.write(LevelWarn, msg, fields) }
func (l *Logger) Error(msg string, fields ...map[string]any) { l.write(LevelError, msg, fields) }

func (l *Logger) write(level Level, msg string, extra []map[string]any) {
	if level < l.min {
		return
	}

	rec := record{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   msg,
	}
	n := len(l.base)
	for _, f := range extra {
		n += len(f)
	}
	if n > 0 {
		rec.Fields = make(map[string]any, n)
		for k, v := range l.base {
			rec.Fields[k] = v
		}
		for _, f := range extra {
			for k, v := range f {
				rec.Fields[k] = v
			}
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.Marshal(rec)
	if err != nil {
		// A field that cannot be marshaled must not silence the record.
		io.WriteString(l.out, rec.Timestamp+" "+rec.Level+" "+msg+"\n")
		return
	}
	l.out.Write(append(data, '\n'))
}

// Default is the process-wide logger.
var Default = New()

func SetDefaultLevel(level Level) {
	Default.SetLevel(level)
}

func Debug(msg string, fields ...map[string]any) { Default.Debug(msg, fields...) }
func Info(msg string, fields ...map[string]any)  { Default.Info(msg, fields...) }
func Warn(msg string, fields ...map[string]any)  { Default.Warn(msg, fields...) }
func Error(msg string, fields ...map[string]any) { Default.Error(msg, fields...) }
