// Package logger writes structured JSON log lines and provides the echo
// request-logging middleware for the HTTP shell.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a level, defaulting to INFO.
func ParseLevel(s string) LogLevel {
	switch s {
	case "debug":
		return DEBUG
	case "warn":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

// Logger emits one JSON object per line. Safe for concurrent use.
type Logger struct {
	mu     sync.Mutex
	level  LogLevel
	output io.Writer
}

type logEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	IP        string                 `json:"ip,omitempty"`
	Method    string                 `json:"method,omitempty"`
	URI       string                 `json:"uri,omitempty"`
	Status    int                    `json:"status,omitempty"`
	Latency   string                 `json:"latency,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

func New() *Logger {
	return NewWithLevel(INFO)
}

func NewWithLevel(level LogLevel) *Logger {
	return &Logger{level: level, output: os.Stdout}
}

func (l *Logger) SetLevel(level LogLevel) {
	l.level = level
}

func (l *Logger) SetOutput(output io.Writer) {
	l.output = output
}

func (l *Logger) Debug(message string, fields ...interface{}) {
	l.log(DEBUG, message, fields)
}

func (l *Logger) Info(message string, fields ...interface{}) {
	l.log(INFO, message, fields)
}

func (l *Logger) Warn(message string, fields ...interface{}) {
	l.log(WARN, message, fields)
}

func (l *Logger) Error(message string, fields ...interface{}) {
	l.log(ERROR, message, fields)
}

// log assembles key/value pairs into a fields map and writes the entry.
func (l *Logger) log(level LogLevel, message string, fields []interface{}) {
	if level < l.level {
		return
	}
	entry := logEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level.String(),
		Message:   message,
	}
	if len(fields) > 1 {
		entry.Fields = make(map[string]interface{}, len(fields)/2)
		for i := 0; i+1 < len(fields); i += 2 {
			if key, ok := fields[i].(string); ok {
				entry.Fields[key] = fields[i+1]
			}
		}
	}
	l.write(entry)
}

func (l *Logger) write(entry logEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		l.mu.Lock()
		fmt.Fprintf(l.output, `{"level":"ERROR","message":"failed to marshal log entry: %v"}`+"\n", err)
		l.mu.Unlock()
		return
	}
	l.mu.Lock()
	l.output.Write(append(data, '\n'))
	l.mu.Unlock()
}

// HTTPLogger returns echo middleware that logs one entry per request.
func (l *Logger) HTTPLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			req := c.Request()
			entry := logEntry{
				Timestamp: start.UTC().Format(time.RFC3339),
				Level:     INFO.String(),
				Message:   "HTTP request",
				RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
				IP:        c.RealIP(),
				Method:    req.Method,
				URI:       req.RequestURI,
				Status:    c.Response().Status,
				Latency:   time.Since(start).String(),
			}
			if err != nil {
				entry.Level = ERROR.String()
				entry.Error = err.Error()
			}
			l.write(entry)

			return err
		}
	}
}
