// Package logging provides the redacting dump logger, built on zerolog.
// Each event is rendered as a single text line
//
//	[TAG] name LEVEL timestamp: message
//
// and the rendered line is passed through the redactor before emission, so
// sensitive field values never reach the sink in plaintext.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/veil-tools/veil/cmd/veil/internal/constants"
	"github.com/veil-tools/veil/cmd/veil/internal/redact"
)

// timestampFormat is the rendered timestamp: date-time with millisecond
// precision, padded to 15 columns in the line template.
const timestampFormat = "2006-01-02 15:04:05.000"

// Level represents logging levels
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Config holds configuration for the logger
type Config struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level Level

	// Tag is the bracketed application tag (default: VEIL)
	Tag string

	// Name is the logger name rendered into each line (default: user_data)
	Name string

	// Output is the writer for rendered lines (default: os.Stdout)
	Output io.Writer

	// FilePath is the path to a rotating dump file. When set, lines go to
	// the file; with DualOutput they also go to Output/stdout.
	FilePath string

	// DualOutput writes lines to both stdout and FilePath
	DualOutput bool

	// SensitiveFields are the field names redacted in rendered lines.
	// Nil means constants.PIIFields; an empty non-nil slice disables redaction.
	SensitiveFields []string

	// Token replaces sensitive values (default: ***)
	Token string

	// Separator delimits key=value pairs in messages (default: ';')
	Separator byte
}

// Logger emits redacted dump lines. Configuration is fixed at construction;
// there is no process-global instance, callers pass the handle around.
type Logger struct {
	logger zerolog.Logger
	config Config
	file   *lumberjack.Logger
}

// New creates a redacting logger from config.
func New(config Config) *Logger {
	if config.Level == "" {
		config.Level = LevelInfo
	}
	if config.Tag == "" {
		config.Tag = constants.AppTag
	}
	if config.Name == "" {
		config.Name = constants.DumpLoggerName
	}
	if config.SensitiveFields == nil {
		config.SensitiveFields = constants.PIIFields
	}
	if config.Token == "" {
		config.Token = constants.RedactionToken
	}
	if config.Separator == 0 {
		config.Separator = constants.FieldSeparator
	}

	// The rendered timestamp carries milliseconds, so the zerolog time field
	// must keep sub-second precision.
	zerolog.TimeFieldFormat = time.RFC3339Nano

	console := config.Output
	if console == nil {
		console = os.Stdout
	}

	var file *lumberjack.Logger
	var out io.Writer
	switch {
	case config.FilePath != "" && config.DualOutput:
		file = newFileSink(config.FilePath)
		out = io.MultiWriter(console, file)
	case config.FilePath != "":
		file = newFileSink(config.FilePath)
		out = file
	default:
		out = console
	}

	writer := &lineWriter{
		out:      out,
		tag:      config.Tag,
		name:     config.Name,
		redactor: redact.New(config.SensitiveFields, config.Token, config.Separator),
	}

	logger := zerolog.New(writer).Level(zeroLevel(config.Level)).With().Timestamp().Logger()

	return &Logger{
		logger: logger,
		config: config,
		file:   file,
	}
}

// newFileSink builds a rotating file writer for the dump file.
func newFileSink(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
}

// zeroLevel maps a Level to the zerolog level, defaulting to info.
func zeroLevel(level Level) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Close releases the file sink, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...any) {
	l.logger.Debug().Msgf(format, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...any) {
	l.logger.Info().Msgf(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...any) {
	l.logger.Warn().Msgf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string) {
	l.logger.Error().Msg(msg)
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...any) {
	l.logger.Error().Msgf(format, args...)
}

// ErrorWithErr logs an error message with the error object
func (l *Logger) ErrorWithErr(msg string, err error) {
	l.logger.Error().Err(err).Msg(msg)
}

// lineWriter renders zerolog JSON events as redacted text lines.
type lineWriter struct {
	out      io.Writer
	tag      string
	name     string
	redactor *redact.Redactor
}

func (w *lineWriter) Write(p []byte) (n int, err error) {
	var event map[string]any
	if err := json.Unmarshal(p, &event); err != nil {
		// Not a zerolog event, pass through untouched
		return w.out.Write(p)
	}

	level, _ := event["level"].(string)
	timestamp, _ := event["time"].(string)
	message, _ := event["message"].(string)

	if _, err := w.out.Write([]byte(w.render(level, timestamp, message))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// render produces the final line, redaction included. The timestamp keeps
// the original left-aligned 15-column pad even though rendered timestamps
// are always wider.
func (w *lineWriter) render(level, timestamp, message string) string {
	line := fmt.Sprintf("[%s] %s %s %-15s: %s\n",
		w.tag,
		w.name,
		strings.ToUpper(level),
		renderTime(timestamp),
		message,
	)
	return w.redactor.Redact(line)
}

// renderTime reformats the zerolog time field; if the field is missing or
// unparseable the current time is used.
func renderTime(timestamp string) string {
	t, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		t = time.Now()
	}
	return t.Format(timestampFormat)
}
