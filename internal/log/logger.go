// Package log is vjj's structured logger. Standard output is the channel
// vjj answers fzf on, so nothing is written anywhere until Configure points
// the logger at a file or writer.
package log

import (
	"io"
	"os"

	"github.com/noahmayr/vjj/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug = false
	logger  = NewLogger()
)

// Field is a single structured key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput directs log output to w.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.base.SetOutput(w)
	}
}

// WithFile appends log output to the file at path. The file is created if
// needed; on failure the logger keeps its previous output.
func WithFile(path string) Option {
	return func(l *Logger) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return
		}
		l.file = f
		l.base.SetOutput(f)
	}
}

// WithJSON switches to JSON lines with "timestamp", "level" and "message" keys.
func WithJSON() Option {
	return func(l *Logger) {
		l.base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyMsg:   "message",
				logrus.FieldKeyLevel: "level",
			},
		})
	}
}

// WithFields attaches fields to every entry the logger writes.
func WithFields(fields ...Field) Option {
	return func(l *Logger) {
		l.fields = append(l.fields, fields...)
	}
}

// Logger wraps a logrus entry so fields accumulate through With.
type Logger struct {
	base   *logrus.Logger
	entry  *logrus.Entry
	file   *os.File
	fields []Field
}

// NewLogger creates a logger that discards output unless an option says otherwise.
func NewLogger(opts ...Option) *Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	base.SetLevel(logrus.DebugLevel)
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	l := &Logger{base: base}
	for _, opt := range opts {
		opt(l)
	}
	l.entry = logrus.NewEntry(base).WithFields(toLogrus(l.fields))
	return l
}

// With returns a logger carrying the given fields in addition to its own.
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{base: l.base, entry: l.entry.WithFields(toLogrus(fields)), file: l.file}
}

func toLogrus(fields []Field) logrus.Fields {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return data
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) Info(msg string) { l.entry.Info(msg) }
func (l *Logger) Infof(format string, a ...interface{}) { l.entry.Infof(format, a...) }
func (l *Logger) Warn(msg string) { l.entry.Warn(msg) }
func (l *Logger) Warnf(format string, a ...interface{}) { l.entry.Warnf(format, a...) }
func (l *Logger) Error(msg string) { l.entry.Error(msg) }

func (l *Logger) Errorf(format string, a ...interface{}) {
	l.entry.Errorf(format, a...)
}

// Debug logs only when debug logging is enabled with SetDebug.
func (l *Logger) Debug(msg string) {
	if isDebug {
		l.entry.Debug(msg)
	}
}

// Debugf logs a formatted message only when debug logging is enabled.
func (l *Logger) Debugf(format string, a ...interface{}) {
	if isDebug {
		l.entry.Debugf(format, a...)
	}
}

// Configure replaces the package-level logger.
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// SetDebug toggles debug logging for every logger.
func SetDebug(debug bool) {
	isDebug = debug
}

// Default returns the package-level logger.
func Default() *Logger {
	return logger
}

// LogWithFields returns the package-level logger with fields attached.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError attaches err and, for application errors, its kind and subject.
func LogWithError(err error) *Logger {
	if err == nil {
		return logger.With(F("error", "<nil>"))
	}

	fields := []Field{F("error", err.Error()), F("error_kind", errors.KindOf(err).String())}

	var configErr *errors.ConfigError
	var fileErr *errors.FileError
	var templateErr *errors.TemplateError
	var processErr *errors.ProcessError
	switch {
	case errors.As(err, &configErr):
		fields = append(fields, F("param", configErr.Param()))
	case errors.As(err, &fileErr):
		fields = append(fields, F("path", fileErr.Path()))
	case errors.As(err, &templateErr):
		fields = append(fields, F("template", templateErr.Template()))
	case errors.As(err, &processErr):
		fields = append(fields, F("program", processErr.Program()))
	}
	return logger.With(fields...)
}

// LogError logs err at error level with msg.
func LogError(err error, msg string) {
	LogWithError(err).Error(msg)
}

func Info(msg string) { logger.Info(msg) }
func Infof(format string, a ...interface{}) { logger.Infof(format, a...) }
func Warn(msg string) { logger.Warn(msg) }
func Warnf(format string, a ...interface{}) { logger.Warnf(format, a...) }
func Error(msg string) { logger.Error(msg) }
func Errorf(format string, a ...interface{}) { logger.Errorf(format, a...) }
func Debug(msg string) { logger.Debug(msg) }
func Debugf(format string, a ...interface{}) { logger.Debugf(format, a...) }
