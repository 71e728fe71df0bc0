package ui

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	Debug bool
	entry *logrus.Entry
}

func NewLogger(debug bool) *Logger {
	return NewLoggerTo(os.Stdout, debug)
}

func NewLoggerTo(w io.Writer, debug bool) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: !debug,
		FullTimestamp:    true,
	})

	l.SetLevel(logrus.InfoLevel)
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}

	return &Logger{Debug: debug, entry: logrus.NewEntry(l)}
}

// WithField returns a child logger that tags every line with key=value.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{Debug: l.Debug, entry: l.entry.WithField(key, value)}
}

func (l *Logger) Debugf(format string, args ...any) {
	l.entry.Debugf(trimNewline(format), args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.entry.Infof(trimNewline(format), args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.entry.Warnf(trimNewline(format), args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.entry.Errorf(trimNewline(format), args...)
}

// logrus terminates lines itself
func trimNewline(format string) string {
	for len(format) > 0 && format[len(format)-1] == '\n' {
		format = format[:len(format)-1]
	}

	return format
}
