package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AppLogger wraps logrus with the application's structured output settings.
type AppLogger struct {
	*logrus.Logger
}

// NewAppLogger creates a leveled JSON logger.
func NewAppLogger(level string) *AppLogger {
	l := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	return &AppLogger{Logger: l}
}

func (al *AppLogger) log(level logrus.Level, msg string, fields ...Field) {
	al.WithFields(toLogrusFields(fields)).Log(level, msg)
}

// Info logs an info message with structured fields.
func (al *AppLogger) Info(msg string, fields ...Field) {
	al.log(logrus.InfoLevel, msg, fields...)
}

// Warn logs a warning message with structured fields.
func (al *AppLogger) Warn(msg string, fields ...Field) {
	al.log(logrus.WarnLevel, msg, fields...)
}

// Error logs an error message with structured fields.
func (al *AppLogger) Error(msg string, fields ...Field) {
	al.log(logrus.ErrorLevel, msg, fields...)
}

// Debug logs a debug message with structured fields.
func (al *AppLogger) Debug(msg string, fields ...Field) {
	al.log(logrus.DebugLevel, msg, fields...)
}

// Fatal logs a fatal message with structured fields and exits.
func (al *AppLogger) Fatal(msg string, fields ...Field) {
	al.WithFields(toLogrusFields(fields)).Fatal(msg)
}
