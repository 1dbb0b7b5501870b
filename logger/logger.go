// Package logger holds the process-wide logrus logger.
package logger

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// Configure sets the level and formatter of Log.
func Configure(level string, jsonOutput bool) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	Log.SetLevel(lvl)
	if jsonOutput {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// Or returns l, falling back to Log when l is nil.
func Or(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return Log
	}
	return l
}

// Discard returns a logger that drops everything, for tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
