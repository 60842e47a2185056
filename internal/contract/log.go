package contract

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// logger is shared by every command. It writes to stderr so stdout stays clean for output.
var logger = newLogger(os.Stderr)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// Logger returns the shared logger.
func Logger() *logrus.Logger {
	return logger
}

// SetLogLevel parses and applies a level such as "debug" or "warn". Empty keeps the current level.
func SetLogLevel(level string) error {
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logger.SetLevel(lvl)
	return nil
}

// SetLogOutput redirects the shared logger, mainly for tests.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	logger.WithError(err).Fatal(msg)
}

// LogWarn logs a warning message.
func LogWarn(msg string, err error) {
	if err == nil {
		logger.Warn(msg)
		return
	}
	logger.WithError(err).Warn(msg)
}

// LogInfo logs an informational message with optional structured fields.
func LogInfo(msg string, fields logrus.Fields) {
	logger.WithFields(fields).Info(msg)
}

// LogDebug logs a debug message with optional structured fields.
func LogDebug(msg string, fields logrus.Fields) {
	logger.WithFields(fields).Debug(msg)
}
