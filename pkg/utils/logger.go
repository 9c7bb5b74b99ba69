package utils

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// NewLogger builds the console's JSON logger. Level comes from LOG_LEVEL,
// defaulting to info.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	logger.SetOutput(os.Stdout)

	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	return logger
}

// GetLogger returns the shared logger, building it on first use.
func GetLogger() *logrus.Logger {
	if Logger == nil {
		Logger = NewLogger()
	}
	return Logger
}
