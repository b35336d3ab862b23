package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

func init() {
	Logger = logrus.New()
	Logger.SetOutput(os.Stdout)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	Logger.SetLevel(logrus.InfoLevel)

	// LOG_LEVEL=debug etc.
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		if parsedLevel, err := logrus.ParseLevel(strings.ToLower(level)); err == nil {
			Logger.SetLevel(parsedLevel)
		}
	}
}

// WithComponent adds a component field to the logger
func WithComponent(component string) *logrus.Entry {
	return Logger.WithField("component", component)
}

// WithResource tags an entry with both the component and the cached resource key.
func WithResource(component, resourceKey string) *logrus.Entry {
	return Logger.WithFields(logrus.Fields{
		"component": component,
		"resource":  resourceKey,
	})
}

// SetLevel applies a textual level, keeping the current one when it does not parse.
// It returns the level in effect afterwards.
func SetLevel(level string) (logrus.Level, error) {
	parsed, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return Logger.GetLevel(), err
	}
	Logger.SetLevel(parsed)
	return parsed, nil
}
