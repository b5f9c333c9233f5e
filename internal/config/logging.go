package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// SetupLogging configures the global logrus logger. Production writes JSON;
// other environments write human-readable text.
func SetupLogging(cfg *Config) {
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
