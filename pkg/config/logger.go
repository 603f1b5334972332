package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

// GetLogger returns the shared JSON logger
func GetLogger() *logrus.Logger {
	return logg
}

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logg.SetLevel(level)
}

// LogError logs err with module/function context fields
func LogError(moduleName, funcName string, err error) {
	logg.WithFields(logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
	}).Error(err.Error())
}
