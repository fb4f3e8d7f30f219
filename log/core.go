// Package log is bfind's logging front-end, backed by logrus.
package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

// Init initializes logging format and toggles whether to print debug messages.
func Init(dbg bool) {
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	if dbg {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
}

// Warnf always prints the message.
func Warnf(format string, v ...interface{}) {
	logger.Warnf(format, v...)
}

// Printf prints the message at info level.
func Printf(format string, v ...interface{}) {
	logger.Infof(format, v...)
}

// Debugf prints the message only when debugging is on.
func Debugf(format string, v ...interface{}) {
	logger.Debugf(format, v...)
}
