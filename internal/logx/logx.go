// Package logx centralises logrus setup so every package in cog logs the
// same way the teacher's cmd package does.
package logx

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. Commands call Configure once during
// cobra.OnInitialize; everything else just imports logx and calls the
// package-level helpers.
var Logger = log.New()

func init() {
	Logger.SetOutput(os.Stderr)
	Logger.SetFormatter(&log.TextFormatter{
		DisableTimestamp: true,
	})
}

// Configure sets the verbosity requested via --verbose.
func Configure(verbose bool) {
	if verbose {
		Logger.SetLevel(log.DebugLevel)
		return
	}
	Logger.SetLevel(log.InfoLevel)
}

func Debugf(format string, args ...interface{}) { Logger.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { Logger.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { Logger.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { Logger.Errorf(format, args...) }

// WithField mirrors the teacher's log.WithField("tag", ...) call sites.
func WithField(key string, value interface{}) *log.Entry {
	return Logger.WithField(key, value)
}
