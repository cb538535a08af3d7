// Package log writes diagnostics to a daily file under the logs directory when logs.write is set.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/clipharbor/clipharbor/filesystem"
	"github.com/clipharbor/clipharbor/key"
	"github.com/clipharbor/clipharbor/where"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var enabled bool

// discard receives every entry while file logging is off.
var discard = &logrus.Logger{
	Out:       io.Discard,
	Formatter: new(logrus.TextFormatter),
	Hooks:     make(logrus.LevelHooks),
	Level:     logrus.PanicLevel,
}

// Setup opens today's log file and applies the configured format and level.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	filename := fmt.Sprintf("%s.log", time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, filename)

	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{PrettyPrint: true})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{})
	}

	level, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	return nil
}

// Job returns an entry tagged with a download job identifier and the stage that emitted it.
func Job(id, stage string) *logrus.Entry {
	return logger().WithFields(logrus.Fields{"job": id, "stage": stage})
}

func logger() *logrus.Logger {
	if !enabled {
		return discard
	}
	return logrus.StandardLogger()
}

func Error(args ...any) {
	logger().Error(args...)
}

func Warn(args ...any) {
	logger().Warn(args...)
}

func Warnf(format string, args ...any) {
	logger().Warnf(format, args...)
}

func Infof(format string, args ...any) {
	logger().Infof(format, args...)
}
