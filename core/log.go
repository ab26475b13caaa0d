package core

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger = NewLogger()

func NewLogger() *logrus.Logger {
	formatter := &logrus.TextFormatter{
		TimestampFormat:        "2006-01-02T15:04:05.000",
		FullTimestamp:          true,
		DisableColors:          true,
		DisableLevelTruncation: true,
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			return "", fmt.Sprintf("%s:%d", formatFilePath(f.File), f.Line)
		},
	}

	// stdout carries the capture result
	return &logrus.Logger{
		Out:       os.Stderr,
		Level:     logrus.TraceLevel,
		Hooks:     make(logrus.LevelHooks),
		Formatter: formatter,
		ExitFunc:  os.Exit,
	}
}

func formatFilePath(path string) string {
	arr := strings.Split(path, "/")
	return arr[len(arr)-1]
}

func Fatal(format string, v ...interface{}) {
	Logger.Fatalf(format, v...)
}

func Warn(format string, v ...interface{}) {
	Logger.Warnf(format, v...)
}

func Info(format string, v ...interface{}) {
	Logger.Infof(format, v...)
}

func V1(format string, v ...interface{}) {
	if Config.Verbose < 1 {
		return
	}
	Logger.Debugf(format, v...)
}

func V2(format string, v ...interface{}) {
	if Config.Verbose < 2 {
		return
	}
	Logger.Debugf(format, v...)
}

func V5(format string, v ...interface{}) {
	if Config.Verbose < 5 {
		return
	}
	Logger.Tracef(format, v...)
}
