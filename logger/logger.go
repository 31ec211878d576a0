package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the standard logrus logger. When logDir is non-empty
// output is also written to a rotating app.log inside it.
func Setup(logDir, level string) (io.Closer, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", level)
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if logDir == "" {
		logrus.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "failed to create log directory")
	}

	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "app.log"),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}

	logrus.SetOutput(io.MultiWriter(os.Stderr, logFile))
	return logFile, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
