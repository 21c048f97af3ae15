package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger is the process-wide logrus instance.
	Logger *logrus.Logger
	initMu sync.Mutex
)

// Config controls log level and optional file output.
type Config struct {
	Level      string // debug, info, warn, error
	OutputFile string // empty means console only
	MaxSize    int    // max size of a log file in MB before rotation
	MaxBackups int    // number of rotated files to keep
	MaxAge     int    // days to keep rotated files
	Compress   bool   // gzip rotated files
}

// Init configures the global logger. Console output is always on; when
// OutputFile is set, lines are mirrored to a lumberjack-rotated file.
func Init(config Config) error {
	initMu.Lock()
	defer initMu.Unlock()

	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(config.Level)))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	var out io.Writer = os.Stdout
	if config.OutputFile != "" {
		if dir := filepath.Dir(config.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		maxSize := config.MaxSize
		if maxSize <= 0 {
			maxSize = 10
		}
		maxBackups := config.MaxBackups
		if maxBackups <= 0 {
			maxBackups = 5
		}
		fileOut := &lumberjack.Logger{
			Filename:   config.OutputFile,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		}
		out = io.MultiWriter(os.Stdout, fileOut)
	}
	l.SetOutput(out)

	Logger = l
	return nil
}

// InitDefault initializes a console-only logger at info level.
func InitDefault() error {
	return Init(Config{Level: "info"})
}

func ensure() *logrus.Logger {
	if Logger == nil {
		_ = InitDefault()
	}
	return Logger
}

func Debug(args ...interface{}) {
	ensure().Debug(args...)
}

func Debugf(format string, args ...interface{}) {
	ensure().Debugf(format, args...)
}

func Info(args ...interface{}) {
	ensure().Info(args...)
}

func Infof(format string, args ...interface{}) {
	ensure().Infof(format, args...)
}

func Warn(args ...interface{}) {
	ensure().Warn(args...)
}

func Warnf(format string, args ...interface{}) {
	ensure().Warnf(format, args...)
}

func Error(args ...interface{}) {
	ensure().Error(args...)
}

func Errorf(format string, args ...interface{}) {
	ensure().Errorf(format, args...)
}

// WithField returns an entry carrying one structured field.
func WithField(key string, value interface{}) *logrus.Entry {
	return ensure().WithField(key, value)
}

// WithFields returns an entry carrying several structured fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return ensure().WithFields(fields)
}
