package common

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *zap.Logger
	once   sync.Once

	// level gates both cores; IOT_LOG_LEVEL overrides the info default.
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func root() *zap.Logger {
	if logger == nil {
		initLogger()
	}
	return logger
}

func GetLogger() *zap.Logger {
	return root().Named("default")
}

func GetLoggerWith(name string, fields ...zap.Field) *zap.Logger {
	return root().Named(name).With(fields...)
}

// SetLevel changes verbosity at runtime. Unknown names leave the level untouched.
func SetLevel(name string) error {
	return level.UnmarshalText([]byte(name))
}

// logsDir resolves where app.log lives: IOT_LOG_DIR, else ./logs, else a temp dir under tests.
func logsDir() string {
	if dir := os.Getenv(EnvKeyIOTLogDir); dir != "" {
		return dir
	}
	if IsTestEnv() {
		return filepath.Join(os.TempDir(), "vitaledge-test-logs")
	}

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("Error getting current directory: %v", err)
	}
	return filepath.Join(wd, "logs")
}

func jsonEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func initLogger() {
	once.Do(func() {
		if name := os.Getenv(EnvKeyIOTLogLevel); name != "" {
			if err := SetLevel(name); err != nil {
				log.Printf("Ignoring %s=%q: %v", EnvKeyIOTLogLevel, name, err)
			}
		}

		dir := logsDir()
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			log.Fatalf("Error find/create logs directory: %v", err)
		}

		// a Pi SD card is small, keep the rotation tight
		rotated := &lumberjack.Logger{
			Filename:   filepath.Join(dir, "app.log"),
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}

		cores := []zapcore.Core{zapcore.NewCore(jsonEncoder(), zapcore.AddSync(rotated), level)}
		if !IsProduction() {
			cores = append(cores, zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.Lock(os.Stdout),
				level,
			))
		}

		logger = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	})
}

func SetTestCaptureLogger(buf *bytes.Buffer, lvl zapcore.Level) {
	_ = root()
	logger = zap.New(zapcore.NewCore(jsonEncoder(), zapcore.AddSync(buf), lvl))
}

func SetTestLoggerNop() {
	_ = root()
	logger = zap.NewNop()
}

// Sync flushes the file core; call it on shutdown.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
