package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger пишет одновременно в stdout и в файл (если путь задан).
func NewLogger(level string, file string) *zap.Logger {
	atomicLevel := zap.NewAtomicLevelAt(zap.DebugLevel)
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		atomicLevel = zap.NewAtomicLevelAt(lvl)
	}

	outputs := []string{"stdout"}
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err == nil {
			outputs = append(outputs, file)
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	dualConfig := zap.Config{
		Encoding:         "console",
		Level:            atomicLevel,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    encoderConfig,
	}

	dualLogger, err := dualConfig.Build()
	if err != nil {
		panic(err)
	}

	return dualLogger
}
