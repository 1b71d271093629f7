package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSize = 10 // megabytes before rotation
	maxBack = 5  // number of old files to retain
	maxAge  = 30 // days to retain rotated files
)

// NewFileLogger returns a zap logger appending JSON records to filePath.
// The file is rotated by size and old rotations are compressed.
func NewFileLogger(filePath string) (*zap.Logger, error) {
	rotator := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    maxSize,
		MaxBackups: maxBack,
		MaxAge:     maxAge,
		Compress:   true,
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(rotator),
		zap.InfoLevel,
	)
	return zap.New(core), nil
}
