package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/config"
)

// fileLevels are the levels that get their own rotating file. Each file
// holds exactly one level so operators can tail errors without grep.
var fileLevels = []zapcore.Level{
	zapcore.DebugLevel,
	zapcore.InfoLevel,
	zapcore.WarnLevel,
	zapcore.ErrorLevel,
}

// Init builds the application logger from the logging configuration:
// one rotating JSON file per level plus a human-readable console stream.
func Init(cfg config.LoggingConfig) (*zap.Logger, error) {
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:   "message",
		LevelKey:     "level",
		TimeKey:      "time",
		CallerKey:    "caller",
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	cores := make([]zapcore.Core, 0, len(fileLevels)+1)
	for _, level := range fileLevels {
		core, err := newFileCore(cfg, level, encoderConfig)
		if err != nil {
			return nil, err
		}
		cores = append(cores, core)
	}
	cores = append(cores, newConsoleCore())

	// A log entry is offered to every core; each decides whether to
	// write it based on its LevelEnabler.
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// newFileCore creates a core that writes a single log level to a
// rotating file, sized and aged per the logging configuration.
func newFileCore(cfg config.LoggingConfig, level zapcore.Level, encoderConfig zapcore.EncoderConfig) (zapcore.Core, error) {
	if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}

	// One file per day and level, named like '2025-07-30-info.log'
	fileName := filepath.Join(cfg.Directory, fmt.Sprintf("%s-%s.log", time.Now().Format("2006-01-02"), level.String()))

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	})

	// Exact-level match keeps each file single-level.
	levelEnabler := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l == level
	})

	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		writer,
		levelEnabler,
	), nil
}

// newConsoleCore creates a core that writes to the console.
func newConsoleCore() zapcore.Core {
	// Log everything from Debug and above to the console.
	levelEnabler := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.DebugLevel
	})

	// Use a more human-readable encoder for the console.
	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder // Add color to levels

	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig),
		zapcore.AddSync(os.Stdout),
		levelEnabler,
	)
}
