package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config содержит настройки логгера.
type Config struct {
	Level      string `env:"LOG_LEVEL" env-default:"info"`    // debug, info, warn, error
	Encoding   string `env:"LOG_ENCODING" env-default:"json"` // json или console
	OutputPath string `env:"LOG_OUTPUT_PATH" env-default:""`  // пусто = stdout
	Verbose    bool   `env:"LOG_VERBOSE" env-default:"false"` // caller + stacktrace
}

// New собирает zap.Logger по конфигурации.
func New(cfg Config) (*zap.Logger, error) {
	zapConfig := zap.Config{
		Level:             parseLevel(cfg.Level),
		Development:       false,
		DisableCaller:     !cfg.Verbose,
		DisableStacktrace: !cfg.Verbose,
		Encoding:          encoding(cfg.Encoding),
		EncoderConfig:     encoderConfig(),
		OutputPaths:       []string{outputPath(cfg.OutputPath)},
		ErrorOutputPaths:  []string{"stderr"},
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

func parseLevel(raw string) zap.AtomicLevel {
	level := zap.NewAtomicLevel()
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return level // info
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		// Логгера еще нет, пишем в stderr.
		fmt.Fprintf(os.Stderr, "Invalid log level '%s', using 'info'. Error: %v\n", raw, err)
		level.SetLevel(zap.InfoLevel)
	}
	return level
}

func encoding(raw string) string {
	if strings.EqualFold(raw, "console") {
		return "console"
	}
	return "json"
}

func outputPath(raw string) string {
	if raw == "" {
		return "stdout"
	}
	return raw
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}
