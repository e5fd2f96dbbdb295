package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the structured logging surface shared across packages.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// ZapLogger implements Logger on top of zap.
type ZapLogger struct {
	log *zap.Logger
}

// Init builds a logger writing JSON lines to stderr. stdout is reserved for
// API output. An unrecognized level name is an error.
func Init(levelName string, verbosity int) (*ZapLogger, error) {
	level, err := ResolveLevel(levelName, verbosity)
	if err != nil {
		return nil, err
	}
	return New(level, os.Stderr), nil
}

// New builds a ZapLogger at the given level writing to w.
func New(level zapcore.Level, w io.Writer) *ZapLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(zapcore.Lock(zapcore.AddSync(w))),
		level,
	)

	return &ZapLogger{log: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))}
}

// ResolveLevel maps a configured level name and the CLI verbosity counter to a
// zap level. An empty name means warn. Each -v lowers the threshold one step,
// never raising it.
func ResolveLevel(name string, verbosity int) (zapcore.Level, error) {
	level := zapcore.WarnLevel
	switch name = strings.ToLower(strings.TrimSpace(name)); name {
	case "":
	case "warning":
		level = zapcore.WarnLevel
	default:
		parsed, err := zapcore.ParseLevel(name)
		if err != nil {
			return level, fmt.Errorf("invalid log level %q: %w", name, err)
		}
		level = parsed
	}

	switch {
	case verbosity >= 2 && level > zapcore.DebugLevel:
		level = zapcore.DebugLevel
	case verbosity == 1 && level > zapcore.InfoLevel:
		level = zapcore.InfoLevel
	}
	return level, nil
}

func (z *ZapLogger) InfoObj(msg, key string, obj interface{})  { z.log.Info(msg, zap.Any(key, obj)) }
func (z *ZapLogger) DebugObj(msg, key string, obj interface{}) { z.log.Debug(msg, zap.Any(key, obj)) }
func (z *ZapLogger) WarnObj(msg, key string, obj interface{})  { z.log.Warn(msg, zap.Any(key, obj)) }
func (z *ZapLogger) ErrorObj(msg, key string, obj interface{}) { z.log.Error(msg, zap.Any(key, obj)) }

// Sync flushes buffered entries.
func (z *ZapLogger) Sync() error { return z.log.Sync() }

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) InfoObj(string, string, interface{})  {}
func (NopLogger) DebugObj(string, string, interface{}) {}
func (NopLogger) WarnObj(string, string, interface{})  {}
func (NopLogger) ErrorObj(string, string, interface{}) {}
