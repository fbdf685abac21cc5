package logger

import (
	"os"

	"github.com/samvad-hq/digest-merchant-sdk/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logging surface shared by app components.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// NopLogger discards everything.
type NopLogger struct{}

func (*NopLogger) InfoObj(string, string, interface{})  {}
func (*NopLogger) DebugObj(string, string, interface{}) {}
func (*NopLogger) WarnObj(string, string, interface{})  {}
func (*NopLogger) ErrorObj(string, string, interface{}) {}

// Package-level logger to be used across packages after Init.
var S *zap.SugaredLogger

// ZapLogger implements Logger on top of a zap.Logger.
type ZapLogger struct {
	z *zap.Logger
}

// New wraps z; a nil z yields a no-op zap logger.
func New(z *zap.Logger) *ZapLogger {
	if z == nil {
		z = zap.NewNop()
	}
	return &ZapLogger{z: z}
}

func (l *ZapLogger) InfoObj(msg, key string, obj interface{})  { l.z.Info(msg, zap.Any(key, obj)) }
func (l *ZapLogger) DebugObj(msg, key string, obj interface{}) { l.z.Debug(msg, zap.Any(key, obj)) }
func (l *ZapLogger) WarnObj(msg, key string, obj interface{})  { l.z.Warn(msg, zap.Any(key, obj)) }
func (l *ZapLogger) ErrorObj(msg, key string, obj interface{}) { l.z.Error(msg, zap.Any(key, obj)) }

// ParseLevel maps a config level name to a zap level, defaulting to info.
func ParseLevel(name string) zapcore.Level {
	switch name {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Init initializes the package logger using settings from config. Output goes
// to stderr so command output on stdout stays machine readable.
func Init(cfg *config.Config) (*ZapLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(zapcore.Lock(os.Stderr)),
		ParseLevel(cfg.LogLevel),
	)

	z := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("app", cfg.AppName), zap.String("env", cfg.Env))
	S = z.Sugar()
	return New(z), nil
}

// Close flushes any buffered loggers.
func Close() error {
	if S == nil {
		return nil
	}
	return S.Sync()
}

// Minimal object logging helpers -------------------------------------------------
// These are tiny wrappers that log the given object as a structured field named
// `key` and do not attempt to parse arbitrary kv arrays.
func InfoObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Info(msg, zap.Any(key, obj))
}

func DebugObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Debug(msg, zap.Any(key, obj))
}

func WarnObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Warn(msg, zap.Any(key, obj))
}

func ErrorObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Error(msg, zap.Any(key, obj))
}
