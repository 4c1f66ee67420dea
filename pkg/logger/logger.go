package logger

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, err error, fields ...zap.Field)
	Fatal(msg string, err error, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	Sync() error
}

type options struct {
	level   string
	service string
}

type Option func(*options)

// WithLevel overrides the env default ("debug", "info", "warn", "error").
// An unknown level keeps the default.
func WithLevel(level string) Option {
	return func(o *options) { o.level = level }
}

// WithService sets the "service" field stamped on every entry.
func WithService(name string) Option {
	return func(o *options) { o.service = name }
}

// NewZapLogger writes JSON with ISO8601 "timestamp" in production and
// colored console output elsewhere.
func NewZapLogger(env string, opts ...Option) Logger {
	o := options{service: "devconnect"}
	for _, opt := range opts {
		opt(&o)
	}

	zc := configFor(env)
	if o.level != "" {
		if lvl, err := zapcore.ParseLevel(o.level); err == nil {
			zc.Level = zap.NewAtomicLevelAt(lvl)
		} else {
			log.Printf("warning: unknown log level %q, keep default", o.level)
		}
	}

	l, err := zc.Build(zap.AddCallerSkip(1))
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	return &zapLogger{z: l.With(zap.String("service", o.service))}
}

func configFor(env string) zap.Config {
	if env != "production" {
		zc := zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return zc
	}
	zc := zap.NewProductionConfig()
	zc.DisableStacktrace = true
	zc.EncoderConfig.TimeKey = "timestamp"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc
}

// NewNopLogger discards everything.
func NewNopLogger() Logger {
	return &zapLogger{z: zap.NewNop()}
}

type zapLogger struct {
	z *zap.Logger
}

func withErr(fields []zap.Field, err error) []zap.Field {
	if err == nil {
		return fields
	}
	return append(fields, zap.Error(err))
}

func (l *zapLogger) Debug(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...zap.Field)  { l.z.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...zap.Field)  { l.z.Warn(msg, fields...) }

func (l *zapLogger) Error(msg string, err error, fields ...zap.Field) {
	l.z.Error(msg, withErr(fields, err)...)
}

func (l *zapLogger) Fatal(msg string, err error, fields ...zap.Field) {
	l.z.Fatal(msg, withErr(fields, err)...)
}

func (l *zapLogger) With(fields ...zap.Field) Logger {
	return &zapLogger{z: l.z.With(fields...)}
}

func (l *zapLogger) Sync() error { return l.z.Sync() }
