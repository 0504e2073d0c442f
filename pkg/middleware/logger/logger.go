package logger

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ServiceEnv struct {
	Platform string
	Service  string
	Env      string
}

type LogConfig struct {
	Path       string
	LogLevel   string
	ServiceEnv ServiceEnv
}

var (
	log    = otelzap.New(zap.NewNop()).Sugar()
	writer *lumberjack.Logger
)

func Init(conf *LogConfig) {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(conf.LogLevel)); err != nil {
		level = zapcore.InfoLevel
	}

	writer = &lumberjack.Logger{
		Filename:   conf.Path,
		MaxSize:    100,
		MaxBackups: 7,
		MaxAge:     30,
		Compress:   true,
	}

	encConf := zap.NewProductionEncoderConfig()
	encConf.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encConf), zapcore.AddSync(writer), level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encConf), zapcore.Lock(os.Stdout), level),
	)

	z := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).With(
		zap.String("platform", conf.ServiceEnv.Platform),
		zap.String("service", conf.ServiceEnv.Service),
		zap.String("env", conf.ServiceEnv.Env),
	)
	log = otelzap.New(z, otelzap.WithMinLevel(level)).Sugar()
}

func Close() {
	_ = log.Sync()
	if writer != nil {
		_ = writer.Close()
	}
}

func Debugf(ctx context.Context, format string, args ...any) {
	log.Ctx(ctx).Debugf(format, args...)
}

func Infof(ctx context.Context, format string, args ...any) {
	log.Ctx(ctx).Infof(format, args...)
}

func Warnf(ctx context.Context, format string, args ...any) {
	log.Ctx(ctx).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...any) {
	log.Ctx(ctx).Errorf(format, args...)
}

func Fatalf(ctx context.Context, format string, args ...any) {
	log.Ctx(ctx).Fatalf(format, args...)
}

// LogWithWriter logs one line per HTTP request.
func LogWithWriter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path
		if raw := ctx.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		ctx.Next()

		status := ctx.Writer.Status()
		format := "%s %s %d %s %s"
		args := []any{ctx.Request.Method, path, status, time.Since(start), ctx.ClientIP()}
		switch {
		case status >= 500:
			Errorf(ctx, format, args...)
		case status >= 400:
			Warnf(ctx, format, args...)
		default:
			Infof(ctx, format, args...)
		}
	}
}
