package core

import (
	"context"

	"go.uber.org/zap"
)

type loggerKey struct{}

var defaultLogger = newDefaultLogger()

func newDefaultLogger() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger.Sugar()
}

// WithDefaultLogger attaches a request-scoped logger to the context
func WithDefaultLogger(parent context.Context, reqId string) context.Context {
	return context.WithValue(parent, loggerKey{}, defaultLogger.With("req_id", reqId))
}

func fromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*zap.SugaredLogger); ok {
			return logger
		}
	}
	return defaultLogger
}

func Infof(ctx context.Context, tpl string, args ...any) {
	fromContext(ctx).Infof(tpl, args...)
}

func Errorf(ctx context.Context, tpl string, args ...any) {
	fromContext(ctx).Errorf(tpl, args...)
}

func Debugf(ctx context.Context, tpl string, args ...any) {
	fromContext(ctx).Debugf(tpl, args...)
}

func Warnf(ctx context.Context, tpl string, args ...any) {
	fromContext(ctx).Warnf(tpl, args...)
}
