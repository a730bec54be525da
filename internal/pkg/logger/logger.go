package logger

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Logger 是进程级的全局日志实例，由 Init 初始化。
var Logger zerolog.Logger

// Init 初始化全局日志。service 字段用于在聚合日志里区分来源。
func Init(serviceName string) {
	zerolog.TimeFieldFormat = time.RFC3339
	Logger = zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// Ctx 返回一个绑定了当前请求追踪信息的日志实例。
// 如果 ctx 中存在有效的 Span，日志会自动带上 trace_id，
// 便于在 Jaeger 和日志系统之间互相跳转。
func Ctx(ctx context.Context) *zerolog.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if sc.HasTraceID() {
		l := Logger.With().Str("trace_id", sc.TraceID().String()).Logger()
		return &l
	}
	return &Logger
}
