package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-ledger/internal/app/core/domain"
)

// LoggingInterceptor 記錄每個 unary 呼叫的 method、status code、錯誤分類與耗時
func LoggingInterceptor(logger zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		var event *zerolog.Event
		switch code {
		case codes.OK, codes.NotFound, codes.InvalidArgument, codes.AlreadyExists:
			event = logger.Info()
		case codes.Aborted, codes.ResourceExhausted, codes.DeadlineExceeded, codes.Canceled:
			event = logger.Warn()
		default:
			event = logger.Error()
		}
		event = event.
			Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("duration", time.Since(start))
		if err != nil {
			event = event.Err(err).Str("kind", domain.KindOf(err).String())
		}
		event.Msg("rpc completed")
		return resp, err
	}
}

// RecoveryInterceptor handler panic 時回傳 INTERNAL，不讓整個 process 掛掉
func RecoveryInterceptor(logger zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Str("method", info.FullMethod).
					Str("panic", fmt.Sprint(r)).
					Msg("rpc panic recovered")
				resp, err = nil, status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

// TimeoutInterceptor 呼叫端沒有帶 deadline 時套用預設逾時
func TimeoutInterceptor(timeout time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if timeout <= 0 {
			return handler(ctx, req)
		}
		if _, ok := ctx.Deadline(); ok {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return handler(ctx, req)
	}
}

// RateLimitInterceptor 以 token bucket 限制整體 QPS，超過回傳 RESOURCE_EXHAUSTED
//
// 參數:
//
//	limit: 每秒允許的請求數，<= 0 代表不限制
//	burst: bucket 容量
func RateLimitInterceptor(limit float64, burst int) grpc.UnaryServerInterceptor {
	if limit <= 0 {
		return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
			return handler(ctx, req)
		}
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(limit), burst)
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if !limiter.Allow() {
			return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded for %s", info.FullMethod)
		}
		return handler(ctx, req)
	}
}
