package grpc

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// AuthInterceptor rejects calls whose "authorization" metadata does not carry validToken,
// either bare or as "Bearer <token>". Rejections are status.Unauthenticated.
func AuthInterceptor(validToken string) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeaders[0], "Bearer "))
		if subtle.ConstantTimeCompare([]byte(token), []byte(validToken)) != 1 {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		return handler(ctx, req)
	}
}

// LoggingInterceptor returns a gRPC unary server interceptor that logs
// every call with its method, status code and duration.
// Client errors are logged at WARN, server errors at ERROR.
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	logger = logger.With("module", "grpc", "layer", "adapter")

	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []any{
			"operation", "grpc_request",
			"method", info.FullMethod,
			"code", code.String(),
			"duration_ms", time.Since(start).Milliseconds(),
		}

		switch code {
		case codes.OK:
			logger.InfoContext(ctx, "grpc request completed", append(fields, "outcome", "success")...)
		case codes.Internal, codes.Unknown, codes.Unavailable, codes.DataLoss:
			logger.ErrorContext(ctx, "grpc request completed", append(fields, "outcome", "failure", "error", err.Error())...)
		default:
			logger.WarnContext(ctx, "grpc request completed", append(fields, "outcome", "failure", "error", err.Error())...)
		}

		return resp, err
	}
}
