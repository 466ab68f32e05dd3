package grpcserver

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDHeader carries the caller's correlation id. One is generated when absent.
const RequestIDHeader = "x-request-id"

// LoggingInterceptor logs one line per call. Internal failures are errors.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, request any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		requestID := incomingRequestID(ctx)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID))
		started := time.Now()
		response, err := handler(ctx, request)
		code := status.Code(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("request_id", requestID),
			zap.String("code", code.String()),
			zap.Duration("duration", time.Since(started)),
		}
		switch code {
		case codes.Internal, codes.Unknown:
			logger.Error("grpc call failed", append(fields, zap.Error(err))...)
		default:
			logger.Debug("grpc call", fields...)
		}
		return response, err
	}
}

func incomingRequestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		for _, value := range md.Get(RequestIDHeader) {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return uuid.NewString()
}
