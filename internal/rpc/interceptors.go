package rpc

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/ailutions/ailutions-site/internal/apperr"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func RecoveryUnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (response any, err error) {
		defer func() {
			if recovered := recover(); recovered != nil {
				log.Error().
					Str("method", info.FullMethod).
					Interface("panic", recovered).
					Str("stack", string(debug.Stack())).
					Msg("grpc panic recovered")
				err = status.Error(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}

func LoggingUnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		started := time.Now()
		response, err := handler(ctx, req)
		log.Info().
			Str("method", info.FullMethod).
			Dur("duration", time.Since(started)).
			Str("code", status.Code(err).String()).
			Msg("grpc")
		return response, err
	}
}

// ErrorUnaryInterceptor converts application errors into gRPC statuses.
// Errors that already carry a status pass through untouched.
func ErrorUnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		response, err := handler(ctx, req)
		if err == nil {
			return response, nil
		}
		if status.Code(err) != codes.Unknown {
			return nil, err
		}
		return nil, mapError(err)
	}
}

func mapError(err error) error {
	if e, ok := apperr.As(err); ok {
		return status.Error(e.GRPCCode(), apperr.PublicMessage(err))
	}
	return status.Error(codes.Internal, "internal server error")
}
