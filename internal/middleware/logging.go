package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call with its
// procedure, caller uid, router request id and duration. Client-side failures log at
// warn, internal ones at error. Install it after RequireAuth so the uid is known.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"user_id", GetUserID(ctx),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if reqID := chimw.GetReqID(ctx); reqID != "" {
				attrs = append(attrs, "request_id", reqID)
			}

			if err == nil {
				logger.InfoContext(ctx, "RPC ok", attrs...)
				return resp, nil
			}

			level := slog.LevelError
			code := connect.CodeOf(err)
			var connectErr *connect.Error
			if errors.As(err, &connectErr) && code != connect.CodeInternal && code != connect.CodeUnknown {
				level = slog.LevelWarn
				attrs = append(attrs, "error", connectErr.Message())
			} else {
				attrs = append(attrs, "error", err)
			}
			logger.Log(ctx, level, "RPC error", append(attrs, "code", code.String())...)
			return resp, err
		}
	}
}
