package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

const HeaderCorrelationID = "X-Correlation-Id"

type ctxKey string

const (
	ctxCorrelationID ctxKey = "correlation_id"
	ctxLogger        ctxKey = "logger"
)

// CorrelationID echoes or generates X-Correlation-Id and stores both the id
// and a logger tagged with it in the request context.
func CorrelationID(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := r.Header.Get(HeaderCorrelationID)
			if cid == "" {
				cid = uuid.NewString()
			}
			w.Header().Set(HeaderCorrelationID, cid)

			ctx := context.WithValue(r.Context(), ctxCorrelationID, cid)
			ctx = context.WithValue(ctx, ctxLogger, logger.With(slog.String("correlation_id", cid)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetCorrelationID(ctx context.Context) string {
	if s, ok := ctx.Value(ctxCorrelationID).(string); ok {
		return s
	}
	return ""
}

// Logger returns the request-scoped logger, or fallback when the request
// did not pass through CorrelationID.
func Logger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(ctxLogger).(*slog.Logger); ok {
		return l
	}
	return fallback
}
