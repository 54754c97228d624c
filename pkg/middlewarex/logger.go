package middlewarex

import (
	"log/slog"
	"net/http"

	"share_market/pkg/contextx"
	"share_market/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		traceID, err := contextx.TraceIDFromContext(ctx)
		if err != nil {
			logger(ctx).Error("contextx.TraceIDFromContext", logx.Error(err))
		}

		attrs := []any{
			logx.Stringer(logx.FieldTraceID, traceID),
			logx.Stringer(logx.FieldURL, r.URL),
			slog.String(logx.FieldHTTPMethod, r.Method),
			slog.String(logx.FieldIP, r.RemoteAddr),
		}

		// Идентификатор пользователя проставляет шлюз аутентификации.
		if userID := contextx.UserID(r.Header.Get("X-User-Id")); userID != "" {
			ctx = contextx.WithUserID(ctx, userID)
			attrs = append(attrs, logx.Stringer(logx.FieldUserID, userID))
		}

		ctx = contextx.WithLogger(ctx, logger(ctx).With(attrs...))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
