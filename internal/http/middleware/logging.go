package middleware

import (
	"log/slog"
	"net/http"
	"time"

	logctx "github.com/zvonline/contracts-service/pkg/log"
)

// Logging кладёт request-scoped логгер (с request_id, когда тот уже
// проставлен) в контекст и после обработки пишет access-запись.
// Нижние слои — резолвер организаций, клиент Minimax — достают этот же
// логгер через pkg/log.From и пишут с привязкой к запросу.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := l
			if rid := r.Header.Get("X-Request-Id"); rid != "" {
				reqLogger = reqLogger.With(slog.String("request_id", rid))
			}

			r = r.WithContext(logctx.Into(r.Context(), reqLogger))

			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			reqLogger.LogAttrs(r.Context(), slog.LevelInfo, "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("dur", time.Since(start)),
				slog.Int("bytes", sw.written),
			)
		})
	}
}
