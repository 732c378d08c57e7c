// log переносит request-scoped *slog.Logger через context.Context.
//
// HTTP-мидлвар кладёт логгер (уже обогащённый request_id) в контекст через
// Into; нижние слои достают его через From и пишут записи с привязкой
// к запросу, не зная ничего про транспорт.
package log

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into возвращает контекст с установленным логгером.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	if l == nil {
		return ctx
	}

	return context.WithValue(ctx, ctxKey{}, l)
}

// From достаёт логгер из контекста; если его там нет — slog.Default().
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}

	return slog.Default()
}
