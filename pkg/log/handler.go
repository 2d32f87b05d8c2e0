package log

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
)

// stackHandler は ErrAttr で渡されたエラーのスタックトレースを
// StacktraceAttrKey 属性としてレコードに追加する slog.Handler
type stackHandler struct {
	next slog.Handler
}

func withStacktrace(h slog.Handler) slog.Handler {
	return stackHandler{next: h}
}

func (h stackHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h stackHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := findErrAttr(r); err != nil {
		// cockroachdb/errors はスタックを最初の SafeDetail に保存している
		if details := errors.GetSafeDetails(err).SafeDetails; len(details) > 0 && details[0] != "" {
			r.AddAttrs(slog.String(StacktraceAttrKey, details[0]))
		}
	}
	return h.next.Handle(ctx, r)
}

func (h stackHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return stackHandler{next: h.next.WithAttrs(attrs)}
}

func (h stackHandler) WithGroup(name string) slog.Handler {
	return stackHandler{next: h.next.WithGroup(name)}
}

func findErrAttr(r slog.Record) error {
	var found error
	r.Attrs(func(a slog.Attr) bool {
		if a.Key != ErrAttrKey {
			return true
		}
		found, _ = a.Value.Any().(error)
		return false
	})
	return found
}
