package contextkeys

import (
	"context"

	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-multitool/types"
)

type eventKey struct{}
type loggerKey struct{}

func WithEvent(ctx context.Context, ev types.Event) context.Context {
	return context.WithValue(ctx, eventKey{}, ev)
}

func GetEvent(ctx context.Context) (types.Event, bool) {
	ev, ok := ctx.Value(eventKey{}).(types.Event)
	return ev, ok
}

func WithLogger(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, log)
}

// Logger returns the update-scoped logger, or a no-op logger outside an update.
func Logger(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && log != nil {
		return log
	}
	return zap.NewNop()
}
