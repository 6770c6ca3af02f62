package middleware

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-multitool/internal/contextkeys"
	"github.com/BatmanBruc/bat-bot-multitool/internal/i18n"
	"github.com/BatmanBruc/bat-bot-multitool/internal/messages"
	"github.com/BatmanBruc/bat-bot-multitool/internal/transport"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, ev types.Event)
}

type Middlewares struct {
	tr  transport.Transport
	log *zap.Logger
}

func New(tr transport.Transport, log *zap.Logger) *Middlewares {
	return &Middlewares{tr: tr, log: log}
}

// Chain is the order every update goes through before Route.
func (m *Middlewares) Chain() []bot.Middleware {
	return []bot.Middleware{m.Recover, m.Logging, m.AnalyzeUpdate}
}

// Recover logs a handler panic and tells the chat something went wrong.
func (m *Middlewares) Recover(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			m.log.Error("panic recovered in handler",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			ev, ok := EventFromUpdate(update)
			if !ok {
				return
			}
			l := i18n.FromLanguageCode(ev.From().LanguageCode)
			if _, err := m.tr.SendText(ctx, ev.ChatID(), messages.ErrorDefault(l), nil); err != nil {
				m.log.Warn("report panic to chat", zap.Int64("chat_id", ev.ChatID()), zap.Error(err))
			}
		}()
		next(ctx, b, update)
	}
}

// Logging puts an update-scoped logger into ctx and logs how long the update took.
func (m *Middlewares) Logging(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		start := time.Now()
		log := m.log.With(zap.Int64("update_id", update.ID))
		ctx = contextkeys.WithLogger(ctx, log)

		next(ctx, b, update)

		log.Debug("update processed",
			zap.String("type", updateType(update)),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// AnalyzeUpdate decodes the update into a types.Event. Updates that carry no
// chat event stop here.
func (m *Middlewares) AnalyzeUpdate(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		ev, ok := EventFromUpdate(update)
		if !ok {
			contextkeys.Logger(ctx).Debug("update ignored", zap.String("type", updateType(update)))
			return
		}
		next(contextkeys.WithEvent(ctx, ev), b, update)
	}
}

// Route hands the decoded event to d.
func Route(d Dispatcher) bot.HandlerFunc {
	return func(ctx context.Context, _ *bot.Bot, _ *models.Update) {
		ev, ok := contextkeys.GetEvent(ctx)
		if !ok {
			return
		}
		d.Dispatch(ctx, ev)
	}
}

func updateType(update *models.Update) string {
	switch {
	case update.Message != nil:
		return "message"
	case update.CallbackQuery != nil:
		return "callback_query"
	case update.EditedMessage != nil:
		return "edited_message"
	}
	return "unknown"
}
