// Package controller routes inbound chat events to the mode handlers and owns
// the per-chat session turn: mode switches, sent-message cleanup and stale-event filtering.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-multitool/internal/i18n"
	"github.com/BatmanBruc/bat-bot-multitool/internal/menu"
	"github.com/BatmanBruc/bat-bot-multitool/internal/messages"
	"github.com/BatmanBruc/bat-bot-multitool/internal/transport"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

// CallbackData is a decoded button press. For page tokens Namespace is the owning
// menu namespace, Page is set and Payload holds the menu id of scoped menus.
type CallbackData struct {
	Namespace string
	Payload   string
	Page      int
	MessageID int
}

func (d CallbackData) IsPage() bool { return d.Page > 0 }

// Handler is one mode's state machine.
type Handler interface {
	Mode() types.Mode
	// Enter sends the first prompt of the mode right after a switch.
	Enter(ctx context.Context, c *Chat) error
	HandleCallback(ctx context.Context, c *Chat, data CallbackData) error
	HandleContent(ctx context.Context, c *Chat, content types.Content) error
	Accepts(kind types.ContentKind) bool
}

type CommandSpec struct {
	Name string
	// RequiredMode is the mode the chat must be in; empty allows any mode.
	RequiredMode types.Mode
	AdminOnly    bool
	Run          func(ctx context.Context, c *Chat, cmd types.Command) error
}

type route struct {
	handler Handler
	anyMode bool
}

type Options struct {
	Sessions    types.SessionStore
	Profiles    types.ProfileStore
	Transport   transport.Transport
	Runner      Runner
	Log         *zap.Logger
	Admins      []int64
	SizeLimitMB int64
}

type Controller struct {
	sessions    types.SessionStore
	profiles    types.ProfileStore
	tr          transport.Transport
	runner      Runner
	log         *zap.Logger
	admins      map[int64]bool
	sizeLimitMB int64

	handlers   map[types.Mode]Handler
	namespaces map[string]route
	commands   map[string]CommandSpec
	locks      *chatLocks
}

func New(opts Options) *Controller {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	admins := make(map[int64]bool, len(opts.Admins))
	for _, id := range opts.Admins {
		admins[id] = true
	}
	return &Controller{
		sessions:    opts.Sessions,
		profiles:    opts.Profiles,
		tr:          opts.Transport,
		runner:      opts.Runner,
		log:         log,
		admins:      admins,
		sizeLimitMB: opts.SizeLimitMB,
		handlers:    make(map[types.Mode]Handler),
		namespaces:  make(map[string]route),
		commands:    make(map[string]CommandSpec),
		locks:       newChatLocks(),
	}
}

// Handle registers h for its mode and the callback namespaces its menus use.
// Those callbacks are only delivered while the chat is in h's mode.
func (c *Controller) Handle(h Handler, namespaces ...string) {
	c.handlers[h.Mode()] = h
	for _, ns := range namespaces {
		c.namespaces[ns] = route{handler: h}
	}
}

// HandleGlobal registers a namespace whose buttons stay valid in every mode.
func (c *Controller) HandleGlobal(ns string, h Handler) {
	c.namespaces[ns] = route{handler: h, anyMode: true}
}

func (c *Controller) Command(def CommandSpec) {
	c.commands[strings.ToLower(def.Name)] = def
}

// Dispatch handles one event while holding its chat's lock.
func (c *Controller) Dispatch(ctx context.Context, ev types.Event) {
	chatID := ev.ChatID()
	if chatID == 0 {
		return
	}

	unlock := c.locks.lock(chatID)
	defer unlock()

	chat := c.chat(ctx, chatID, ev.From())

	var err error
	switch {
	case ev.Command != nil:
		err = c.OnCommand(ctx, chat, *ev.Command)
	case ev.Callback != nil:
		err = c.OnCallback(ctx, chat, *ev.Callback)
	case ev.Content != nil:
		err = c.OnContent(ctx, chat, *ev.Content)
	}
	if err != nil {
		chat.log.Error("event handling failed", zap.Error(err))
		_, _ = chat.Reply(ctx, messages.ErrorDefault(chat.Lang), nil)
	}
}

func (c *Controller) chat(ctx context.Context, chatID int64, from types.Sender) *Chat {
	return &Chat{
		ID:      chatID,
		From:    from,
		Lang:    c.language(ctx, chatID, from),
		Session: c.sessions.Get(chatID),
		ctrl:    c,
		log:     c.log.With(zap.Int64("chat_id", chatID)),
	}
}

func (c *Controller) language(ctx context.Context, chatID int64, from types.Sender) i18n.Lang {
	if c.profiles != nil {
		p, err := c.profiles.GetProfile(ctx, chatID)
		if err != nil {
			c.log.Debug("profile lookup failed", zap.Int64("chat_id", chatID), zap.Error(err))
		} else if l, ok := i18n.Parse(p.Lang); ok {
			return l
		}
	}
	return i18n.FromLanguageCode(from.LanguageCode)
}

func (c *Controller) OnCommand(ctx context.Context, chat *Chat, cmd types.Command) error {
	def, ok := c.commands[strings.ToLower(cmd.Name)]
	if !ok || (def.AdminOnly && !chat.IsAdmin()) {
		_, err := chat.Reply(ctx, messages.ErrorUnknownCommand(chat.Lang), nil)
		return err
	}
	if def.RequiredMode != "" && chat.Session.Mode != def.RequiredMode {
		_, err := chat.Reply(ctx, messages.InvalidInThisMode(chat.Lang, i18n.ModeLabel(chat.Lang, def.RequiredMode)), nil)
		return err
	}

	chat.log.Debug("command", zap.String("command", def.Name), zap.String("mode", string(chat.Session.Mode)))
	return def.Run(ctx, chat, cmd)
}

// OnCallback routes a button press by its token namespace. Presses on buttons that
// no longer belong to the current turn are answered and otherwise ignored.
func (c *Controller) OnCallback(ctx context.Context, chat *Chat, cb types.Callback) error {
	if cb.CallbackID != "" {
		if err := c.tr.AnswerCallback(ctx, cb.CallbackID); err != nil {
			chat.log.Debug("answer callback", zap.Error(err))
		}
	}

	data, ok := decodeCallback(cb)
	if !ok {
		chat.log.Debug("malformed callback ignored", zap.String("token", cb.Token))
		return nil
	}
	r, ok := c.namespaces[data.Namespace]
	if !ok {
		chat.log.Debug("unknown callback namespace ignored", zap.String("token", cb.Token))
		return nil
	}
	if !r.anyMode && r.handler.Mode() != chat.Session.Mode {
		chat.log.Debug("stale callback ignored",
			zap.String("token", cb.Token),
			zap.String("mode", string(chat.Session.Mode)),
		)
		return nil
	}

	err := r.handler.HandleCallback(ctx, chat, data)
	if errors.Is(err, types.ErrStale) {
		chat.log.Debug("stale callback ignored", zap.String("token", cb.Token), zap.Error(err))
		return nil
	}
	return err
}

func decodeCallback(cb types.Callback) (CallbackData, bool) {
	ns, payload, ok := menu.Decode(cb.Token)
	if !ok {
		return CallbackData{}, false
	}
	data := CallbackData{Namespace: ns, Payload: payload, MessageID: cb.OriginMessageID}
	if ns == menu.NSPage {
		owner, page, ok := menu.ParsePage(payload)
		if !ok {
			return CallbackData{}, false
		}
		ns, menuID := menu.SplitOwner(owner)
		data.Namespace, data.Payload, data.Page = ns, menuID, page
	}
	return data, true
}

// OnContent resolves main menu labels to mode switches and hands everything else
// to the current mode's handler.
func (c *Controller) OnContent(ctx context.Context, chat *Chat, content types.Content) error {
	if content.Kind == types.ContentText {
		if mode, ok := i18n.LookupLabel(content.Text); ok {
			return c.OnModeSwitchRequest(ctx, chat, mode)
		}
	}

	h, ok := c.handlers[chat.Session.Mode]
	if !ok {
		return fmt.Errorf("no handler for mode %q", chat.Session.Mode)
	}
	if !h.Accepts(content.Kind) {
		chat.log.Debug("content not supported in mode",
			zap.String("kind", string(content.Kind)),
			zap.String("mode", string(chat.Session.Mode)),
		)
		_, err := chat.Reply(ctx, messages.NotSupportedInMode(chat.Lang, i18n.ModeLabel(chat.Lang, chat.Session.Mode)), nil)
		return err
	}
	return h.HandleContent(ctx, chat, content)
}

// OnModeSwitchRequest deletes the previous turn's messages, switches the session
// to mode with an empty selection and lets the mode send its first prompt.
func (c *Controller) OnModeSwitchRequest(ctx context.Context, chat *Chat, mode types.Mode) error {
	return c.switchMode(ctx, chat, mode)
}

func (c *Controller) switchMode(ctx context.Context, chat *Chat, mode types.Mode) error {
	h, ok := c.handlers[mode]
	if !ok {
		return fmt.Errorf("no handler for mode %q", mode)
	}

	for _, id := range c.sessions.ClearSentMessages(chat.ID) {
		if err := c.tr.DeleteMessage(ctx, chat.ID, id); err != nil {
			chat.log.Debug("delete previous message", zap.Int("message_id", id), zap.Error(err))
		}
	}

	chat.Session = c.sessions.SetMode(chat.ID, mode)
	chat.log.Info("mode switched", zap.String("mode", string(mode)), zap.Uint64("epoch", chat.Session.Epoch))
	return h.Enter(ctx, chat)
}
