package controller

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-multitool/internal/i18n"
	"github.com/BatmanBruc/bat-bot-multitool/internal/messages"
	"github.com/BatmanBruc/bat-bot-multitool/internal/transport"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

// Chat is the handle a mode handler gets for the chat whose event it is handling.
// It is only valid while the chat lock is held.
type Chat struct {
	ID      int64
	From    types.Sender
	Lang    i18n.Lang
	Session types.ChatSession

	ctrl *Controller
	log  *zap.Logger
}

func (c *Chat) Log() *zap.Logger { return c.log }

func (c *Chat) Transport() transport.Transport { return c.ctrl.tr }

// Reply sends a prompt or menu that belongs to the current turn; it is deleted on the next mode switch.
func (c *Chat) Reply(ctx context.Context, text string, markup *transport.Markup) (int, error) {
	id, err := c.ctrl.tr.SendText(ctx, c.ID, text, markup)
	if err != nil {
		return 0, err
	}
	c.ctrl.sessions.RecordSentMessage(c.ID, id)
	return id, nil
}

// Result sends a message that outlives the turn, such as a translation.
func (c *Chat) Result(ctx context.Context, text string, markup *transport.Markup) (int, error) {
	return c.ctrl.tr.SendText(ctx, c.ID, text, markup)
}

func (c *Chat) Edit(ctx context.Context, messageID int, text string, markup *transport.Markup) error {
	return c.ctrl.tr.EditText(ctx, c.ID, messageID, text, markup)
}

func (c *Chat) Delete(ctx context.Context, messageID int) {
	if messageID == 0 {
		return
	}
	if err := c.ctrl.tr.DeleteMessage(ctx, c.ID, messageID); err != nil {
		c.log.Debug("delete message", zap.Int("message_id", messageID), zap.Error(err))
	}
	c.ctrl.sessions.ForgetSentMessage(c.ID, messageID)
}

func (c *Chat) Activity(ctx context.Context, a transport.Activity) {
	_ = c.ctrl.tr.IndicateActivity(ctx, c.ID, a)
}

// Pending returns the current selection, re-read from the store.
func (c *Chat) Pending() types.Selection {
	c.Session = c.ctrl.sessions.Get(c.ID)
	return c.Session.Pending
}

func (c *Chat) SetPending(sel types.Selection) error {
	if err := c.ctrl.sessions.SetPendingSelection(c.ID, sel); err != nil {
		return err
	}
	c.Session.Pending = types.CloneSelection(sel)
	return nil
}

// SwitchMode runs the full mode switch from inside a handler.
func (c *Chat) SwitchMode(ctx context.Context, mode types.Mode) error {
	return c.ctrl.switchMode(ctx, c, mode)
}

func (c *Chat) IsAdmin() bool {
	return c.ctrl.admins[c.From.UserID]
}

// Fail reports err to the chat with the message its class calls for.
func (c *Chat) Fail(ctx context.Context, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		c.log.Debug("handler canceled", zap.Error(err))
		return
	}
	if errors.Is(err, types.ErrInvalidInput) || errors.Is(err, types.ErrOversize) || errors.Is(err, types.ErrEmptyResult) {
		c.log.Warn("request rejected", zap.String("mode", string(c.Session.Mode)), zap.Error(err))
	} else {
		c.log.Error("request failed", zap.String("mode", string(c.Session.Mode)), zap.Error(err))
	}
	_, _ = c.Reply(ctx, ErrorText(c.Lang, err, c.ctrl.sizeLimitMB), nil)
}

// ErrorText maps an error to the user-facing text of its class.
func ErrorText(l i18n.Lang, err error, sizeLimitMB int64) string {
	switch {
	case errors.Is(err, types.ErrRateLimited):
		return messages.ErrorRateLimited(l)
	case errors.Is(err, types.ErrOversize):
		return messages.ErrorTooLarge(l, sizeLimitMB)
	case errors.Is(err, types.ErrEmptyResult), errors.Is(err, types.ErrNotFound):
		return messages.ErrorNothingFound(l)
	case errors.Is(err, types.ErrPollExhausted):
		return messages.ErrorTookTooLong(l)
	case errors.Is(err, types.ErrJobFailed):
		return messages.ErrorJobFailed(l)
	}
	return messages.ErrorDefault(l)
}
