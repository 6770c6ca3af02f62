package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-multitool/internal/controller"
	"github.com/BatmanBruc/bat-bot-multitool/internal/i18n"
	"github.com/BatmanBruc/bat-bot-multitool/internal/menu"
	"github.com/BatmanBruc/bat-bot-multitool/internal/messages"
	"github.com/BatmanBruc/bat-bot-multitool/internal/transport"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

// MainHandler owns the main menu, the interface language and the global commands.
type MainHandler struct {
	textOnly
	profiles types.ProfileStore
	users    types.UserStore
	log      *zap.Logger
}

func (h *MainHandler) Mode() types.Mode { return types.ModeMain }

func (h *MainHandler) Enter(ctx context.Context, c *controller.Chat) error {
	_, err := c.Reply(ctx, messages.ChooseFromMenu(c.Lang), mainKeyboard(c.Lang))
	return err
}

// HandleCallback only serves the interface language menu.
func (h *MainHandler) HandleCallback(ctx context.Context, c *controller.Chat, data controller.CallbackData) error {
	if data.Namespace != menu.NSUILang {
		return types.ErrStale
	}
	l, ok := i18n.Parse(data.Payload)
	if !ok {
		return types.ErrStale
	}

	profile, err := h.profiles.GetProfile(ctx, c.ID)
	if err != nil {
		profile = types.Profile{ChatID: c.ID}
	}
	profile.ChatID = c.ID
	profile.Lang = string(l)
	if err := h.profiles.SaveProfile(ctx, profile); err != nil {
		c.Log().Warn("save interface language", zap.Error(err))
	}
	c.Lang = l

	if _, err := c.Result(ctx, messages.Welcome(l), nil); err != nil {
		return err
	}
	return c.SwitchMode(ctx, types.ModeMain)
}

func (h *MainHandler) HandleContent(ctx context.Context, c *controller.Chat, _ types.Content) error {
	_, err := c.Reply(ctx, messages.ChooseFromMenu(c.Lang), mainKeyboard(c.Lang))
	return err
}

func (h *MainHandler) start(ctx context.Context, c *controller.Chat, _ types.Command) error {
	if h.users != nil {
		now := time.Now().UTC()
		err := h.users.UpsertUser(ctx, types.User{
			UserID:       c.From.UserID,
			ChatID:       c.ID,
			Username:     c.From.Username,
			FirstName:    c.From.FirstName,
			LastName:     c.From.LastName,
			LanguageCode: c.From.LanguageCode,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			c.Log().Warn("register user", zap.Error(err))
		}
	}
	return h.changeLanguage(ctx, c, types.Command{})
}

func (h *MainHandler) changeLanguage(ctx context.Context, c *controller.Chat, _ types.Command) error {
	rows := make([][]menu.Button, 0, len(i18n.Supported))
	for _, l := range i18n.Supported {
		rows = append(rows, []menu.Button{{Text: l.Name(), Token: menu.Token(menu.NSUILang, string(l))}})
	}
	_, err := c.Reply(ctx, messages.ChooseInterfaceLanguage(c.Lang), transport.InlineMarkup(rows))
	return err
}

func (h *MainHandler) showMenu(ctx context.Context, c *controller.Chat, _ types.Command) error {
	return c.SwitchMode(ctx, types.ModeMain)
}

func (h *MainHandler) help(ctx context.Context, c *controller.Chat, _ types.Command) error {
	_, err := c.Result(ctx, messages.Help(c.Lang), nil)
	return err
}

func (h *MainHandler) stats(ctx context.Context, c *controller.Chat, _ types.Command) error {
	var count int64
	if h.users != nil {
		n, err := h.users.CountUsers(ctx)
		if err != nil {
			c.Fail(ctx, err)
			return nil
		}
		count = n
	}
	_, err := c.Result(ctx, messages.Stats(c.Lang, count), nil)
	return err
}
