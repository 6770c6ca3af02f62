package handlers

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-multitool/internal/controller"
	"github.com/BatmanBruc/bat-bot-multitool/internal/formats"
	"github.com/BatmanBruc/bat-bot-multitool/internal/menu"
	"github.com/BatmanBruc/bat-bot-multitool/internal/messages"
	"github.com/BatmanBruc/bat-bot-multitool/internal/transport"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

// TranslateHandler: AwaitingLanguage -> AwaitingText, then every text is translated
// into the chosen language until the mode changes.
type TranslateHandler struct {
	textOnly
	translator Translator
	profiles   types.ProfileStore
}

func (h *TranslateHandler) Mode() types.Mode { return types.ModeTranslate }

func (h *TranslateHandler) Enter(ctx context.Context, c *controller.Chat) error {
	if err := announceMode(ctx, c, types.ModeTranslate); err != nil {
		return err
	}

	if lang, ok := h.savedLanguage(ctx, c); ok {
		_, err := c.Reply(ctx, messages.EnterTextToTranslate(c.Lang, lang.Name), nil)
		return err
	}
	return h.sendLanguageMenu(ctx, c)
}

// savedLanguage is the target language remembered in the chat profile.
func (h *TranslateHandler) savedLanguage(ctx context.Context, c *controller.Chat) (formats.Language, bool) {
	p, err := h.profiles.GetProfile(ctx, c.ID)
	if err != nil {
		return formats.Language{}, false
	}
	return formats.LanguageByCode(p.TranslateLang)
}

func (h *TranslateHandler) saveLanguage(ctx context.Context, c *controller.Chat, code string) {
	p, err := h.profiles.GetProfile(ctx, c.ID)
	if err != nil {
		p = types.Profile{ChatID: c.ID}
	}
	p.ChatID = c.ID
	p.TranslateLang = code
	p.UpdatedAt = time.Now().UTC()
	if err := h.profiles.SaveProfile(ctx, p); err != nil {
		c.Log().Warn("save translate language", zap.Error(err))
	}
}

func (h *TranslateHandler) sendLanguageMenu(ctx context.Context, c *controller.Chat) error {
	_, err := c.Reply(ctx, messages.ChooseTranslateLanguage(c.Lang), languageMenu(c, 1))
	return err
}

func languageMenu(c *controller.Chat, page int) *transport.Markup {
	return pagedMenu(c.Lang, menu.NSLang, formats.Languages, page, func(l formats.Language) menu.Button {
		return menu.Button{Text: l.Flag + " " + l.Name, Token: menu.Token(menu.NSLang, l.Code)}
	})
}

func (h *TranslateHandler) HandleCallback(ctx context.Context, c *controller.Chat, data controller.CallbackData) error {
	if data.IsPage() {
		return c.Edit(ctx, data.MessageID, messages.ChooseTranslateLanguage(c.Lang), languageMenu(c, data.Page))
	}

	lang, ok := formats.LanguageByCode(data.Payload)
	if !ok {
		return types.ErrStale
	}
	if err := c.SetPending(types.TranslateSelection{Lang: lang.Code}); err != nil {
		return err
	}

	h.saveLanguage(ctx, c, lang.Code)

	c.Delete(ctx, data.MessageID)
	_, err := c.Reply(ctx, messages.EnterTextToTranslate(c.Lang, lang.Name), nil)
	return err
}

func (h *TranslateHandler) HandleContent(ctx context.Context, c *controller.Chat, content types.Content) error {
	target := ""
	if sel, ok := c.Pending().(types.TranslateSelection); ok {
		target = sel.Lang
	}
	if target == "" {
		lang, ok := h.savedLanguage(ctx, c)
		if !ok {
			return h.sendLanguageMenu(ctx, c)
		}
		target = lang.Code
	}
	text := strings.TrimSpace(content.Text)
	if text == "" {
		return nil
	}

	c.Activity(ctx, transport.ActivityTyping)
	translated, err := h.translator.Translate(ctx, text, target)
	if err != nil {
		c.Fail(ctx, err)
		return nil
	}
	_, err = c.Result(ctx, messages.Escape(translated), nil)
	return err
}

func (h *TranslateHandler) setLanguage(ctx context.Context, c *controller.Chat, _ types.Command) error {
	if err := c.SetPending(nil); err != nil {
		return err
	}
	h.saveLanguage(ctx, c, "")
	return h.sendLanguageMenu(ctx, c)
}
