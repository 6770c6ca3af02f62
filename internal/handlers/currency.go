package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BatmanBruc/bat-bot-multitool/internal/controller"
	"github.com/BatmanBruc/bat-bot-multitool/internal/formats"
	"github.com/BatmanBruc/bat-bot-multitool/internal/i18n"
	"github.com/BatmanBruc/bat-bot-multitool/internal/menu"
	"github.com/BatmanBruc/bat-bot-multitool/internal/messages"
	"github.com/BatmanBruc/bat-bot-multitool/internal/transport"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

// CurrencyHandler: AwaitingFrom -> AwaitingTo -> AwaitingAmount, and every amount
// after that is converted with the same pair.
type CurrencyHandler struct {
	textOnly
	rates RateSource
}

func (h *CurrencyHandler) Mode() types.Mode { return types.ModeCurrency }

func (h *CurrencyHandler) Enter(ctx context.Context, c *controller.Chat) error {
	if err := announceMode(ctx, c, types.ModeCurrency); err != nil {
		return err
	}
	return h.sendFromMenu(ctx, c)
}

func (h *CurrencyHandler) sendFromMenu(ctx context.Context, c *controller.Chat) error {
	_, err := c.Reply(ctx, messages.ChooseFromCurrency(c.Lang), currencyMenu(c.Lang, menu.NSFrom, 1))
	return err
}

func currencyMenu(l i18n.Lang, ns string, page int) *transport.Markup {
	return pagedMenu(l, ns, formats.Currencies, page, func(cur formats.Currency) menu.Button {
		return menu.Button{Text: cur.Flag + " " + cur.Code, Token: menu.Token(ns, cur.Code)}
	})
}

func (h *CurrencyHandler) HandleCallback(ctx context.Context, c *controller.Chat, data controller.CallbackData) error {
	sel, _ := c.Pending().(types.CurrencySelection)

	if data.IsPage() {
		text := messages.ChooseFromCurrency(c.Lang)
		if data.Namespace == menu.NSTo {
			if sel.From == "" {
				return types.ErrStale
			}
			text = messages.ChooseToCurrency(c.Lang, sel.From)
		}
		return c.Edit(ctx, data.MessageID, text, currencyMenu(c.Lang, data.Namespace, data.Page))
	}

	cur, ok := formats.CurrencyByCode(data.Payload)
	if !ok {
		return types.ErrStale
	}

	switch data.Namespace {
	case menu.NSFrom:
		if err := c.SetPending(types.CurrencySelection{From: cur.Code}); err != nil {
			return err
		}
		c.Delete(ctx, data.MessageID)
		_, err := c.Reply(ctx, messages.ChooseToCurrency(c.Lang, cur.Code), currencyMenu(c.Lang, menu.NSTo, 1))
		return err
	case menu.NSTo:
		if sel.From == "" {
			return types.ErrStale
		}
		if err := c.SetPending(types.CurrencySelection{From: sel.From, To: cur.Code}); err != nil {
			return err
		}
		c.Delete(ctx, data.MessageID)
		_, err := c.Reply(ctx, messages.EnterAmount(c.Lang, sel.From, cur.Code), nil)
		return err
	}
	return types.ErrStale
}

func (h *CurrencyHandler) HandleContent(ctx context.Context, c *controller.Chat, content types.Content) error {
	sel, ok := c.Pending().(types.CurrencySelection)
	if !ok || sel.From == "" {
		return h.sendFromMenu(ctx, c)
	}
	if sel.To == "" {
		_, err := c.Reply(ctx, messages.ChooseToCurrency(c.Lang, sel.From), currencyMenu(c.Lang, menu.NSTo, 1))
		return err
	}

	amount, err := ParseAmount(content.Text)
	if err != nil {
		_, err := c.Reply(ctx, messages.InvalidAmount(c.Lang), nil)
		return err
	}

	c.Activity(ctx, transport.ActivityTyping)
	rate, err := h.rates.Rate(ctx, sel.From, sel.To)
	if err != nil {
		c.Fail(ctx, err)
		return nil
	}

	from, _ := formats.CurrencyByCode(sel.From)
	to, _ := formats.CurrencyByCode(sel.To)
	result := amount.Mul(rate).StringFixed(2)
	_, err = c.Result(ctx, messages.CurrencyResult(amount.String(), from.Code, from.Flag, result, to.Code, to.Flag), nil)
	return err
}

var errBadAmount = errors.New("amount must be a positive number")

// ParseAmount accepts "100", "12.5", "12,5" and "1 000".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, errBadAmount
	}
	return d, nil
}

func (h *CurrencyHandler) changeCurrency(ctx context.Context, c *controller.Chat, _ types.Command) error {
	if err := c.SetPending(nil); err != nil {
		return err
	}
	return h.sendFromMenu(ctx, c)
}
