package utils

import (
	"github.com/go-telegram/bot/models"

	"github.com/BatmanBruc/bat-bot-multitool/internal/menu"
)

func BuildInlineKeyboard(rows [][]menu.Button) *models.InlineKeyboardMarkup {
	pad := func(s string) string { return " " + s + " " }
	keyboard := make([][]models.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		out := make([]models.InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			out = append(out, models.InlineKeyboardButton{
				Text:         pad(button.Text),
				CallbackData: button.Token,
			})
		}
		if len(out) > 0 {
			keyboard = append(keyboard, out)
		}
	}

	return &models.InlineKeyboardMarkup{
		InlineKeyboard: keyboard,
	}
}

func BuildReplyKeyboard(rows [][]string) *models.ReplyKeyboardMarkup {
	keyboard := make([][]models.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		out := make([]models.KeyboardButton, 0, len(row))
		for _, text := range row {
			out = append(out, models.KeyboardButton{Text: text})
		}
		keyboard = append(keyboard, out)
	}

	return &models.ReplyKeyboardMarkup{
		Keyboard:       keyboard,
		ResizeKeyboard: true,
	}
}
