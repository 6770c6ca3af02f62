package utils

import (
	"testing"

	"github.com/BatmanBruc/bat-bot-multitool/internal/menu"
)

func TestBuildInlineKeyboard(t *testing.T) {
	kb := BuildInlineKeyboard([][]menu.Button{
		{{Text: "USD", Token: "from_USD"}, {Text: "EUR", Token: "from_EUR"}},
		{},
		{{Text: "➡️", Token: "page_from_2"}},
	})
	if len(kb.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2 (empty rows dropped)", len(kb.InlineKeyboard))
	}
	if got := kb.InlineKeyboard[0][1].CallbackData; got != "from_EUR" {
		t.Errorf("callback data = %q, want from_EUR", got)
	}
	if got := kb.InlineKeyboard[0][0].Text; got != " USD " {
		t.Errorf("text = %q, want padded", got)
	}
}

func TestBuildReplyKeyboard(t *testing.T) {
	kb := BuildReplyKeyboard([][]string{{"Translation", "Download"}, {"Text to voice"}})
	if len(kb.Keyboard) != 2 || kb.Keyboard[1][0].Text != "Text to voice" || !kb.ResizeKeyboard {
		t.Errorf("unexpected keyboard %+v", kb)
	}
}
