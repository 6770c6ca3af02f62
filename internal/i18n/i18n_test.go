package i18n

import (
	"testing"

	"github.com/BatmanBruc/bat-bot-multitool/types"
)

func TestLookupLabel(t *testing.T) {
	tests := []struct {
		text string
		want types.Mode
		ok   bool
	}{
		{"Translation", types.ModeTranslate, true},
		{"перевод", types.ModeTranslate, true},
		{"Valyuta Kalkulyatori", types.ModeCurrency, true},
		{" File Conversion ", types.ModeConvert, true},
		{"Change bot type", types.ModeMain, true},
		{"hello", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := LookupLabel(tt.text)
		if got != tt.want || ok != tt.ok {
			t.Errorf("LookupLabel(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}

func TestEveryMenuModeHasLabels(t *testing.T) {
	for _, row := range MenuOrder {
		for _, m := range row {
			for _, l := range Supported {
				label := ModeLabel(l, m)
				got, ok := LookupLabel(label)
				if !ok || got != m {
					t.Errorf("label %q (%s) resolves to %q, want %q", label, l, got, m)
				}
			}
		}
	}
}

func TestFromLanguageCode(t *testing.T) {
	if got := FromLanguageCode("ru-RU"); got != RU {
		t.Errorf("FromLanguageCode(ru-RU) = %s, want ru", got)
	}
	if got := FromLanguageCode("uz"); got != UZ {
		t.Errorf("FromLanguageCode(uz) = %s, want uz", got)
	}
	if got := FromLanguageCode("de"); got != EN {
		t.Errorf("FromLanguageCode(de) = %s, want en", got)
	}
}
