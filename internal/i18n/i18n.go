package i18n

import (
	"strings"

	"github.com/BatmanBruc/bat-bot-multitool/types"
)

type Lang string

const (
	EN Lang = "en"
	RU Lang = "ru"
	UZ Lang = "uz"
)

// Supported lists interface languages in menu order.
var Supported = []Lang{EN, RU, UZ}

func FromLanguageCode(code string) Lang {
	code = strings.ToLower(strings.TrimSpace(code))
	switch {
	case strings.HasPrefix(code, "ru"):
		return RU
	case strings.HasPrefix(code, "uz"):
		return UZ
	}
	return EN
}

func Parse(s string) (Lang, bool) {
	switch Lang(strings.ToLower(strings.TrimSpace(s))) {
	case EN:
		return EN, true
	case RU:
		return RU, true
	case UZ:
		return UZ, true
	}
	return EN, false
}

func (l Lang) Name() string {
	switch l {
	case RU:
		return "🇷🇺 Русский"
	case UZ:
		return "🇺🇿 O'zbek"
	}
	return "🇺🇸 English"
}

// Pick returns the variant for l, falling back to English.
func Pick(l Lang, en, ru, uz string) string {
	switch l {
	case RU:
		return ru
	case UZ:
		return uz
	}
	return en
}

var modeLabels = map[types.Mode][3]string{
	types.ModeTranslate: {"Translation", "Перевод", "Tarjima"},
	types.ModeDownload:  {"Download", "Скачать", "Yuklash"},
	types.ModeCurrency:  {"Currency Calculator", "Калькулятор валют", "Valyuta Kalkulyatori"},
	types.ModeConvert:   {"File Conversion", "Конвертация файлов", "Fayl Konvertatsiyasi"},
	types.ModeVoice:     {"Text to voice", "Текст в голос", "Matndan ovozga"},
	types.ModeMain:      {"Change bot type", "Изменить тип бота", "Bot turini o'zgartirish"},
}

// MenuOrder is the layout of the main reply keyboard.
var MenuOrder = [][]types.Mode{
	{types.ModeTranslate, types.ModeDownload},
	{types.ModeCurrency, types.ModeConvert},
	{types.ModeVoice},
}

func ModeLabel(l Lang, m types.Mode) string {
	labels, ok := modeLabels[m]
	if !ok {
		return string(m)
	}
	return Pick(l, labels[0], labels[1], labels[2])
}

// LookupLabel resolves a localized menu label in any interface language to its mode.
func LookupLabel(text string) (types.Mode, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	for mode, labels := range modeLabels {
		for _, label := range labels {
			if strings.EqualFold(label, text) {
				return mode, true
			}
		}
	}
	return "", false
}
