package messages

import (
	"fmt"
	"strings"

	"github.com/BatmanBruc/bat-bot-multitool/internal/i18n"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

const ParseModeHTML = "HTML"

func Escape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(strings.TrimSpace(s))
}

func FileLine(l i18n.Lang, fileName string) string {
	name := strings.TrimSpace(fileName)
	if name == "" {
		name = i18n.Pick(l, "file", "файл", "fayl")
	}
	return fmt.Sprintf("📄 <b>%s</b> %s", i18n.Pick(l, "File:", "Файл:", "Fayl:"), Escape(name))
}

func ChooseInterfaceLanguage(l i18n.Lang) string {
	return "🌐 " + i18n.Pick(l,
		"Please select your language:",
		"Пожалуйста, выберите ваш язык:",
		"Iltimos, tilni tanlang:")
}

func Welcome(l i18n.Lang) string {
	return "👋 <b>" + i18n.Pick(l,
		"Welcome to the universal bot!",
		"Добро пожаловать в универсальный бот!",
		"Universal botga xush kelibsiz!") + "</b>"
}

func ChooseFromMenu(l i18n.Lang) string {
	return i18n.Pick(l,
		"Please choose from the menu below:",
		"Пожалуйста, выберите из меню ниже:",
		"Quyidagi menyudan tanlang:")
}

func ModeSelected(l i18n.Lang, m types.Mode) string {
	switch m {
	case types.ModeTranslate:
		return "🌍 " + i18n.Pick(l,
			"You have selected the translation bot. Here you can translate texts.",
			"Вы выбрали бота перевода. Здесь вы можете переводить тексты.",
			"Siz tarjima botini tanladingiz. Bu yerda siz textlarni tarjima qilishingiz mumkin.")
	case types.ModeDownload:
		return "📥 " + i18n.Pick(l,
			"You have selected the downloader service.",
			"Вы выбрали службу загрузки.",
			"Siz yuklovchi bot xizmatini tanladingiz.")
	case types.ModeCurrency:
		return "💱 " + i18n.Pick(l,
			"You have selected the currency calculator.",
			"Вы выбрали калькулятор валют.",
			"Siz valyuta kalkulyatorini tanladingiz.")
	case types.ModeConvert:
		return "🧩 " + i18n.Pick(l,
			"You have selected the file conversion service.",
			"Вы выбрали службу конвертации файлов.",
			"Siz fayl konvertatsiya qilish xizmatini tanladingiz.")
	case types.ModeVoice:
		return "🎙 " + i18n.Pick(l,
			"You have selected text to voice.",
			"Вы выбрали озвучивание текста.",
			"Siz matndan ovozga xizmatini tanladingiz.")
	}
	return ChooseFromMenu(l)
}

func ChooseTranslateLanguage(l i18n.Lang) string {
	return i18n.Pick(l,
		"What language would you like to translate into?",
		"На какой язык перевести?",
		"Qaysi tilga tarjima qilmoqchisiz?")
}

func EnterTextToTranslate(l i18n.Lang, langName string) string {
	return fmt.Sprintf("✍️ %s <b>%s</b>", i18n.Pick(l,
		"Enter the text to translate into",
		"Введите текст для перевода на",
		"Tarjima uchun matn kiriting:"), Escape(langName))
}

func ChooseFromCurrency(l i18n.Lang) string {
	return "💱 " + i18n.Pick(l,
		"Choose the currency to convert from:",
		"Выберите исходную валюту:",
		"Qaysi valyutadan konvertatsiya qilasiz?")
}

func ChooseToCurrency(l i18n.Lang, from string) string {
	return fmt.Sprintf("💱 <b>%s</b> → ?\n%s", Escape(from), i18n.Pick(l,
		"Choose the currency to convert to:",
		"Выберите валюту, в которую конвертировать:",
		"Qaysi valyutaga konvertatsiya qilasiz?"))
}

func EnterAmount(l i18n.Lang, from, to string) string {
	return fmt.Sprintf("💱 <b>%s → %s</b>\n%s", Escape(from), Escape(to), i18n.Pick(l,
		"Enter the amount:",
		"Введите сумму:",
		"Miqdorni kiriting:"))
}

func InvalidAmount(l i18n.Lang) string {
	return "⚠️ " + i18n.Pick(l,
		"Please enter a correct amount.",
		"Пожалуйста, введите корректную сумму.",
		"Iltimos, to'g'ri miqdorni kiriting.")
}

func CurrencyResult(amount, from, fromFlag, result, to, toFlag string) string {
	return fmt.Sprintf("%s %s %s = <b>%s %s</b> %s", Escape(amount), Escape(from), fromFlag, Escape(result), Escape(to), toFlag)
}

func SendFileToConvert(l i18n.Lang) string {
	return "📎 " + i18n.Pick(l,
		"Send the file you want to convert.",
		"Отправьте файл, который нужно конвертировать.",
		"Konvertatsiya qilinadigan faylni yuboring.")
}

func ChooseTargetFormat(l i18n.Lang, fileName string) string {
	return "📥 <b>" + i18n.Pick(l, "File received", "Файл получен", "Fayl qabul qilindi") + "</b>\n" +
		FileLine(l, fileName) + "\n\n" +
		i18n.Pick(l, "Choose the target format:", "Выберите формат для конвертации:", "Maqsadli formatni tanlang:")
}

func NoConversionTargets(l i18n.Lang, ext string) string {
	return fmt.Sprintf("🚫 %s <code>%s</code>", i18n.Pick(l,
		"No conversion targets are available for",
		"Нет доступных форматов для",
		"Ushbu format uchun konvertatsiya mavjud emas:"), Escape(ext))
}

func ErrorCannotDetectFileType(l i18n.Lang, fileName string) string {
	return "🚫 <b>" + i18n.Pick(l,
		"Could not detect the file type",
		"Не удалось определить тип файла",
		"Fayl turini aniqlab bo'lmadi") + "</b>\n" + FileLine(l, fileName)
}

func SendURL(l i18n.Lang) string {
	return "🔗 " + i18n.Pick(l,
		"Please send the URL of the video you want to download.",
		"Пожалуйста, отправьте URL видео, которое вы хотите загрузить.",
		"Foydalanish uchun videoni URL manzilini yuboring.")
}

func ProcessingURL(l i18n.Lang) string {
	return "⏳ " + i18n.Pick(l,
		"Processing the URL, please wait..",
		"Обработка URL, пожалуйста, подождите..",
		"URL yuklanmoqda, kuting...")
}

func InvalidURL(l i18n.Lang) string {
	return "⚠️ " + i18n.Pick(l,
		"This does not look like a link. Send a URL starting with http:// or https://",
		"Это не похоже на ссылку. Отправьте URL, начинающийся с http:// или https://",
		"Bu havola emas. http:// yoki https:// bilan boshlanadigan URL yuboring.")
}

func ChooseDownloadFormat(l i18n.Lang, title, channel string) string {
	msg := "🎬 <b>" + Escape(title) + "</b>"
	if strings.TrimSpace(channel) != "" {
		msg += "\n👤 " + Escape(channel)
	}
	return msg + "\n\n" + i18n.Pick(l, "Choose the format:", "Выберите формат:", "Formatni tanlang:")
}

func VoicePrompt(l i18n.Lang) string {
	return "🎙 " + i18n.Pick(l,
		"Send text and I will voice it, or send a voice message and I will transcribe it.",
		"Отправьте текст, и я его озвучу, или голосовое сообщение, и я его расшифрую.",
		"Matn yuboring, men uni ovozlashtiraman, yoki ovozli xabar yuboring, men uni matnga aylantiraman.")
}

func EmptyTranscription(l i18n.Lang) string {
	return "🔇 " + i18n.Pick(l,
		"No speech recognized.",
		"Речь не распознана.",
		"Nutq aniqlanmadi.")
}

func QueueQueued(l i18n.Lang, label string, position int) string {
	return fmt.Sprintf("⏳ <b>%s</b> %d\n%s", i18n.Pick(l, "In queue:", "В очереди:", "Navbatda:"), position, FileLine(l, label))
}

func QueueStarted(l i18n.Lang, label string) string {
	return "⚙️ <b>" + i18n.Pick(l, "Processing started", "Обработка началась", "Ishlov berish boshlandi") + "</b>\n" + FileLine(l, label)
}

func StillProcessing(l i18n.Lang) string {
	return "⏳ " + i18n.Pick(l,
		"Still working on your previous request, please wait.",
		"Ещё обрабатываю предыдущий запрос, пожалуйста, подождите.",
		"Oldingi so'rov hali bajarilmoqda, kuting.")
}

func NotSupportedInMode(l i18n.Lang, modeLabel string) string {
	return fmt.Sprintf("🤖 %s <b>%s</b>", i18n.Pick(l,
		"This kind of message is not supported in mode",
		"Этот тип сообщения не поддерживается в режиме",
		"Bu turdagi xabar quyidagi rejimda qo'llab-quvvatlanmaydi:"), Escape(modeLabel))
}

func InvalidInThisMode(l i18n.Lang, modeLabel string) string {
	return fmt.Sprintf("⚠️ %s \"%s\"", i18n.Pick(l,
		"Invalid command. This command only works in mode",
		"Неверная команда. Эта команда работает только в режиме",
		"Noto'g'ri amal. Ushbu buyruq faqat quyidagi rejimda ishlaydi:"), Escape(modeLabel))
}

func ErrorUnknownCommand(l i18n.Lang) string {
	return "❓ <b>" + i18n.Pick(l, "Unknown command", "Команда не найдена", "Buyruq topilmadi") + "</b>"
}

func ErrorDefault(l i18n.Lang) string {
	return "🚫 " + i18n.Pick(l,
		"Error. Please try again.",
		"Ошибка. Пожалуйста, попробуйте ещё раз.",
		"Xato. Iltimos, qayta urinib ko'ring.")
}

func ErrorRateLimited(l i18n.Lang) string {
	return "🐢 " + i18n.Pick(l,
		"The service is busy right now (rate limit). Please try again in a minute.",
		"Сервис перегружен (лимит запросов). Попробуйте через минуту.",
		"Xizmat band (so'rovlar limiti). Bir daqiqadan so'ng qayta urinib ko'ring.")
}

func ErrorTooLarge(l i18n.Lang, limitMB int64) string {
	return fmt.Sprintf("📦 %s %d MB", i18n.Pick(l,
		"The file is too large. The limit is",
		"Файл слишком большой. Лимит:",
		"Fayl juda katta. Limit:"), limitMB)
}

func ErrorNothingFound(l i18n.Lang) string {
	return "🔍 " + i18n.Pick(l,
		"Nothing was found for this request.",
		"По этому запросу ничего не найдено.",
		"Bu so'rov bo'yicha hech narsa topilmadi.")
}

func ErrorTookTooLong(l i18n.Lang) string {
	return "⌛ " + i18n.Pick(l,
		"The service took too long. Please try again.",
		"Сервис отвечает слишком долго. Попробуйте ещё раз.",
		"Xizmat juda uzoq javob bermadi. Qayta urinib ko'ring.")
}

func ErrorJobFailed(l i18n.Lang) string {
	return "🚫 " + i18n.Pick(l,
		"The conversion failed. Try another format or file.",
		"Конвертация не удалась. Попробуйте другой формат или файл.",
		"Konvertatsiya amalga oshmadi. Boshqa format yoki faylni sinab ko'ring.")
}

func Stats(l i18n.Lang, users int64) string {
	return fmt.Sprintf("📊 <b>%s</b> %d", i18n.Pick(l, "Users:", "Пользователей:", "Foydalanuvchilar:"), users)
}

func Help(l i18n.Lang) string {
	return "ℹ️ <b>" + i18n.Pick(l, "Commands", "Команды", "Buyruqlar") + "</b>\n" +
		"/start · /menu · /change_language\n" +
		"/setlanguage · " + i18n.Pick(l, "translation", "перевод", "tarjima") + "\n" +
		"/change_currency · " + i18n.Pick(l, "currency", "валюты", "valyuta") + "\n" +
		"/formats · " + i18n.Pick(l, "file conversion", "конвертация", "konvertatsiya")
}

func PrevPage(l i18n.Lang) string {
	return "⬅️ " + i18n.Pick(l, "Previous", "Назад", "Oldingi")
}

func NextPage(l i18n.Lang) string {
	return i18n.Pick(l, "Next", "Далее", "Keyingi") + " ➡️"
}
