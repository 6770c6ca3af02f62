package formats

import "strings"

type Language struct {
	Code string
	Name string
	Flag string
}

// Languages are the translation targets in menu order.
var Languages = []Language{
	{Code: "en", Name: "English", Flag: "🇺🇸"},
	{Code: "ru", Name: "Russian", Flag: "🇷🇺"},
	{Code: "uz", Name: "Uzbek", Flag: "🇺🇿"},
	{Code: "es", Name: "Spanish", Flag: "🇪🇸"},
	{Code: "fr", Name: "French", Flag: "🇫🇷"},
	{Code: "de", Name: "German", Flag: "🇩🇪"},
	{Code: "it", Name: "Italian", Flag: "🇮🇹"},
	{Code: "pt", Name: "Portuguese", Flag: "🇵🇹"},
	{Code: "tr", Name: "Turkish", Flag: "🇹🇷"},
	{Code: "ar", Name: "Arabic", Flag: "🇸🇦"},
	{Code: "zh", Name: "Chinese", Flag: "🇨🇳"},
	{Code: "ja", Name: "Japanese", Flag: "🇯🇵"},
	{Code: "ko", Name: "Korean", Flag: "🇰🇷"},
	{Code: "hi", Name: "Hindi", Flag: "🇮🇳"},
	{Code: "uk", Name: "Ukrainian", Flag: "🇺🇦"},
	{Code: "kk", Name: "Kazakh", Flag: "🇰🇿"},
	{Code: "ky", Name: "Kyrgyz", Flag: "🇰🇬"},
	{Code: "tg", Name: "Tajik", Flag: "🇹🇯"},
	{Code: "tk", Name: "Turkmen", Flag: "🇹🇲"},
	{Code: "az", Name: "Azerbaijani", Flag: "🇦🇿"},
	{Code: "hy", Name: "Armenian", Flag: "🇦🇲"},
	{Code: "ka", Name: "Georgian", Flag: "🇬🇪"},
	{Code: "be", Name: "Belarusian", Flag: "🇧🇾"},
	{Code: "pl", Name: "Polish", Flag: "🇵🇱"},
	{Code: "cs", Name: "Czech", Flag: "🇨🇿"},
	{Code: "sk", Name: "Slovak", Flag: "🇸🇰"},
	{Code: "hu", Name: "Hungarian", Flag: "🇭🇺"},
	{Code: "ro", Name: "Romanian", Flag: "🇷🇴"},
	{Code: "bg", Name: "Bulgarian", Flag: "🇧🇬"},
	{Code: "sr", Name: "Serbian", Flag: "🇷🇸"},
	{Code: "hr", Name: "Croatian", Flag: "🇭🇷"},
	{Code: "el", Name: "Greek", Flag: "🇬🇷"},
	{Code: "nl", Name: "Dutch", Flag: "🇳🇱"},
	{Code: "sv", Name: "Swedish", Flag: "🇸🇪"},
	{Code: "no", Name: "Norwegian", Flag: "🇳🇴"},
	{Code: "da", Name: "Danish", Flag: "🇩🇰"},
	{Code: "fi", Name: "Finnish", Flag: "🇫🇮"},
	{Code: "et", Name: "Estonian", Flag: "🇪🇪"},
	{Code: "lv", Name: "Latvian", Flag: "🇱🇻"},
	{Code: "lt", Name: "Lithuanian", Flag: "🇱🇹"},
	{Code: "he", Name: "Hebrew", Flag: "🇮🇱"},
	{Code: "fa", Name: "Persian", Flag: "🇮🇷"},
	{Code: "ur", Name: "Urdu", Flag: "🇵🇰"},
	{Code: "bn", Name: "Bengali", Flag: "🇧🇩"},
	{Code: "id", Name: "Indonesian", Flag: "🇮🇩"},
	{Code: "ms", Name: "Malay", Flag: "🇲🇾"},
	{Code: "vi", Name: "Vietnamese", Flag: "🇻🇳"},
	{Code: "th", Name: "Thai", Flag: "🇹🇭"},
}

func LanguageByCode(code string) (Language, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range Languages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}
