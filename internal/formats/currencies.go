package formats

import "strings"

type Currency struct {
	Code string
	Name string
	Flag string
}

// Currencies is in menu order.
var Currencies = []Currency{
	{Code: "USD", Name: "US Dollar", Flag: "🇺🇸"},
	{Code: "EUR", Name: "Euro", Flag: "🇪🇺"},
	{Code: "JPY", Name: "Japanese Yen", Flag: "🇯🇵"},
	{Code: "GBP", Name: "British Pound", Flag: "🇬🇧"},
	{Code: "AUD", Name: "Australian Dollar", Flag: "🇦🇺"},
	{Code: "CAD", Name: "Canadian Dollar", Flag: "🇨🇦"},
	{Code: "CHF", Name: "Swiss Franc", Flag: "🇨🇭"},
	{Code: "CNY", Name: "Chinese Yuan", Flag: "🇨🇳"},
	{Code: "UZS", Name: "Uzbekistani Som", Flag: "🇺🇿"},
	{Code: "UAH", Name: "Ukrainian Hryvnia", Flag: "🇺🇦"},
	{Code: "AZN", Name: "Azerbaijani Manat", Flag: "🇦🇿"},
	{Code: "AMD", Name: "Armenian Dram", Flag: "🇦🇲"},
	{Code: "BYN", Name: "Belarusian Ruble", Flag: "🇧🇾"},
	{Code: "GEL", Name: "Georgian Lari", Flag: "🇬🇪"},
	{Code: "KZT", Name: "Kazakhstani Tenge", Flag: "🇰🇿"},
	{Code: "KGS", Name: "Kyrgyzstani Som", Flag: "🇰🇬"},
	{Code: "MDL", Name: "Moldovan Leu", Flag: "🇲🇩"},
	{Code: "TJS", Name: "Tajikistani Somoni", Flag: "🇹🇯"},
	{Code: "TMT", Name: "Turkmenistani Manat", Flag: "🇹🇲"},
	{Code: "SEK", Name: "Swedish Krona", Flag: "🇸🇪"},
	{Code: "NZD", Name: "New Zealand Dollar", Flag: "🇳🇿"},
	{Code: "MXN", Name: "Mexican Peso", Flag: "🇲🇽"},
	{Code: "SGD", Name: "Singapore Dollar", Flag: "🇸🇬"},
	{Code: "HKD", Name: "Hong Kong Dollar", Flag: "🇭🇰"},
	{Code: "NOK", Name: "Norwegian Krone", Flag: "🇳🇴"},
	{Code: "KRW", Name: "South Korean Won", Flag: "🇰🇷"},
	{Code: "TRY", Name: "Turkish Lira", Flag: "🇹🇷"},
	{Code: "RUB", Name: "Russian Ruble", Flag: "🇷🇺"},
	{Code: "INR", Name: "Indian Rupee", Flag: "🇮🇳"},
	{Code: "BRL", Name: "Brazilian Real", Flag: "🇧🇷"},
	{Code: "ZAR", Name: "South African Rand", Flag: "🇿🇦"},
	{Code: "ARS", Name: "Argentine Peso", Flag: "🇦🇷"},
	{Code: "BDT", Name: "Bangladeshi Taka", Flag: "🇧🇩"},
	{Code: "BHD", Name: "Bahraini Dinar", Flag: "🇧🇭"},
	{Code: "BMD", Name: "Bermudian Dollar", Flag: "🇧🇲"},
	{Code: "BND", Name: "Brunei Dollar", Flag: "🇧🇳"},
	{Code: "BOB", Name: "Bolivian Boliviano", Flag: "🇧🇴"},
	{Code: "CLP", Name: "Chilean Peso", Flag: "🇨🇱"},
	{Code: "COP", Name: "Colombian Peso", Flag: "🇨🇴"},
	{Code: "CRC", Name: "Costa Rican Colón", Flag: "🇨🇷"},
	{Code: "CZK", Name: "Czech Koruna", Flag: "🇨🇿"},
	{Code: "DKK", Name: "Danish Krone", Flag: "🇩🇰"},
	{Code: "DOP", Name: "Dominican Peso", Flag: "🇩🇴"},
	{Code: "EGP", Name: "Egyptian Pound", Flag: "🇪🇬"},
	{Code: "FJD", Name: "Fijian Dollar", Flag: "🇫🇯"},
	{Code: "GHS", Name: "Ghanaian Cedi", Flag: "🇬🇭"},
	{Code: "GTQ", Name: "Guatemalan Quetzal", Flag: "🇬🇹"},
	{Code: "HNL", Name: "Honduran Lempira", Flag: "🇭🇳"},
	{Code: "HUF", Name: "Hungarian Forint", Flag: "🇭🇺"},
	{Code: "IDR", Name: "Indonesian Rupiah", Flag: "🇮🇩"},
	{Code: "ILS", Name: "Israeli New Shekel", Flag: "🇮🇱"},
	{Code: "JMD", Name: "Jamaican Dollar", Flag: "🇯🇲"},
	{Code: "JOD", Name: "Jordanian Dinar", Flag: "🇯🇴"},
	{Code: "KES", Name: "Kenyan Shilling", Flag: "🇰🇪"},
	{Code: "KWD", Name: "Kuwaiti Dinar", Flag: "🇰🇼"},
	{Code: "LKR", Name: "Sri Lankan Rupee", Flag: "🇱🇰"},
	{Code: "MAD", Name: "Moroccan Dirham", Flag: "🇲🇦"},
	{Code: "MUR", Name: "Mauritian Rupee", Flag: "🇲🇺"},
	{Code: "MVR", Name: "Maldivian Rufiyaa", Flag: "🇲🇻"},
	{Code: "MYR", Name: "Malaysian Ringgit", Flag: "🇲🇾"},
	{Code: "NGN", Name: "Nigerian Naira", Flag: "🇳🇬"},
	{Code: "NPR", Name: "Nepalese Rupee", Flag: "🇳🇵"},
	{Code: "OMR", Name: "Omani Rial", Flag: "🇴🇲"},
	{Code: "PEN", Name: "Peruvian Sol", Flag: "🇵🇪"},
	{Code: "PHP", Name: "Philippine Peso", Flag: "🇵🇭"},
	{Code: "PKR", Name: "Pakistani Rupee", Flag: "🇵🇰"},
	{Code: "PLN", Name: "Polish Zloty", Flag: "🇵🇱"},
	{Code: "QAR", Name: "Qatari Riyal", Flag: "🇶🇦"},
	{Code: "RON", Name: "Romanian Leu", Flag: "🇷🇴"},
	{Code: "SAR", Name: "Saudi Riyal", Flag: "🇸🇦"},
	{Code: "THB", Name: "Thai Baht", Flag: "🇹🇭"},
	{Code: "TTD", Name: "Trinidad and Tobago Dollar", Flag: "🇹🇹"},
	{Code: "TWD", Name: "New Taiwan Dollar", Flag: "🇹🇼"},
	{Code: "TZS", Name: "Tanzanian Shilling", Flag: "🇹🇿"},
	{Code: "UGX", Name: "Ugandan Shilling", Flag: "🇺🇬"},
	{Code: "UYU", Name: "Uruguayan Peso", Flag: "🇺🇾"},
	{Code: "VEF", Name: "Venezuelan Bolívar", Flag: "🇻🇪"},
	{Code: "VND", Name: "Vietnamese Dong", Flag: "🇻🇳"},
	{Code: "XAF", Name: "CFA Franc BEAC", Flag: "🇨🇲"},
	{Code: "XCD", Name: "East Caribbean Dollar", Flag: "🇦🇬"},
	{Code: "XOF", Name: "CFA Franc BCEAO", Flag: "🇸🇳"},
	{Code: "YER", Name: "Yemeni Rial", Flag: "🇾🇪"},
	{Code: "ZMW", Name: "Zambian Kwacha", Flag: "🇿🇲"},
}

func CurrencyByCode(code string) (Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}
