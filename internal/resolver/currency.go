package resolver

import "strings"

// currencyAliases maps natural-language currency names and symbols to ISO
// codes. Lookups are case-insensitive.
var currencyAliases = map[string]string{
	"$":       "USD",
	"dollar":  "USD",
	"dollars": "USD",
	"usd":     "USD",
	"бакс":    "USD",
	"баксы":   "USD",
	"доллар":  "USD",
	"доллары": "USD",
	"€":       "EUR",
	"euro":    "EUR",
	"euros":   "EUR",
	"eur":     "EUR",
	"евро":    "EUR",
	"£":       "GBP",
	"pound":   "GBP",
	"pounds":  "GBP",
	"фунт":    "GBP",
	"фунты":   "GBP",
	"₽":       "RUB",
	"руб":     "RUB",
	"рубли":   "RUB",
	"рублей":  "RUB",
	"рубль":   "RUB",
	"₸":       "KZT",
	"тенге":   "KZT",
	"₴":       "UAH",
	"гривна":  "UAH",
	"гривны":  "UAH",
	"йена":    "JPY",
	"yen":     "JPY",
	"юань":    "CNY",
	"yuan":    "CNY",
	"лира":    "TRY",
	"lira":    "TRY",
}

// NormalizeCurrency maps a currency token to an ISO-4217 code. Known aliases
// translate; unmapped 3-letter all-caps tokens pass through unchanged;
// everything else is rejected.
func NormalizeCurrency(token string) (string, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	if code, ok := currencyAliases[strings.ToLower(token)]; ok {
		return code, true
	}
	if len(token) == 3 && token == strings.ToUpper(token) && isLetters(token) {
		return token, true
	}
	return "", false
}

func isLetters(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
