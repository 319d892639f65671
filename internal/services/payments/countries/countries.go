// Package countries holds the static country, currency and locale tables
// used to default vendor requests.
package countries

import (
	"encoding/json"
	"strings"
)

const (
	DefaultCountry  = "FR"
	DefaultCurrency = "EUR"
	DefaultLocale   = "en-US"

	// DefaultAmount is the session amount in minor units.
	DefaultAmount int64 = 10000
)

var currencies = map[string]string{
	"US": "USD",
	"GB": "GBP",
	"NO": "NOK",
	"SE": "SEK",
	"DK": "DKK",
	"CH": "CHF",
	"JP": "JPY",
	"CN": "CNY",
	"KR": "KRW",
	"BR": "BRL",
	"MX": "MXN",
	"AU": "AUD",
	"CA": "CAD",
	"IN": "INR",
	"SG": "SGD",
	"HK": "HKD",
	"MY": "MYR",
	"TH": "THB",
	"ID": "IDR",
	"PH": "PHP",
	"VN": "VND",
	"RU": "RUB",
	"PL": "PLN",
	"CZ": "CZK",
	"AE": "AED",
	"KE": "KES",
	"NZ": "NZD",
}

var locales = map[string]string{
	"BR": "pt-BR",
	"CN": "zh-CN",
	"DK": "da-DK",
	"DE": "de-DE",
	"ES": "es-ES",
	"FR": "fr-FR",
	"IT": "it-IT",
	"JP": "ja-JP",
	"NL": "nl-NL",
	"NO": "no-NO",
	"PL": "pl-PL",
	"RU": "ru-RU",
	"SE": "sv-SE",
	"TW": "zh-TW",
	"US": "en-US",
	"GB": "en-GB",
	"AU": "en-AU",
	"CA": "en-CA",
	"MX": "es-MX",
	"KR": "ko-KR",
	"FI": "fi-FI",
	"AT": "de-AT",
	"CH": "de-CH",
	"BE": "fr-BE",
	"PT": "pt-PT",
	"IN": "en-IN",
	"SG": "en-SG",
	"HK": "en-HK",
	"MY": "en-MY",
	"TH": "th-TH",
	"ID": "id-ID",
	"PH": "en-PH",
	"VN": "vi-VN",
	"CZ": "cs-CZ",
	"AE": "en-AE",
	"KE": "en-KE",
	"NZ": "en-NZ",
}

// methodCountries pins payment methods that only exist in one market.
var methodCountries = map[string]string{
	"vipps":     "NO",
	"mobilepay": "DK",
	"ideal":     "NL",
}

// CurrencyForCountry returns the ISO currency for a country code, or EUR.
func CurrencyForCountry(code string) string {
	if c, ok := currencies[code]; ok {
		return c
	}
	return DefaultCurrency
}

// LocaleForCountry returns the shopper locale for a country code, or en-US.
func LocaleForCountry(code string) string {
	if l, ok := locales[code]; ok {
		return l
	}
	return DefaultLocale
}

// NormalizeCountry accepts either a bare country code or the JSON object
// stored by the browser's country selector ({"id":"SE",...}).
func NormalizeCountry(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultCountry
	}

	if strings.HasPrefix(raw, "{") {
		var parsed struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil || parsed.ID == "" {
			return DefaultCountry
		}
		return parsed.ID
	}

	return raw
}

// EnforcedCountry returns the only country a market-bound method can be
// used in, falling back to the normalized selected country.
func EnforcedCountry(method, selected string) string {
	if c, ok := methodCountries[strings.ToLower(method)]; ok {
		return c
	}
	return NormalizeCountry(selected)
}

type LineItem struct {
	ID                 string
	Quantity           int64
	AmountIncludingTax int64
	Description        string
}

var defaultBasket = []LineItem{
	{ID: "1", Quantity: 1, AmountIncludingTax: 5000, Description: "Sunglasses"},
	{ID: "2", Quantity: 1, AmountIncludingTax: 5000, Description: "Headphones"},
}

// LineItemsForMethod returns the demo basket. Every method currently shares
// the same basket; the copy keeps callers from mutating the table.
func LineItemsForMethod(method string) []LineItem {
	items := make([]LineItem, len(defaultBasket))
	copy(items, defaultBasket)
	return items
}
