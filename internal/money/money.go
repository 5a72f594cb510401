// Package money holds the minor-unit amount representation shared by all
// gateway adapters, plus the country lookup used for address normalization.
package money

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in minor units (cents) with an ISO 4217 alpha code.
type Money struct {
	Amount   int64
	Currency string
}

// AmountString renders the minor-unit amount the way JSON-over-HTTP
// processors expect it ("100" for 1.00).
func (m Money) AmountString() string {
	return strconv.FormatInt(m.Amount, 10)
}

// CurrencyOr returns the currency code, falling back to the adapter's
// default when the caller supplied none.
func (m Money) CurrencyOr(def string) string {
	if m.Currency != "" {
		return m.Currency
	}
	return def
}

// Format renders a human-readable amount for logs, e.g. "1.25 USD".
func (m Money) Format() string {
	return fmt.Sprintf("%d.%02d %s", m.Amount/100, m.Amount%100, m.CurrencyOr("???"))
}

// isoNumeric maps country identifiers (alpha-2 codes and common English
// names, lowercased) to ISO 3166-1 numeric codes.
var isoNumeric = map[string]string{
	"ar": "032", "argentina": "032",
	"br": "076", "brazil": "076",
	"ca": "124", "canada": "124",
	"cl": "152", "chile": "152",
	"co": "170", "colombia": "170",
	"cr": "188", "costa rica": "188",
	"do": "214", "dominican republic": "214",
	"ec": "218", "ecuador": "218",
	"sv": "222", "el salvador": "222",
	"gt": "320", "guatemala": "320",
	"hn": "340", "honduras": "340",
	"mx": "484", "mexico": "484",
	"ni": "558", "nicaragua": "558",
	"pa": "591", "panama": "591",
	"pe": "604", "peru": "604",
	"es": "724", "spain": "724",
	"gb": "826", "united kingdom": "826",
	"us": "840", "united states": "840", "united states of america": "840",
	"uy": "858", "uruguay": "858",
	"ve": "862", "venezuela": "862",
}

// CountryNumericCode looks up the ISO 3166-1 numeric code for a country
// given as an alpha-2 code or an English name.
func CountryNumericCode(country string) (string, bool) {
	code, ok := isoNumeric[strings.ToLower(strings.TrimSpace(country))]
	return code, ok
}
