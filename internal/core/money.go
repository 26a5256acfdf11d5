// Package core holds the ledger domain: expenses, money, categories,
// currencies and the calendar keys used to slice them.
//
// This file contains amount parsing and the display formatting policy.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const (
	CurrencyUSD Currency = "USD"
	CurrencyIDR Currency = "IDR"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
	CurrencySGD Currency = "SGD"
	CurrencyAUD Currency = "AUD"
	CurrencyMYR Currency = "MYR"
	CurrencyTHB Currency = "THB"
	CurrencyPHP Currency = "PHP"
	CurrencyKRW Currency = "KRW"
	CurrencyINR Currency = "INR"

	// DefaultCurrency applies until the user picks one in settings.
	DefaultCurrency = CurrencyUSD
)

// Currency is a display-only label: it affects symbols and rounding in
// rendered amounts, never computation.
type Currency string

// CurrencyInfo carries the presentation attributes of a currency code.
type CurrencyInfo struct {
	Code   Currency
	Symbol string
	Label  string
}

var currencyList = []CurrencyInfo{
	{CurrencyUSD, "$", "US Dollar"},
	{CurrencyIDR, "Rp", "Indonesian Rupiah"},
	{CurrencyEUR, "€", "Euro"},
	{CurrencyGBP, "£", "British Pound"},
	{CurrencyJPY, "¥", "Japanese Yen"},
	{CurrencySGD, "S$", "Singapore Dollar"},
	{CurrencyAUD, "A$", "Australian Dollar"},
	{CurrencyMYR, "RM", "Malaysian Ringgit"},
	{CurrencyTHB, "฿", "Thai Baht"},
	{CurrencyPHP, "₱", "Philippine Peso"},
	{CurrencyKRW, "₩", "South Korean Won"},
	{CurrencyINR, "₹", "Indian Rupee"},
}

var currencyIndex = func() map[Currency]CurrencyInfo {
	m := make(map[Currency]CurrencyInfo, len(currencyList))
	for _, c := range currencyList {
		m[c.Code] = c
	}
	return m
}()

// Currencies returns the supported currency set in display order.
func Currencies() []CurrencyInfo {
	out := make([]CurrencyInfo, len(currencyList))
	copy(out, currencyList)
	return out
}

// Valid reports whether the code belongs to the supported set.
func (c Currency) Valid() bool {
	_, ok := currencyIndex[c]
	return ok
}

// Symbol returns the currency's display symbol, defaulting to the US dollar
// sign for unknown codes.
func (c Currency) Symbol() string {
	if info, ok := currencyIndex[c]; ok {
		return info.Symbol
	}
	return currencyIndex[DefaultCurrency].Symbol
}

// Label returns the currency's long display name.
func (c Currency) Label() string {
	if info, ok := currencyIndex[c]; ok {
		return info.Label
	}
	return currencyIndex[DefaultCurrency].Label
}

// wholeUnit currencies display without decimal places.
func (c Currency) wholeUnit() bool {
	switch c {
	case CurrencyIDR, CurrencyJPY, CurrencyKRW:
		return true
	}
	return false
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Both dot and comma separators are
// accepted. Only strictly positive amounts are valid.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.346") -> 1235, nil (rounds up)
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// MoneyFromFloat converts a decimal amount (as decoded from JSON) to cents
// with half-away-from-zero rounding.
func MoneyFromFloat(f float64) Money {
	if f >= 0 {
		return Money{Cents: int64(f*100 + 0.5)}
	}
	return Money{Cents: -int64(-f*100 + 0.5)}
}

// FormatAmount renders an amount under the per-currency display policy:
// whole-unit currencies (IDR, JPY, KRW) round to the nearest unit with
// grouping separators, everything else shows exactly two decimals.
func FormatAmount(m Money, c Currency) string {
	neg := m.Cents < 0
	cents := m.Cents
	if neg {
		cents = -cents
	}
	var s string
	if c.wholeUnit() {
		s = groupThousands((cents + 50) / 100)
	} else {
		s = fmt.Sprintf("%d.%02d", cents/100, cents%100)
	}
	if neg {
		return "-" + s
	}
	return s
}

// FormatWithSymbol prefixes FormatAmount with the currency symbol.
func FormatWithSymbol(m Money, c Currency) string {
	if m.Cents < 0 {
		return "-" + c.Symbol() + FormatAmount(m.Abs(), c)
	}
	return c.Symbol() + FormatAmount(m, c)
}

// FormatCompact renders large magnitudes as "X.XM" / "X.XK" for chart axes.
// Amounts under a thousand units fall back to FormatAmount. Never use this
// for primary totals.
func FormatCompact(m Money, c Currency) string {
	units := m.Units()
	switch {
	case units >= 1_000_000:
		return fmt.Sprintf("%.1fM", units/1_000_000)
	case units >= 1_000:
		return fmt.Sprintf("%.1fK", units/1_000)
	default:
		return FormatAmount(m, c)
	}
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
