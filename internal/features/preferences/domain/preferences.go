package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ThemeMode is the color scheme of the app.
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// DefaultTheme applies when nothing valid is stored.
const DefaultTheme = ThemeLight

func (m ThemeMode) Valid() bool {
	return m == ThemeLight || m == ThemeDark
}

// Toggled returns the opposite mode.
func (m ThemeMode) Toggled() ThemeMode {
	if m == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Currency is the display currency of prices.
type Currency string

const (
	CurrencySom Currency = "Som"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyRUB Currency = "RUB"
	CurrencyKRW Currency = "KRW"
)

// DefaultCurrency applies when nothing valid is stored.
const DefaultCurrency = CurrencyUSD

type currencyInfo struct {
	symbol   string
	suffix   bool
	decimals int32
}

var currencies = map[Currency]currencyInfo{
	CurrencySom: {symbol: "сом", suffix: true, decimals: 2},
	CurrencyUSD: {symbol: "$", decimals: 2},
	CurrencyEUR: {symbol: "€", decimals: 2},
	CurrencyRUB: {symbol: "₽", suffix: true, decimals: 2},
	CurrencyKRW: {symbol: "₩", decimals: 0},
}

// Currencies lists the supported currencies.
func Currencies() []Currency {
	return []Currency{CurrencySom, CurrencyUSD, CurrencyEUR, CurrencyRUB, CurrencyKRW}
}

func (c Currency) Valid() bool {
	_, ok := currencies[c]
	return ok
}

// Symbol returns the currency sign.
func (c Currency) Symbol() string {
	return currencies[c].symbol
}

// Format renders amount with the currency sign, e.g. "$37.50", "37.50 ₽" or "₩38".
func (c Currency) Format(amount float64) string {
	info, ok := currencies[c]
	if !ok {
		info = currencies[DefaultCurrency]
	}

	num := decimal.NewFromFloat(amount).StringFixed(info.decimals)
	if info.suffix {
		return num + " " + info.symbol
	}
	if strings.HasPrefix(num, "-") {
		return "-" + info.symbol + num[1:]
	}
	return info.symbol + num
}

// AppSettings are the user toggles persisted under one key.
type AppSettings struct {
	Notifications      bool   `json:"notifications"`
	EmailNotifications bool   `json:"emailNotifications"`
	OrderUpdates       bool   `json:"orderUpdates"`
	Promotions         bool   `json:"promotions"`
	Biometric          bool   `json:"biometric"`
	Language           string `json:"language" validate:"required,oneof=en ru ky ko"`
}

// DefaultAppSettings are used until the user changes something.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Notifications: true,
		OrderUpdates:  true,
		Language:      "en",
	}
}
