package money

// Currency describes one supported currency.
type Currency struct {
	Code   string
	Name   string
	Symbol string
}

// Currencies is the closed set supported by the teller. Shared by every screen;
// do not inline copies elsewhere.
var Currencies = []Currency{
	{Code: "USD", Name: "US Dollar", Symbol: "$"},
	{Code: "EUR", Name: "Euro", Symbol: "€"},
	{Code: "GBP", Name: "British Pound", Symbol: "£"},
	{Code: "ILS", Name: "Israeli Shekel", Symbol: "₪"},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥"},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$"},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$"},
}

// ValidCurrency reports whether code is one of the supported currencies.
func ValidCurrency(code string) bool {
	for _, c := range Currencies {
		if c.Code == code {
			return true
		}
	}
	return false
}

// Symbol returns the display symbol for code, falling back to the code itself.
func Symbol(code string) string {
	for _, c := range Currencies {
		if c.Code == code {
			return c.Symbol
		}
	}
	return code
}

// CurrencyCodes returns the codes in display order.
func CurrencyCodes() []string {
	out := make([]string, len(Currencies))
	for i, c := range Currencies {
		out[i] = c.Code
	}
	return out
}
