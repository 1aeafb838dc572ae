// Package money implementa la política de presentación de montos: los cálculos
// internos no redondean, pero al mostrar se redondea según la moneda (USD y BSF
// a 2 decimales, ARS al entero más cercano por ser de alta denominación),
// de forma consistente en catálogo, carrito y checkout.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Spanish)

// Scale decimales de presentación para la moneda.
func Scale(code string) int32 {
	if code == "ARS" {
		return 0
	}
	return 2
}

// Symbol símbolo de presentación de la moneda.
func Symbol(code string) string {
	switch code {
	case "BSF":
		return "Bs."
	default:
		return "$"
	}
}

// Round redondea el monto a la escala de presentación de la moneda.
func Round(amount decimal.Decimal, code string) decimal.Decimal {
	return amount.Round(Scale(code))
}

// Format devuelve el monto redondeado con símbolo y separadores localizados
// ("$ 6,00", "Bs. 42,00", "$ 6.000").
func Format(amount decimal.Decimal, code string) string {
	return Symbol(code) + " " + Localized(amount, code)
}

// Localized devuelve el monto redondeado con separadores en español
// ("6,00" para USD 6, "60.000" para ARS 60000). Solo presentación: la pérdida
// de precisión del paso por float no afecta los cálculos internos.
func Localized(amount decimal.Decimal, code string) string {
	scale := int(Scale(code))
	f, _ := Round(amount, code).Float64()
	return printer.Sprintf("%v", number.Decimal(f, number.Scale(scale)))
}
