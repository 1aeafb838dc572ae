package entity

import "github.com/shopspring/decimal"

// Currency código de moneda soportado por el kiosco.
// USD es la moneda base; ARS y BSF se derivan vía tasa salvo precio explícito.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyARS Currency = "ARS"
	CurrencyBSF Currency = "BSF"
)

// Currencies lista las monedas soportadas en orden de presentación.
func Currencies() []Currency {
	return []Currency{CurrencyUSD, CurrencyBSF, CurrencyARS}
}

// Valid indica si el código es una moneda soportada.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyUSD, CurrencyARS, CurrencyBSF:
		return true
	}
	return false
}

// RateTable mapea moneda -> unidades de esa moneda por 1 USD.
// USD siempre es 1. Invariante: toda tasa es > 0.
type RateTable map[Currency]decimal.Decimal

// Rate devuelve la tasa para la moneda. USD responde 1 aunque no esté en el mapa.
func (t RateTable) Rate(c Currency) (decimal.Decimal, bool) {
	if c == CurrencyUSD {
		return decimal.NewFromInt(1), true
	}
	r, ok := t[c]
	if !ok || !r.IsPositive() {
		return decimal.Decimal{}, false
	}
	return r, true
}

// Clone copia la tabla para entregarla como snapshot inmutable.
func (t RateTable) Clone() RateTable {
	out := make(RateTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// DefaultRates tasas iniciales mientras no haya configuración persistida
// (1 USD = 7 BSF, 1 USD = 1000 ARS).
func DefaultRates() RateTable {
	return RateTable{
		CurrencyBSF: decimal.NewFromInt(7),
		CurrencyARS: decimal.NewFromInt(1000),
	}
}
