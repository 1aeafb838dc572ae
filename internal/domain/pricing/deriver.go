// Package pricing deriva el precio de una línea a partir de los precios base
// del producto, la moneda elegida y la granularidad de venta. Funciones puras:
// mismo producto, moneda y tabla de tasas producen siempre el mismo monto.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kiosco-pos-api/internal/domain"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
)

// Derive calcula el precio del producto en la moneda y granularidad pedidas.
// Reglas:
//   - la granularidad debe estar permitida por SaleMode (ErrUnsupportedSaleUnit si no);
//   - un precio explícito para (moneda, granularidad) manda: override POS primero,
//     luego precio de lista;
//   - sin precio explícito, el monto se deriva como baseUSD × tasa(moneda).
//
// No redondea: el redondeo es política de presentación (pkg/money).
func Derive(p *entity.Product, rates entity.RateTable, c entity.Currency, u entity.SaleUnit) (decimal.Decimal, error) {
	if !u.Valid() {
		return decimal.Decimal{}, domain.ErrInvalidInput
	}
	if !p.SaleMode.Allows(u) {
		return decimal.Decimal{}, domain.ErrUnsupportedSaleUnit
	}
	return FromSet(p.Prices(u), p.BaseUSD(u), rates, c)
}

// FromSet deriva un precio desde un juego de precios ya resuelto (por ejemplo
// el snapshot guardado en una línea de carrito) sin necesidad del producto.
func FromSet(ps entity.PriceSet, baseUSD decimal.Decimal, rates entity.RateTable, c entity.Currency) (decimal.Decimal, error) {
	rate, ok := rates.Rate(c)
	if !ok {
		return decimal.Decimal{}, domain.ErrUnsupportedCurrency
	}
	if explicit := ps.Explicit(c); explicit.IsPositive() {
		return explicit, nil
	}
	return baseUSD.Mul(rate), nil
}
