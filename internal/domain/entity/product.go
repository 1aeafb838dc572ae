package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleMode modos de venta de un producto (valores tal como se guardan en DB).
type SaleMode string

const (
	SaleModeUnit  SaleMode = "unidades"
	SaleModeDozen SaleMode = "docenas"
	SaleModeBoth  SaleMode = "ambos"
)

// Allows indica si el modo permite vender en la unidad dada.
func (m SaleMode) Allows(u SaleUnit) bool {
	switch m {
	case SaleModeBoth:
		return true
	case SaleModeUnit:
		return u == SaleUnitSingle
	case SaleModeDozen:
		return u == SaleUnitDozen
	}
	return false
}

// SaleUnit granularidad de una línea de carrito: unidad suelta o docena.
type SaleUnit string

const (
	SaleUnitSingle SaleUnit = "unit"
	SaleUnitDozen  SaleUnit = "dozen"
)

// Units unidades base que consume cada cantidad vendida en esta granularidad.
func (u SaleUnit) Units() int64 {
	if u == SaleUnitDozen {
		return 12
	}
	return 1
}

// Valid indica si la unidad de venta es conocida.
func (u SaleUnit) Valid() bool {
	return u == SaleUnitSingle || u == SaleUnitDozen
}

// PriceSet precios de un producto para una granularidad (unidad o docena).
// Los campos Pos* son overrides del punto de venta: si son > 0 mandan sobre
// el precio de lista y sobre la conversión derivada desde USD.
type PriceSet struct {
	USD    decimal.Decimal
	BSF    decimal.Decimal
	ARS    decimal.Decimal
	PosUSD decimal.Decimal
	PosBSF decimal.Decimal
	PosARS decimal.Decimal
}

// Explicit devuelve el precio explícito para la moneda (override POS primero,
// luego precio de lista) o cero si no hay precio explícito definido.
func (ps PriceSet) Explicit(c Currency) decimal.Decimal {
	var pos, listed decimal.Decimal
	switch c {
	case CurrencyUSD:
		pos, listed = ps.PosUSD, ps.USD
	case CurrencyBSF:
		pos, listed = ps.PosBSF, ps.BSF
	case CurrencyARS:
		pos, listed = ps.PosARS, ps.ARS
	}
	if pos.IsPositive() {
		return pos
	}
	return listed
}

// Product producto del catálogo multimoneda de un vendedor.
// StockUnits siempre está expresado en unidades base (una docena consume 12).
// El core lo trata como solo lectura; lo crea/actualiza el dueño del catálogo.
type Product struct {
	ID           string
	VendorID     string
	Name         string
	Description  string
	Category     string
	SaleMode     SaleMode
	StockUnits   int64
	PriceUnit    PriceSet
	PriceDozen   PriceSet
	IsOfferUnit  bool
	IsOfferDozen bool
	ImageURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Prices devuelve el juego de precios para la granularidad pedida.
func (p *Product) Prices(u SaleUnit) PriceSet {
	if u == SaleUnitDozen {
		return p.PriceDozen
	}
	return p.PriceUnit
}

// BaseUSD precio base en USD para la granularidad. Si la docena no tiene precio
// USD propio, se asume 12 veces el precio unitario.
func (p *Product) BaseUSD(u SaleUnit) decimal.Decimal {
	if u == SaleUnitDozen {
		if p.PriceDozen.USD.IsPositive() {
			return p.PriceDozen.USD
		}
		return p.PriceUnit.USD.Mul(decimal.NewFromInt(12))
	}
	return p.PriceUnit.USD
}
