package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineKey identidad de una línea de carrito. Agregar el mismo producto con la
// misma moneda y granularidad incrementa la cantidad; cambiar cualquiera de las
// dos crea una línea distinta.
type LineKey struct {
	ProductID string
	Currency  Currency
	Unit      SaleUnit
}

// CartLine línea de carrito de una sesión de kiosco. Lleva un snapshot
// desnormalizado del producto (nombre, precios y stock al momento de agregar)
// para poder mostrar el carrito sin volver a consultar el catálogo.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Currency  Currency        `json:"currency"`
	Unit      SaleUnit        `json:"unit"`
	Quantity  int64           `json:"quantity"`
	Name      string          `json:"name"`
	Prices    PriceSet        `json:"prices"`
	BaseUSD   decimal.Decimal `json:"base_usd"`
	// StockAtAdd stock conocido al agregar la línea (solo informativo).
	StockAtAdd int64 `json:"stock_at_add"`
	// Overcommitted se enciende cuando una baja de stock posterior deja a la
	// línea pidiendo más unidades de las disponibles. No se recorta solo:
	// el checkout la rechaza con un error específico.
	Overcommitted bool      `json:"overcommitted"`
	AddedAt       time.Time `json:"added_at"`
}

// Key identidad (producto, moneda, granularidad) de la línea.
func (l *CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Currency: l.Currency, Unit: l.Unit}
}

// Units unidades base que compromete la línea (cantidad × 12 si es docena).
func (l *CartLine) Units() int64 {
	return l.Quantity * l.Unit.Units()
}

// CommittedUnits suma las unidades base comprometidas para un producto a través
// de todas las líneas, sin importar moneda ni granularidad.
func CommittedUnits(lines []*CartLine, productID string) int64 {
	var total int64
	for _, l := range lines {
		if l.ProductID == productID {
			total += l.Units()
		}
	}
	return total
}
