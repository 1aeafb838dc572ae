package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus estado de una venta registrada.
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusFailed    SaleStatus = "failed"
)

// SaleLine detalle de una venta: producto, cantidad y granularidad.
type SaleLine struct {
	ProductID   string
	Quantity    int64
	Unit        SaleUnit
	Description string // "Nombre (x3)"
}

// Sale venta final registrada por el kiosco. Inmutable una vez creada;
// la impresión del recibo es responsabilidad de otro sistema.
type Sale struct {
	ID              string
	VendorID        string
	CustomerName    string
	CustomerPhone   string
	ItemDescription string // descripción legible de todas las líneas, separada por comas
	TotalAmount     decimal.Decimal
	Currency        Currency
	Status          SaleStatus
	Lines           []SaleLine
	CreatedAt       time.Time
}
