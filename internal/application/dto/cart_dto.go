package dto

import "github.com/shopspring/decimal"

// AddLineRequest agrega una unidad o docena de un producto al carrito.
type AddLineRequest struct {
	ProductID string `json:"product_id"`
	Currency  string `json:"currency"`
	SaleUnit  string `json:"sale_unit"` // "unit" | "dozen"
}

// SetQuantityRequest fija la cantidad de las líneas del producto en esa
// granularidad; cantidad <= 0 elimina.
type SetQuantityRequest struct {
	ProductID string `json:"product_id"`
	SaleUnit  string `json:"sale_unit"`
	Quantity  int64  `json:"quantity"`
}

// RemoveLineRequest identidad completa de la línea a remover.
type RemoveLineRequest struct {
	ProductID string `json:"product_id"`
	Currency  string `json:"currency"`
	SaleUnit  string `json:"sale_unit"`
}

// CartLineResponse línea del carrito para presentación.
type CartLineResponse struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	Currency      string          `json:"currency"`
	SaleUnit      string          `json:"sale_unit"`
	Quantity      int64           `json:"quantity"`
	Units         int64           `json:"units"`
	Price         decimal.Decimal `json:"price"`
	PriceDisplay  string          `json:"price_display"`
	Overcommitted bool            `json:"overcommitted"`
}

// CartResponse carrito completo de la sesión.
type CartResponse struct {
	SessionID string             `json:"session_id"`
	Lines     []CartLineResponse `json:"lines"`
}

// CartTotalResponse total re-derivado en la moneda pedida.
type CartTotalResponse struct {
	Currency     string          `json:"currency"`
	Total        decimal.Decimal `json:"total"`
	TotalDisplay string          `json:"total_display"`
}
