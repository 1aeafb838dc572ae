package dto

import "github.com/shopspring/decimal"

// UpdateStockRequest fija el stock de un producto en unidades base.
type UpdateStockRequest struct {
	StockUnits int64 `json:"stock_units"`
}

// CatalogItemResponse producto del catálogo con precios derivados en la moneda
// pedida. Los campos *Display ya aplican la política de redondeo por moneda.
type CatalogItemResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Category          string          `json:"category,omitempty"`
	SaleMode          string          `json:"sale_mode"`
	StockUnits        int64           `json:"stock_units"`
	Currency          string          `json:"currency"`
	UnitPrice         decimal.Decimal `json:"unit_price,omitempty"`
	UnitPriceDisplay  string          `json:"unit_price_display,omitempty"`
	DozenPrice        decimal.Decimal `json:"dozen_price,omitempty"`
	DozenPriceDisplay string          `json:"dozen_price_display,omitempty"`
	IsOfferUnit       bool            `json:"is_offer_unit"`
	IsOfferDozen      bool            `json:"is_offer_dozen"`
	ImageURL          string          `json:"image_url,omitempty"`
}
