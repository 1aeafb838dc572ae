package dto

import "github.com/shopspring/decimal"

// CheckoutRequest datos para finalizar la compra de la sesión.
type CheckoutRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Currency      string `json:"currency"`
}

// CheckoutResponse resumen con forma de recibo de una compra completada.
type CheckoutResponse struct {
	SaleID       string          `json:"sale_id"`
	CustomerName string          `json:"customer_name"`
	Description  string          `json:"description"`
	Currency     string          `json:"currency"`
	Total        decimal.Decimal `json:"total"`
	TotalDisplay string          `json:"total_display"`
}

// CheckoutPartialResponse detalle de un descuento de stock parcial: qué
// productos quedaron descontados y cuáles deben reintentarse.
type CheckoutPartialResponse struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Decremented []string `json:"decremented"`
	Failed      []string `json:"failed"`
}

// SaleResponse venta registrada, para el listado del vendedor.
type SaleResponse struct {
	ID              string          `json:"id"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone,omitempty"`
	ItemDescription string          `json:"item_description"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	CreatedAt       string          `json:"created_at"`
}

// SaleListResponse listado paginado de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
