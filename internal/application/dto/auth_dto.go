package dto

import "github.com/shopspring/decimal"

// LoginRequest login de vendedor por código de acceso.
type LoginRequest struct {
	VendorID   string `json:"vendor_id"`
	AccessCode string `json:"access_code"`
}

// LoginResponse token de sesión del vendedor.
type LoginResponse struct {
	Token      string `json:"token"`
	VendorID   string `json:"vendor_id"`
	VendorName string `json:"vendor_name"`
}

// RatesResponse tabla de tasas vigente (unidades por 1 USD).
type RatesResponse struct {
	Rates   map[string]decimal.Decimal `json:"rates"`
	Version int64                      `json:"version"`
}

// UpdateRateRequest fija la tasa de una moneda.
type UpdateRateRequest struct {
	Currency string          `json:"currency"`
	PerUSD   decimal.Decimal `json:"per_usd"`
}
