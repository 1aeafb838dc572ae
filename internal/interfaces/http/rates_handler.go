package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kiosco-pos-api/internal/application/dto"
	"github.com/jhoicas/kiosco-pos-api/internal/application/rates"
	"github.com/jhoicas/kiosco-pos-api/internal/domain"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
)

// RatesHandler consulta y ajuste de las tasas de cambio.
type RatesHandler struct {
	table *rates.Table
}

// NewRatesHandler construye el handler de tasas.
func NewRatesHandler(table *rates.Table) *RatesHandler {
	return &RatesHandler{table: table}
}

// Get godoc
// @Summary      Tabla de tasas vigente (unidades por 1 USD)
// @Tags         rates
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RatesResponse
// @Router       /api/rates [get]
func (h *RatesHandler) Get(c *fiber.Ctx) error {
	snapshot := h.table.Snapshot()
	out := dto.RatesResponse{
		Rates:   make(map[string]decimal.Decimal, len(snapshot)),
		Version: h.table.Version(),
	}
	for code, perUSD := range snapshot {
		out.Rates[string(code)] = perUSD
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Fijar la tasa de una moneda
// @Tags         rates
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateRateRequest  true  "currency, per_usd"
// @Success      200   {object}  dto.RatesResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/rates [put]
func (h *RatesHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.table.Update(c.Context(), entity.Currency(in.Currency), in.PerUSD)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedCurrency) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CURRENCY", Message: "moneda no ajustable"})
		}
		if errors.Is(err, domain.ErrInvalidRate) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_RATE", Message: "la tasa debe ser positiva"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return h.Get(c)
}
