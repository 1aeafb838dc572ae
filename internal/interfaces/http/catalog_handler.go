package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kiosco-pos-api/internal/application/catalog"
	"github.com/jhoicas/kiosco-pos-api/internal/application/dto"
	"github.com/jhoicas/kiosco-pos-api/internal/application/rates"
	"github.com/jhoicas/kiosco-pos-api/internal/domain"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/repository"
)

// CatalogHandler expone el catálogo del vendedor con precios derivados.
type CatalogHandler struct {
	uc    *catalog.UseCase
	rates *rates.Table
	stock repository.StockRepository
}

// NewCatalogHandler construye el handler de catálogo.
func NewCatalogHandler(uc *catalog.UseCase, rates *rates.Table, stock repository.StockRepository) *CatalogHandler {
	return &CatalogHandler{uc: uc, rates: rates, stock: stock}
}

// List godoc
// @Summary      Listar catálogo con precios en la moneda pedida
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        currency  query  string  false  "USD | BSF | ARS"  default(USD)
// @Success      200  {array}   dto.CatalogItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/catalog [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	if vendorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "vendor_id requerido"})
	}
	currency := entity.Currency(c.Query("currency", string(entity.CurrencyUSD)))
	if !currency.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CURRENCY", Message: "moneda no soportada"})
	}
	out, err := h.uc.List(c.Context(), vendorID, currency, h.rates.Snapshot())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// UpdateStock godoc
// @Summary      Fijar el stock de un producto (unidades base)
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateStockRequest  true  "stock_units"
// @Success      204
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/catalog/{id}/stock [put]
func (h *CatalogHandler) UpdateStock(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	productID := c.Params("id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	// Solo el dueño del catálogo ajusta su stock.
	if _, err := h.uc.Get(c.Context(), vendorID, productID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "producto de otro vendedor"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if err := h.stock.SetUnits(c.Context(), productID, in.StockUnits); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
