package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/kiosco-pos-api/internal/application/cart"
	"github.com/jhoicas/kiosco-pos-api/internal/application/catalog"
	"github.com/jhoicas/kiosco-pos-api/internal/application/dto"
	"github.com/jhoicas/kiosco-pos-api/internal/application/rates"
	"github.com/jhoicas/kiosco-pos-api/internal/domain"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/pricing"
	"github.com/jhoicas/kiosco-pos-api/pkg/money"
)

// CartHandler maneja el carrito de la sesión de kiosco. La sesión viaja en el
// header X-Session-ID; si el cliente no manda uno se emite uno nuevo y se
// devuelve en el mismo header de la respuesta.
type CartHandler struct {
	store   *cart.Store
	catalog *catalog.UseCase
	rates   *rates.Table
}

// NewCartHandler construye el handler de carrito.
func NewCartHandler(store *cart.Store, catalogUC *catalog.UseCase, rates *rates.Table) *CartHandler {
	return &CartHandler{store: store, catalog: catalogUC, rates: rates}
}

// sessionID obtiene la sesión del header o emite una nueva, y la refleja
// siempre en la respuesta.
func (h *CartHandler) sessionID(c *fiber.Ctx) string {
	id := c.Get(HeaderSessionID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(HeaderSessionID, id)
	return id
}

// Get godoc
// @Summary      Ver el carrito de la sesión
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        X-Session-ID  header  string  false  "Sesión de kiosco"
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	sessionID := h.sessionID(c)
	lines, err := h.store.Lines(c.Context(), sessionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(h.cartResponse(sessionID, lines))
}

// AddLine godoc
// @Summary      Agregar una unidad o docena al carrito
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header  string  false  "Sesión de kiosco"
// @Param        body  body  dto.AddLineRequest  true  "product_id, currency, sale_unit"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cart/lines [post]
func (h *CartHandler) AddLine(c *fiber.Ctx) error {
	sessionID := h.sessionID(c)
	vendorID := GetVendorID(c)

	var in dto.AddLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}

	p, err := h.catalog.Get(c.Context(), vendorID, in.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "producto de otro vendedor"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	_, err = h.store.AddLine(c.Context(), sessionID, p, entity.Currency(in.Currency), entity.SaleUnit(in.SaleUnit))
	if err != nil {
		return h.cartError(c, err)
	}

	lines, err := h.store.Lines(c.Context(), sessionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(h.cartResponse(sessionID, lines))
}

// SetQuantity godoc
// @Summary      Fijar la cantidad de las líneas de un producto
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header  string  false  "Sesión de kiosco"
// @Param        body  body  dto.SetQuantityRequest  true  "product_id, sale_unit, quantity"
// @Success      200   {object}  dto.CartResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cart/lines [put]
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	sessionID := h.sessionID(c)

	var in dto.SetQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.store.SetQuantity(c.Context(), sessionID, in.ProductID, entity.SaleUnit(in.SaleUnit), in.Quantity); err != nil {
		return h.cartError(c, err)
	}

	lines, err := h.store.Lines(c.Context(), sessionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(h.cartResponse(sessionID, lines))
}

// RemoveLine godoc
// @Summary      Remover una línea del carrito
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header  string  false  "Sesión de kiosco"
// @Param        body  body  dto.RemoveLineRequest  true  "product_id, currency, sale_unit"
// @Success      200   {object}  dto.CartResponse
// @Router       /api/cart/lines [delete]
func (h *CartHandler) RemoveLine(c *fiber.Ctx) error {
	sessionID := h.sessionID(c)

	var in dto.RemoveLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.store.RemoveLine(c.Context(), sessionID, in.ProductID, entity.Currency(in.Currency), entity.SaleUnit(in.SaleUnit)); err != nil {
		return h.cartError(c, err)
	}

	lines, err := h.store.Lines(c.Context(), sessionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(h.cartResponse(sessionID, lines))
}

// Clear godoc
// @Summary      Vaciar el carrito de la sesión
// @Tags         cart
// @Security     Bearer
// @Param        X-Session-ID  header  string  false  "Sesión de kiosco"
// @Success      204
// @Router       /api/cart [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sessionID := h.sessionID(c)
	if err := h.store.Clear(c.Context(), sessionID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Total godoc
// @Summary      Total del carrito re-derivado en la moneda pedida
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        X-Session-ID  header  string  false  "Sesión de kiosco"
// @Param        currency  query  string  false  "USD | BSF | ARS"  default(USD)
// @Success      200  {object}  dto.CartTotalResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cart/total [get]
func (h *CartHandler) Total(c *fiber.Ctx) error {
	sessionID := h.sessionID(c)
	currency := entity.Currency(c.Query("currency", string(entity.CurrencyUSD)))
	if !currency.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CURRENCY", Message: "moneda no soportada"})
	}
	total, err := h.store.Total(c.Context(), sessionID, currency, h.rates.Snapshot())
	if err != nil {
		return h.cartError(c, err)
	}
	total = money.Round(total, string(currency))
	return c.JSON(dto.CartTotalResponse{
		Currency:     string(currency),
		Total:        total,
		TotalDisplay: money.Format(total, string(currency)),
	})
}

// cartResponse arma el DTO del carrito re-derivando el precio de cada línea
// con las tasas vigentes.
func (h *CartHandler) cartResponse(sessionID string, lines []*entity.CartLine) dto.CartResponse {
	snapshot := h.rates.Snapshot()
	out := dto.CartResponse{SessionID: sessionID, Lines: make([]dto.CartLineResponse, 0, len(lines))}
	for _, l := range lines {
		price, err := pricing.FromSet(l.Prices, l.BaseUSD, snapshot, l.Currency)
		if err != nil {
			price = l.Prices.Explicit(l.Currency)
		}
		price = money.Round(price, string(l.Currency))
		out.Lines = append(out.Lines, dto.CartLineResponse{
			ProductID:     l.ProductID,
			Name:          l.Name,
			Currency:      string(l.Currency),
			SaleUnit:      string(l.Unit),
			Quantity:      l.Quantity,
			Units:         l.Units(),
			Price:         price,
			PriceDisplay:  money.Format(price, string(l.Currency)),
			Overcommitted: l.Overcommitted,
		})
	}
	return out
}

// cartError traduce errores del dominio a respuestas HTTP.
func (h *CartHandler) cartError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: insufficient.Error()})
	}
	switch {
	case errors.Is(err, domain.ErrUnsupportedSaleUnit):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_SALE_UNIT", Message: "el producto no se vende en esa granularidad"})
	case errors.Is(err, domain.ErrUnsupportedCurrency):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CURRENCY", Message: "moneda no soportada"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "línea no encontrada"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
