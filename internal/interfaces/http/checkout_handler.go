package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kiosco-pos-api/internal/application/checkout"
	"github.com/jhoicas/kiosco-pos-api/internal/application/dto"
	"github.com/jhoicas/kiosco-pos-api/internal/application/rates"
	"github.com/jhoicas/kiosco-pos-api/internal/domain"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
	"github.com/jhoicas/kiosco-pos-api/pkg/money"
)

// CheckoutHandler finaliza la compra de la sesión de kiosco.
type CheckoutHandler struct {
	coordinator *checkout.Coordinator
	rates       *rates.Table
}

// NewCheckoutHandler construye el handler de checkout.
func NewCheckoutHandler(coordinator *checkout.Coordinator, rates *rates.Table) *CheckoutHandler {
	return &CheckoutHandler{coordinator: coordinator, rates: rates}
}

// Checkout godoc
// @Summary      Finalizar la compra de la sesión
// @Tags         checkout
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header  string  true  "Sesión de kiosco"
// @Param        body  body  dto.CheckoutRequest  true  "customer_name, currency"
// @Success      200   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.CheckoutPartialResponse
// @Router       /api/checkout [post]
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	sessionID := c.Get(HeaderSessionID)
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_SESSION", Message: "X-Session-ID es requerido"})
	}
	c.Set(HeaderSessionID, sessionID)
	vendorID := GetVendorID(c)

	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	summary, err := h.coordinator.Checkout(
		c.Context(),
		sessionID,
		vendorID,
		checkout.CustomerInfo{Name: in.CustomerName, Phone: in.CustomerPhone},
		entity.Currency(in.Currency),
		h.rates.Snapshot(),
	)
	if err != nil {
		return h.checkoutError(c, err)
	}

	total := money.Round(summary.Total, string(summary.Currency))
	return c.JSON(dto.CheckoutResponse{
		SaleID:       summary.SaleID,
		CustomerName: summary.CustomerName,
		Description:  summary.Description,
		Currency:     string(summary.Currency),
		Total:        total,
		TotalDisplay: money.Format(total, string(summary.Currency)),
	})
}

// checkoutError traduce los fallos del coordinador. Un descuento parcial
// devuelve 502 con el detalle de qué reintentarse; el carrito ya retiene solo
// las líneas fallidas.
func (h *CheckoutHandler) checkoutError(c *fiber.Ctx, err error) error {
	var partial *domain.StockDecrementError
	if errors.As(err, &partial) {
		return c.Status(fiber.StatusBadGateway).JSON(dto.CheckoutPartialResponse{
			Code:        "PARTIAL_STOCK_DECREMENT",
			Message:     "venta registrada pero parte del stock no pudo descontarse; reintentar con las líneas retenidas",
			Decremented: partial.Decremented,
			Failed:      partial.Failed,
		})
	}
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: insufficient.Error()})
	}
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_CART", Message: "el carrito está vacío"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "customer_name es requerido"})
	case errors.Is(err, domain.ErrUnsupportedCurrency):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CURRENCY", Message: "moneda no soportada"})
	case errors.Is(err, domain.ErrSaleWriteFailed):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "SALE_WRITE_FAILED", Message: "no se pudo registrar la venta; el carrito quedó intacto"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
