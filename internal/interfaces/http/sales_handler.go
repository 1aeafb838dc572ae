package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kiosco-pos-api/internal/application/dto"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/repository"
)

// SalesHandler listado de ventas registradas del vendedor.
type SalesHandler struct {
	repo repository.SaleRepository
}

// NewSalesHandler construye el handler de ventas.
func NewSalesHandler(repo repository.SaleRepository) *SalesHandler {
	return &SalesHandler{repo: repo}
}

// List godoc
// @Summary      Listar ventas del vendedor
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SalesHandler) List(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	if vendorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "vendor_id requerido"})
	}
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	sales, err := h.repo.ListByVendor(c.Context(), vendorID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	out := dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(sales)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, s := range sales {
		out.Items = append(out.Items, dto.SaleResponse{
			ID:              s.ID,
			CustomerName:    s.CustomerName,
			CustomerPhone:   s.CustomerPhone,
			ItemDescription: s.ItemDescription,
			TotalAmount:     s.TotalAmount,
			Currency:        string(s.Currency),
			Status:          string(s.Status),
			CreatedAt:       s.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(out)
}
