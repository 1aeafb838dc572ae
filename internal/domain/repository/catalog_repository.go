package repository

import (
	"context"

	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
)

// CatalogRepository puerto de lectura del catálogo del vendedor (DIP).
// El core nunca escribe productos; la administración del catálogo es externa.
type CatalogRepository interface {
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	ListByVendor(ctx context.Context, vendorID string) ([]*entity.Product, error)
	// GetStockUnits lee el stock autoritativo directo del almacén, salteando
	// cualquier cache. Lo usa el checkout en la fase de validación.
	GetStockUnits(ctx context.Context, productID string) (int64, error)
}
