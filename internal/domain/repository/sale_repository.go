package repository

import (
	"context"

	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
)

// SaleRepository puerto de persistencia para ventas finales.
// Las ventas son inmutables: solo Create y listados.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	ListByVendor(ctx context.Context, vendorID string, limit, offset int) ([]*entity.Sale, error)
}
