package repository

import (
	"context"

	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
)

// VendorRepository puerto de lectura de vendedores para el login por código.
type VendorRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Vendor, error)
}
