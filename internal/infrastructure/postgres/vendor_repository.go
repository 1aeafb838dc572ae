package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/repository"
)

var _ repository.VendorRepository = (*VendorRepo)(nil)

// VendorRepo lectura de vendedores para el login por código de acceso.
type VendorRepo struct {
	q Querier
}

func NewVendorRepository(q Querier) *VendorRepo {
	return &VendorRepo{q: q}
}

// GetByID obtiene un vendedor por ID, o nil si no existe.
func (r *VendorRepo) GetByID(ctx context.Context, id string) (*entity.Vendor, error) {
	var v entity.Vendor
	err := r.q.QueryRow(ctx, `
		SELECT id, name, access_code_hash, active, created_at
		FROM vendors
		WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.Name, &v.AccessCodeHash, &v.Active, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return &v, nil
}
