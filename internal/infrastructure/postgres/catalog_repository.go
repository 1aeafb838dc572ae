package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kiosco-pos-api/internal/domain"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lectura del catálogo multimoneda sobre PostgreSQL.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

const productColumns = `
	id, vendor_id, name, COALESCE(description, ''), COALESCE(category, ''),
	sale_mode, stock_units,
	price_usd, price_bsf, price_arg,
	price_pos_usd, price_pos_bsf, price_pos_arg,
	price_dozen_usd, price_dozen_bsf, price_dozen_arg,
	price_dozen_pos_usd, price_dozen_pos_bsf, price_dozen_pos_arg,
	is_offer_unit, is_offer_dozen, COALESCE(image_url, ''),
	created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.VendorID, &p.Name, &p.Description, &p.Category,
		&p.SaleMode, &p.StockUnits,
		&p.PriceUnit.USD, &p.PriceUnit.BSF, &p.PriceUnit.ARS,
		&p.PriceUnit.PosUSD, &p.PriceUnit.PosBSF, &p.PriceUnit.PosARS,
		&p.PriceDozen.USD, &p.PriceDozen.BSF, &p.PriceDozen.ARS,
		&p.PriceDozen.PosUSD, &p.PriceDozen.PosBSF, &p.PriceDozen.PosARS,
		&p.IsOfferUnit, &p.IsOfferDozen, &p.ImageURL,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProduct obtiene un producto por ID, o nil si no existe.
func (r *CatalogRepo) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products_multicurrency WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// ListByVendor lista el catálogo completo de un vendedor.
func (r *CatalogRepo) ListByVendor(ctx context.Context, vendorID string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products_multicurrency
		WHERE vendor_id = $1
		ORDER BY category, name`
	rows, err := r.q.Query(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetStockUnits lee el stock autoritativo directo de la fila del producto.
func (r *CatalogRepo) GetStockUnits(ctx context.Context, productID string) (int64, error) {
	var units int64
	err := r.q.QueryRow(ctx,
		`SELECT stock_units FROM products_multicurrency WHERE id = $1`, productID,
	).Scan(&units)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("get stock units: %w", err)
	}
	return units, nil
}
