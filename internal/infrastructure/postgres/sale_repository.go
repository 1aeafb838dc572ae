package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo persistencia de ventas finales. Usa el pool directo porque la
// cabecera y el detalle se escriben dentro de una misma transacción.
type SaleRepo struct {
	pool *pgxpool.Pool
}

func NewSaleRepository(pool *pgxpool.Pool) *SaleRepo {
	return &SaleRepo{pool: pool}
}

// Create inserta la venta y sus líneas en una transacción. La venta queda
// escrita completa o no queda escrita.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO final_sales
			(id, vendor_id, customer_name, customer_phone, item_description,
			 total_amount, currency, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sale.ID, sale.VendorID, sale.CustomerName, sale.CustomerPhone,
		sale.ItemDescription, sale.TotalAmount, string(sale.Currency),
		string(sale.Status), sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	for _, line := range sale.Lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO final_sale_items
				(sale_id, product_id, quantity, sale_unit, description)
			VALUES ($1, $2, $3, $4, $5)`,
			sale.ID, line.ProductID, line.Quantity, string(line.Unit), line.Description,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit sale: %w", err)
	}
	return nil
}

// ListByVendor lista ventas del vendedor, más recientes primero.
func (r *SaleRepo) ListByVendor(ctx context.Context, vendorID string, limit, offset int) ([]*entity.Sale, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, vendor_id, customer_name, COALESCE(customer_phone, ''),
		       item_description, total_amount, currency, status, created_at
		FROM final_sales
		WHERE vendor_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		vendorID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		var currency, status string
		err := rows.Scan(
			&s.ID, &s.VendorID, &s.CustomerName, &s.CustomerPhone,
			&s.ItemDescription, &s.TotalAmount, &currency, &status, &s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		s.Currency = entity.Currency(currency)
		s.Status = entity.SaleStatus(status)
		sales = append(sales, &s)
	}
	return sales, rows.Err()
}
