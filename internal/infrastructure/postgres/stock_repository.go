package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kiosco-pos-api/internal/domain"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// Canal de notificaciones de stock. El listener del feed escucha este mismo
// canal; toda escritura de stock publica el evento por aquí.
const stockChannel = "stock_changes"

// StockRepo escritura de stock sobre PostgreSQL. Cada escritura exitosa
// publica un StockEvent por pg_notify para que los kioscos conectados vean el
// cambio sin refrescar.
type StockRepo struct {
	q Querier
}

func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// DecrementUnits descuenta en una sola sentencia condicional: si el stock no
// alcanza, la fila no se toca y se devuelve ErrInsufficientStock.
func (r *StockRepo) DecrementUnits(ctx context.Context, productID string, units int64) error {
	if units <= 0 {
		return fmt.Errorf("unidades a descontar inválidas: %w", domain.ErrInvalidInput)
	}

	var vendorID string
	var remaining int64
	err := r.q.QueryRow(ctx, `
		UPDATE products_multicurrency
		SET stock_units = stock_units - $2, updated_at = now()
		WHERE id = $1 AND stock_units >= $2
		RETURNING vendor_id, stock_units`,
		productID, units,
	).Scan(&vendorID, &remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.classifyMiss(ctx, productID, units)
		}
		return fmt.Errorf("decrement stock: %w", err)
	}

	r.notify(ctx, vendorID, productID, remaining)
	return nil
}

// SetUnits fija el stock en un valor absoluto (nunca negativo).
func (r *StockRepo) SetUnits(ctx context.Context, productID string, units int64) error {
	if units < 0 {
		units = 0
	}

	var vendorID string
	err := r.q.QueryRow(ctx, `
		UPDATE products_multicurrency
		SET stock_units = $2, updated_at = now()
		WHERE id = $1
		RETURNING vendor_id`,
		productID, units,
	).Scan(&vendorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("set stock: %w", err)
	}

	r.notify(ctx, vendorID, productID, units)
	return nil
}

// classifyMiss distingue producto inexistente de stock insuficiente cuando el
// UPDATE condicional no afectó filas.
func (r *StockRepo) classifyMiss(ctx context.Context, productID string, requested int64) error {
	var available int64
	err := r.q.QueryRow(ctx,
		`SELECT stock_units FROM products_multicurrency WHERE id = $1`, productID,
	).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("check stock: %w", err)
	}
	return &domain.InsufficientStockError{
		ProductID: productID,
		Requested: requested,
		Available: available,
	}
}

// notify publica el cambio de stock. Un fallo de notificación no deshace la
// escritura: el cache del kiosco se marca stale en la próxima reconexión.
func (r *StockRepo) notify(ctx context.Context, vendorID, productID string, units int64) {
	now := time.Now()
	payload, err := json.Marshal(entity.StockEvent{
		VendorID:  vendorID,
		ProductID: productID,
		Units:     units,
		Version:   now.UnixNano(),
		At:        now,
	})
	if err != nil {
		return
	}
	_, _ = r.q.Exec(ctx, `SELECT pg_notify($1, $2)`, stockChannel, string(payload))
}
