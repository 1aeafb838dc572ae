package repository

import (
	"context"

	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
)

// RateRepository persistencia de la tabla de tasas de cambio.
type RateRepository interface {
	// Load devuelve la tabla persistida; tabla vacía (no nil) si no hay tasas.
	Load(ctx context.Context) (entity.RateTable, error)
	Save(ctx context.Context, table entity.RateTable) error
}
