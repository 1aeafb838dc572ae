package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/repository"
)

var _ repository.RateRepository = (*RateRepo)(nil)

// RateRepo persistencia de tasas de cambio por moneda (valor por 1 USD).
type RateRepo struct {
	q Querier
}

func NewRateRepository(q Querier) *RateRepo {
	return &RateRepo{q: q}
}

// Load devuelve la tabla persistida. Tabla vacía si aún no hay tasas.
func (r *RateRepo) Load(ctx context.Context) (entity.RateTable, error) {
	rows, err := r.q.Query(ctx,
		`SELECT currency, per_usd FROM exchange_rates`)
	if err != nil {
		return nil, fmt.Errorf("load rates: %w", err)
	}
	defer rows.Close()

	table := entity.RateTable{}
	for rows.Next() {
		var code string
		var perUSD decimal.Decimal
		if err := rows.Scan(&code, &perUSD); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		table[entity.Currency(code)] = perUSD
	}
	return table, rows.Err()
}

// Save upsertea cada tasa de la tabla. USD no se persiste: siempre vale 1.
func (r *RateRepo) Save(ctx context.Context, table entity.RateTable) error {
	for code, perUSD := range table {
		if code == entity.CurrencyUSD {
			continue
		}
		_, err := r.q.Exec(ctx, `
			INSERT INTO exchange_rates (currency, per_usd, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (currency)
			DO UPDATE SET per_usd = EXCLUDED.per_usd, updated_at = now()`,
			string(code), perUSD,
		)
		if err != nil {
			return fmt.Errorf("save rate %s: %w", code, err)
		}
	}
	return nil
}
