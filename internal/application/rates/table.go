// Package rates mantiene la tabla de tasas de cambio del proceso: estado
// compartido con dueño explícito. Los consumidores nunca leen la tabla viva;
// piden un Snapshot y se lo pasan a pricing como parámetro.
package rates

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kiosco-pos-api/internal/domain"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/repository"
	"github.com/jhoicas/kiosco-pos-api/pkg/logger"
)

// Table tabla de tasas versionada. Escrita por la acción de configuración del
// vendedor, leída por todo el que derive precios.
type Table struct {
	mu      sync.RWMutex
	version int64
	rates   entity.RateTable
	repo    repository.RateRepository
	log     *logger.Logger
}

// New carga la tabla persistida; si está vacía arranca con las tasas por defecto.
func New(ctx context.Context, repo repository.RateRepository, defaults entity.RateTable, log *logger.Logger) (*Table, error) {
	t := &Table{repo: repo, log: log, rates: defaults.Clone()}
	if repo != nil {
		stored, err := repo.Load(ctx)
		if err != nil {
			return nil, err
		}
		for code, rate := range stored {
			if rate.IsPositive() {
				t.rates[code] = rate
			}
		}
	}
	return t, nil
}

// Snapshot copia inmutable de la tabla para pasar a pricing.
func (t *Table) Snapshot() entity.RateTable {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rates.Clone()
}

// Version número de versión de la tabla; crece con cada actualización aplicada.
func (t *Table) Version() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.version
}

// Update fija la tasa de una moneda (unidades por 1 USD) y la persiste.
// USD no se puede tocar (siempre 1) y toda tasa debe ser > 0.
// Primero persiste y recién entonces publica en memoria: si la escritura
// durable falla, la tabla viva queda como estaba.
func (t *Table) Update(ctx context.Context, code entity.Currency, perUSD decimal.Decimal) error {
	if code == entity.CurrencyUSD || !code.Valid() {
		return domain.ErrUnsupportedCurrency
	}
	if !perUSD.IsPositive() {
		return domain.ErrInvalidRate
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.repo != nil {
		next := t.rates.Clone()
		next[code] = perUSD
		if err := t.repo.Save(ctx, next); err != nil {
			return err
		}
	}
	t.rates[code] = perUSD
	t.version++

	t.log.Info().Str("moneda", string(code)).Str("tasa", perUSD.String()).Msg("tasa de cambio actualizada")
	return nil
}
