package rates_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kiosco-pos-api/internal/application/rates"
	"github.com/jhoicas/kiosco-pos-api/internal/domain"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
	"github.com/jhoicas/kiosco-pos-api/pkg/logger"
)

// repoTasasFake persistencia en memoria de la tabla; puede forzarse a fallar.
type repoTasasFake struct {
	tabla    entity.RateTable
	failSave bool
}

func (r *repoTasasFake) Load(_ context.Context) (entity.RateTable, error) {
	return r.tabla, nil
}

func (r *repoTasasFake) Save(_ context.Context, table entity.RateTable) error {
	if r.failSave {
		return errors.New("almacenamiento no disponible")
	}
	r.tabla = table.Clone()
	return nil
}

func nuevaTabla(t *testing.T) *rates.Table {
	t.Helper()
	tbl, err := rates.New(context.Background(), nil, entity.DefaultRates(), logger.Nop())
	require.NoError(t, err)
	return tbl
}

func TestUpdate_TasaNoPositivaRechazada(t *testing.T) {
	tbl := nuevaTabla(t)
	err := tbl.Update(context.Background(), entity.CurrencyARS, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
	err = tbl.Update(context.Background(), entity.CurrencyARS, decimal.NewFromInt(-5))
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
}

func TestUpdate_USDNoSeModifica(t *testing.T) {
	tbl := nuevaTabla(t)
	err := tbl.Update(context.Background(), entity.CurrencyUSD, decimal.NewFromInt(2))
	assert.ErrorIs(t, err, domain.ErrUnsupportedCurrency)
}

func TestSnapshot_EsCopiaAislada(t *testing.T) {
	tbl := nuevaTabla(t)
	snap := tbl.Snapshot()
	snap[entity.CurrencyARS] = decimal.NewFromInt(1)

	fresh := tbl.Snapshot()
	assert.True(t, fresh[entity.CurrencyARS].Equal(decimal.NewFromInt(1000)),
		"mutar un snapshot no debe afectar la tabla")
}

func TestUpdate_IncrementaVersion(t *testing.T) {
	tbl := nuevaTabla(t)
	v0 := tbl.Version()
	require.NoError(t, tbl.Update(context.Background(), entity.CurrencyBSF, decimal.NewFromInt(9)))
	assert.Equal(t, v0+1, tbl.Version())

	rate, ok := tbl.Snapshot().Rate(entity.CurrencyBSF)
	require.True(t, ok)
	assert.True(t, rate.Equal(decimal.NewFromInt(9)))
}

// Una actualización que no se logra persistir no debe dejar la tabla en
// memoria divergente del almacenamiento: ni tasa nueva ni versión nueva.
func TestUpdate_FalloDePersistenciaNoMutaLaTabla(t *testing.T) {
	repo := &repoTasasFake{tabla: entity.DefaultRates()}
	tbl, err := rates.New(context.Background(), repo, entity.DefaultRates(), logger.Nop())
	require.NoError(t, err)
	v0 := tbl.Version()

	repo.failSave = true
	err = tbl.Update(context.Background(), entity.CurrencyBSF, decimal.NewFromInt(9))
	require.Error(t, err)

	assert.Equal(t, v0, tbl.Version(), "la versión no avanza si no se persistió")
	rate, ok := tbl.Snapshot().Rate(entity.CurrencyBSF)
	require.True(t, ok)
	assert.True(t, rate.Equal(entity.DefaultRates()[entity.CurrencyBSF]),
		"la tasa en memoria sigue siendo la persistida")

	// Al recuperarse el almacenamiento la misma actualización procede
	repo.failSave = false
	require.NoError(t, tbl.Update(context.Background(), entity.CurrencyBSF, decimal.NewFromInt(9)))
	assert.Equal(t, v0+1, tbl.Version())
	assert.True(t, repo.tabla[entity.CurrencyBSF].Equal(decimal.NewFromInt(9)))
}
