package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/kiosco-pos-api/pkg/money"
)

func TestScale_ARSEnteroRestoDosDecimales(t *testing.T) {
	assert.EqualValues(t, 0, money.Scale("ARS"), "ARS se muestra sin decimales")
	assert.EqualValues(t, 2, money.Scale("USD"))
	assert.EqualValues(t, 2, money.Scale("BSF"))
}

func TestRound_PorMoneda(t *testing.T) {
	assert.Equal(t, "6000", money.Round(decimal.RequireFromString("5999.6"), "ARS").String())
	assert.Equal(t, "6", money.Round(decimal.RequireFromString("5.995"), "USD").String())
}

func TestFormat_SimboloYSeparadoresLocalizados(t *testing.T) {
	assert.Equal(t, "$ 6,00", money.Format(decimal.RequireFromString("6"), "USD"))
	assert.Equal(t, "Bs. 42,00", money.Format(decimal.RequireFromString("42"), "BSF"))
	assert.Equal(t, "$ 6.000", money.Format(decimal.RequireFromString("6000"), "ARS"))
}

func TestLocalized_ComaDecimalEnEspanol(t *testing.T) {
	assert.Equal(t, "6,00", money.Localized(decimal.RequireFromString("6"), "USD"))
	assert.Equal(t, "60.000", money.Localized(decimal.RequireFromString("60000"), "ARS"))
}
