package checkout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kiosco-pos-api/internal/application/cart"
	"github.com/jhoicas/kiosco-pos-api/internal/application/checkout"
	"github.com/jhoicas/kiosco-pos-api/internal/application/stocksync"
	"github.com/jhoicas/kiosco-pos-api/internal/domain"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
	"github.com/jhoicas/kiosco-pos-api/pkg/logger"
)

const (
	sesion   = "sesion-1"
	vendedor = "vendor-1"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type catalogoFake struct {
	productos map[string]*entity.Product
	stock     map[string]int64
}

func (c *catalogoFake) GetProduct(_ context.Context, id string) (*entity.Product, error) {
	p, ok := c.productos[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (c *catalogoFake) ListByVendor(_ context.Context, vendorID string) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(c.productos))
	for _, p := range c.productos {
		out = append(out, p)
	}
	return out, nil
}

func (c *catalogoFake) GetStockUnits(_ context.Context, productID string) (int64, error) {
	units, ok := c.stock[productID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return units, nil
}

// stockFake aplica el decremento condicional en memoria; puede forzarse a
// fallar por producto.
type stockFake struct {
	catalogo *catalogoFake
	fallaEn  map[string]bool
}

func (s *stockFake) DecrementUnits(_ context.Context, productID string, units int64) error {
	if s.fallaEn[productID] {
		return errors.New("escritura rechazada")
	}
	current := s.catalogo.stock[productID]
	if current < units {
		return &domain.InsufficientStockError{ProductID: productID, Requested: units, Available: current}
	}
	s.catalogo.stock[productID] = current - units
	return nil
}

func (s *stockFake) SetUnits(_ context.Context, productID string, units int64) error {
	s.catalogo.stock[productID] = units
	return nil
}

type ventasFake struct {
	ventas []*entity.Sale
	falla  bool
}

func (v *ventasFake) Create(_ context.Context, sale *entity.Sale) error {
	if v.falla {
		return errors.New("insert rechazado")
	}
	v.ventas = append(v.ventas, sale)
	return nil
}

func (v *ventasFake) ListByVendor(_ context.Context, vendorID string, limit, offset int) ([]*entity.Sale, error) {
	return v.ventas, nil
}

type repoCarritoMem struct {
	datos map[string][]*entity.CartLine
}

func (r *repoCarritoMem) Save(_ context.Context, sessionID string, lines []*entity.CartLine) error {
	if r.datos == nil {
		r.datos = make(map[string][]*entity.CartLine)
	}
	cp := make([]*entity.CartLine, len(lines))
	for i, l := range lines {
		c := *l
		cp[i] = &c
	}
	r.datos[sessionID] = cp
	return nil
}

func (r *repoCarritoMem) Load(_ context.Context, sessionID string) ([]*entity.CartLine, error) {
	return r.datos[sessionID], nil
}

func (r *repoCarritoMem) Delete(_ context.Context, sessionID string) error {
	delete(r.datos, sessionID)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado
// ──────────────────────────────────────────────────────────────────────────────

type banco struct {
	catalogo *catalogoFake
	stock    *stockFake
	ventas   *ventasFake
	carrito  *cart.Store
	cache    *stocksync.Cache
	coord    *checkout.Coordinator
}

func armar(t *testing.T) *banco {
	t.Helper()
	p1 := &entity.Product{
		ID: "P", Name: "Medialuna", VendorID: vendedor,
		SaleMode: entity.SaleModeBoth, StockUnits: 15,
		PriceUnit: entity.PriceSet{USD: decimal.RequireFromString("2.00")},
	}
	p2 := &entity.Product{
		ID: "Q", Name: "Factura", VendorID: vendedor,
		SaleMode: entity.SaleModeUnit, StockUnits: 5,
		PriceUnit: entity.PriceSet{USD: decimal.RequireFromString("1.50")},
	}
	catalogo := &catalogoFake{
		productos: map[string]*entity.Product{"P": p1, "Q": p2},
		stock:     map[string]int64{"P": 15, "Q": 5},
	}
	stock := &stockFake{catalogo: catalogo, fallaEn: map[string]bool{}}
	ventas := &ventasFake{}
	cache := stocksync.NewCache()
	carrito := cart.NewStore(&repoCarritoMem{}, cache, logger.Nop())
	coord := checkout.New(catalogo, stock, ventas, carrito, cache, logger.Nop())
	return &banco{catalogo: catalogo, stock: stock, ventas: ventas, carrito: carrito, cache: cache, coord: coord}
}

func tasas() entity.RateTable {
	return entity.RateTable{
		entity.CurrencyARS: decimal.NewFromInt(1000),
		entity.CurrencyBSF: decimal.NewFromInt(7),
	}
}

func cliente() checkout.CustomerInfo {
	return checkout.CustomerInfo{Name: "Juan Pérez", Phone: "555-1234"}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckout_ExitosoDescuentaYLimpia(t *testing.T) {
	b := armar(t)
	p, err := b.catalogo.GetProduct(context.Background(), "P")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := b.carrito.AddLine(context.Background(), sesion, p, entity.CurrencyUSD, entity.SaleUnitSingle)
		require.NoError(t, err)
	}

	resumen, err := b.coord.Checkout(context.Background(), sesion, vendedor, cliente(), entity.CurrencyUSD, tasas())
	require.NoError(t, err)
	require.NotNil(t, resumen)

	assert.Equal(t, "Juan Pérez", resumen.CustomerName)
	assert.Equal(t, "Medialuna (x3)", resumen.Description)
	assert.True(t, resumen.Total.Equal(decimal.RequireFromString("6.00")), "obtuvo %s", resumen.Total)

	// El stock quedó descontado y el carrito vacío
	assert.EqualValues(t, 12, b.catalogo.stock["P"])
	lines, err := b.carrito.Lines(context.Background(), sesion)
	require.NoError(t, err)
	assert.Empty(t, lines)

	// Venta registrada una sola vez, inmutable
	require.Len(t, b.ventas.ventas, 1)
	venta := b.ventas.ventas[0]
	assert.Equal(t, vendedor, venta.VendorID)
	assert.Equal(t, entity.SaleStatusCompleted, venta.Status)
	assert.Equal(t, entity.CurrencyUSD, venta.Currency)
}

// Escenario C: el stock bajó por detrás del carrito; la validación autoritativa
// rechaza antes de crear la venta.
func TestCheckout_ValidacionRechazaStockInsuficiente(t *testing.T) {
	b := armar(t)
	p, err := b.catalogo.GetProduct(context.Background(), "P")
	require.NoError(t, err)

	_, err = b.carrito.AddLine(context.Background(), sesion, p, entity.CurrencyUSD, entity.SaleUnitDozen)
	require.NoError(t, err)
	_, err = b.carrito.AddLine(context.Background(), sesion, p, entity.CurrencyUSD, entity.SaleUnitSingle)
	require.NoError(t, err)

	// Otro cliente compró: el stock real bajó a 10 con 13 comprometidas
	b.catalogo.stock["P"] = 10

	_, err = b.coord.Checkout(context.Background(), sesion, vendedor, cliente(), entity.CurrencyUSD, tasas())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insuf *domain.InsufficientStockError
	require.ErrorAs(t, err, &insuf)
	assert.Equal(t, "P", insuf.ProductID)
	assert.EqualValues(t, 13, insuf.Requested)
	assert.EqualValues(t, 10, insuf.Available)

	// Nada persistido: ni venta ni descuento; el carrito sigue entero
	assert.Empty(t, b.ventas.ventas)
	assert.EqualValues(t, 10, b.catalogo.stock["P"])
	lines, err := b.carrito.Lines(context.Background(), sesion)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestCheckout_FalloDeVentaDejaCarritoIntacto(t *testing.T) {
	b := armar(t)
	p, err := b.catalogo.GetProduct(context.Background(), "P")
	require.NoError(t, err)

	_, err = b.carrito.AddLine(context.Background(), sesion, p, entity.CurrencyUSD, entity.SaleUnitSingle)
	require.NoError(t, err)

	b.ventas.falla = true
	_, err = b.coord.Checkout(context.Background(), sesion, vendedor, cliente(), entity.CurrencyUSD, tasas())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSaleWriteFailed)

	// Sin descuento de stock y con el carrito intacto para reintentar
	assert.EqualValues(t, 15, b.catalogo.stock["P"])
	lines, err := b.carrito.Lines(context.Background(), sesion)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

// Escenario D: venta registrada, un producto descuenta y el otro falla. El
// error nombra exactamente qué quedó descontado y el carrito retiene solo las
// líneas fallidas.
func TestCheckout_DescuentoParcialReportaYRetieneFallidas(t *testing.T) {
	b := armar(t)
	p, err := b.catalogo.GetProduct(context.Background(), "P")
	require.NoError(t, err)
	q, err := b.catalogo.GetProduct(context.Background(), "Q")
	require.NoError(t, err)

	_, err = b.carrito.AddLine(context.Background(), sesion, p, entity.CurrencyUSD, entity.SaleUnitSingle)
	require.NoError(t, err)
	_, err = b.carrito.AddLine(context.Background(), sesion, q, entity.CurrencyUSD, entity.SaleUnitSingle)
	require.NoError(t, err)

	b.stock.fallaEn["Q"] = true

	_, err = b.coord.Checkout(context.Background(), sesion, vendedor, cliente(), entity.CurrencyUSD, tasas())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStockDecrementFailed)

	var parcial *domain.StockDecrementError
	require.ErrorAs(t, err, &parcial)
	assert.Equal(t, []string{"P"}, parcial.Decremented, "debe nombrar exactamente el producto descontado")
	assert.Equal(t, []string{"Q"}, parcial.Failed, "debe nombrar exactamente el producto fallido")

	// P descontado (estado externo visible), Q no
	assert.EqualValues(t, 14, b.catalogo.stock["P"])
	assert.EqualValues(t, 5, b.catalogo.stock["Q"])

	// El carrito retiene solo la línea fallida
	lines, err := b.carrito.Lines(context.Background(), sesion)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Q", lines[0].ProductID)

	// La venta quedó registrada (condición de checkout parcial)
	assert.Len(t, b.ventas.ventas, 1)
}

func TestCheckout_CarritoVacio(t *testing.T) {
	b := armar(t)
	_, err := b.coord.Checkout(context.Background(), sesion, vendedor, cliente(), entity.CurrencyUSD, tasas())
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCheckout_NombreDeClienteObligatorio(t *testing.T) {
	b := armar(t)
	info := checkout.CustomerInfo{Name: "   "}
	_, err := b.coord.Checkout(context.Background(), sesion, vendedor, info, entity.CurrencyUSD, tasas())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Un contexto cancelado aborta el intento durante la validación, antes de
// registrar la venta o tocar el stock.
func TestCheckout_ContextoCanceladoAbortaSinPersistir(t *testing.T) {
	b := armar(t)
	p, err := b.catalogo.GetProduct(context.Background(), "P")
	require.NoError(t, err)

	_, err = b.carrito.AddLine(context.Background(), sesion, p, entity.CurrencyUSD, entity.SaleUnitSingle)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = b.coord.Checkout(ctx, sesion, vendedor, cliente(), entity.CurrencyUSD, tasas())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	// Nada persistido y el carrito entero para reintentar
	assert.Empty(t, b.ventas.ventas)
	assert.EqualValues(t, 15, b.catalogo.stock["P"])
	lines, err := b.carrito.Lines(context.Background(), sesion)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

// Con el feed caído el cache queda stale, pero el checkout no depende de él:
// las re-lecturas autoritativas validan igual y la compra procede.
func TestCheckout_CacheStaleValidaContraLecturaAutoritativa(t *testing.T) {
	b := armar(t)
	p, err := b.catalogo.GetProduct(context.Background(), "P")
	require.NoError(t, err)

	_, err = b.carrito.AddLine(context.Background(), sesion, p, entity.CurrencyUSD, entity.SaleUnitSingle)
	require.NoError(t, err)

	// El cache miente (cero unidades) y además está stale
	b.cache.Set("P", 0)
	b.cache.MarkStale(true)

	resumen, err := b.coord.Checkout(context.Background(), sesion, vendedor, cliente(), entity.CurrencyUSD, tasas())
	require.NoError(t, err, "la fuente autoritativa tiene stock, el cache stale no decide")
	require.NotNil(t, resumen)
	assert.EqualValues(t, 14, b.catalogo.stock["P"])
}

// El total de la venta se deriva en la moneda elegida para el checkout.
func TestCheckout_TotalEnMonedaElegida(t *testing.T) {
	b := armar(t)
	p, err := b.catalogo.GetProduct(context.Background(), "P")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := b.carrito.AddLine(context.Background(), sesion, p, entity.CurrencyUSD, entity.SaleUnitSingle)
		require.NoError(t, err)
	}

	resumen, err := b.coord.Checkout(context.Background(), sesion, vendedor, cliente(), entity.CurrencyARS, tasas())
	require.NoError(t, err)
	assert.True(t, resumen.Total.Equal(decimal.NewFromInt(6000)), "3 × 2.00 USD × 1000 = 6000 ARS, obtuvo %s", resumen.Total)
	assert.Equal(t, entity.CurrencyARS, resumen.Currency)
}
