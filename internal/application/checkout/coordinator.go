// Package checkout ejecuta la compra como una máquina de estados:
// Idle → Validating → Submitting → DecrementingStock → Completed | Failed.
// El descuento de stock es un decremento condicional atómico por producto;
// no hay transacción que abarque todo el carrito, y un fallo parcial se
// reporta con el detalle de qué productos quedaron descontados.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kiosco-pos-api/internal/application/cart"
	"github.com/jhoicas/kiosco-pos-api/internal/application/stocksync"
	"github.com/jhoicas/kiosco-pos-api/internal/domain"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/repository"
	"github.com/jhoicas/kiosco-pos-api/pkg/logger"
)

// State estado del intento de checkout. Failed es terminal por intento; el
// caller decide si vuelve a invocar desde Idle. No hay reintentos automáticos.
type State string

const (
	StateIdle         State = "idle"
	StateValidating   State = "validating"
	StateSubmitting   State = "submitting"
	StateDecrementing State = "decrementing_stock"
	StateCompleted    State = "completed"
	StateFailed       State = "failed"
)

// CustomerInfo identidad mínima del cliente para la venta.
type CustomerInfo struct {
	Name  string
	Phone string
}

// Summary resumen con forma de recibo que se devuelve al caller; no expone la
// identidad interna de la venta más allá del ID para referencia.
type Summary struct {
	SaleID       string
	CustomerName string
	Description  string
	Total        decimal.Decimal
	Currency     entity.Currency
	Items        []entity.SaleLine
}

// Coordinator coordina validación, registro de la venta y descuento de stock.
type Coordinator struct {
	catalog repository.CatalogRepository
	stock   repository.StockRepository
	sales   repository.SaleRepository
	cart    *cart.Store
	cache   *stocksync.Cache
	log     *logger.Logger
}

// New construye el coordinador.
func New(
	catalog repository.CatalogRepository,
	stock repository.StockRepository,
	sales repository.SaleRepository,
	cartStore *cart.Store,
	cache *stocksync.Cache,
	log *logger.Logger,
) *Coordinator {
	return &Coordinator{
		catalog: catalog,
		stock:   stock,
		sales:   sales,
		cart:    cartStore,
		cache:   cache,
		log:     log,
	}
}

// Checkout ejecuta la compra de la sesión. En cualquier fallo antes de
// registrar la venta el carrito queda intacto para reintentar; en un descuento
// parcial el carrito retiene solo las líneas que fallaron.
// El contexto solo se consulta antes de Submitting: una vez iniciada la
// escritura de la venta el intento no es cancelable, para no dejar una venta
// registrada sin su descuento de stock.
func (co *Coordinator) Checkout(
	ctx context.Context,
	sessionID, vendorID string,
	info CustomerInfo,
	currency entity.Currency,
	rates entity.RateTable,
) (*Summary, error) {
	if strings.TrimSpace(info.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if !currency.Valid() {
		return nil, domain.ErrUnsupportedCurrency
	}

	lines, err := co.cart.Lines(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	state := StateValidating
	co.logState(sessionID, state)
	if co.cache.Stale() {
		// Suscripción caída: el snapshot cacheado no es confiable y la
		// re-lectura autoritativa de abajo es obligatoria, no opcional.
		co.log.Warn().Err(domain.ErrStaleStockSnapshot).Str("session_id", sessionID).
			Msg("cache de stock stale, validando contra lecturas autoritativas")
	}

	// Validating: re-leer stock autoritativo de cada producto referenciado,
	// salteando el cache posiblemente stale. Cualquier exceso aborta antes de
	// persistir nada.
	unitsPorProducto := make(map[string]int64)
	orden := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := unitsPorProducto[l.ProductID]; !ok {
			orden = append(orden, l.ProductID)
		}
		unitsPorProducto[l.ProductID] += l.Units()
	}

	for _, productID := range orden {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		available, err := co.catalog.GetStockUnits(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("leer stock autoritativo de %s: %w", productID, err)
		}
		co.cache.Set(productID, available)
		if requested := unitsPorProducto[productID]; requested > available {
			co.logState(sessionID, StateFailed)
			return nil, &domain.InsufficientStockError{
				ProductID: productID,
				Requested: requested,
				Available: available,
			}
		}
	}

	// Submitting: una venta que resume todas las líneas. Desde acá el intento
	// corre hasta el final aunque el caller cancele: una venta registrada no
	// puede quedar sin su descuento de stock.
	ctx = context.WithoutCancel(ctx)
	state = StateSubmitting
	co.logState(sessionID, state)

	total, err := co.cart.Total(ctx, sessionID, currency, rates)
	if err != nil {
		return nil, err
	}

	saleLines := make([]entity.SaleLine, 0, len(lines))
	descripciones := make([]string, 0, len(lines))
	for _, l := range lines {
		desc := fmt.Sprintf("%s (x%d)", l.Name, l.Quantity)
		if l.Unit == entity.SaleUnitDozen {
			desc = fmt.Sprintf("%s (x%d docena)", l.Name, l.Quantity)
		}
		saleLines = append(saleLines, entity.SaleLine{
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			Unit:        l.Unit,
			Description: desc,
		})
		descripciones = append(descripciones, desc)
	}

	sale := &entity.Sale{
		ID:              uuid.New().String(),
		VendorID:        vendorID,
		CustomerName:    strings.TrimSpace(info.Name),
		CustomerPhone:   strings.TrimSpace(info.Phone),
		ItemDescription: strings.Join(descripciones, ", "),
		TotalAmount:     total,
		Currency:        currency,
		Status:          entity.SaleStatusCompleted,
		Lines:           saleLines,
		CreatedAt:       time.Now(),
	}
	if err := co.sales.Create(ctx, sale); err != nil {
		co.logState(sessionID, StateFailed)
		co.log.Error().Err(err).Str("session_id", sessionID).Msg("registro de venta rechazado")
		// El carrito queda intacto para que el usuario reintente.
		return nil, fmt.Errorf("%w: %v", domain.ErrSaleWriteFailed, err)
	}

	// DecrementingStock: decremento condicional aislado por producto.
	state = StateDecrementing
	co.logState(sessionID, state)

	var descontados, fallidos []string
	for _, productID := range orden {
		if err := co.stock.DecrementUnits(ctx, productID, unitsPorProducto[productID]); err != nil {
			co.log.Error().Err(err).Str("product_id", productID).Msg("descuento de stock falló")
			fallidos = append(fallidos, productID)
			continue
		}
		descontados = append(descontados, productID)
	}

	if len(fallidos) > 0 {
		co.logState(sessionID, StateFailed)
		// Retener solo las líneas cuyos productos no se descontaron, para un
		// reintento acotado; las descontadas ya son estado externo visible.
		fallidosSet := make(map[string]bool, len(fallidos))
		for _, id := range fallidos {
			fallidosSet[id] = true
		}
		restantes := make([]*entity.CartLine, 0, len(lines))
		for _, l := range lines {
			if fallidosSet[l.ProductID] {
				restantes = append(restantes, l)
			}
		}
		if err := co.cart.Replace(ctx, sessionID, restantes); err != nil {
			co.log.Warn().Err(err).Str("session_id", sessionID).Msg("no se pudo retener las líneas fallidas")
		}
		return nil, &domain.StockDecrementError{Decremented: descontados, Failed: fallidos}
	}

	// Completed: carrito limpio y resumen con forma de recibo.
	if err := co.cart.Clear(ctx, sessionID); err != nil {
		co.log.Warn().Err(err).Str("session_id", sessionID).Msg("no se pudo limpiar el carrito tras la venta")
	}
	co.logState(sessionID, StateCompleted)

	return &Summary{
		SaleID:       sale.ID,
		CustomerName: sale.CustomerName,
		Description:  sale.ItemDescription,
		Total:        total,
		Currency:     currency,
		Items:        saleLines,
	}, nil
}

func (co *Coordinator) logState(sessionID string, st State) {
	co.log.Debug().Str("session_id", sessionID).Str("estado", string(st)).Msg("checkout")
}
