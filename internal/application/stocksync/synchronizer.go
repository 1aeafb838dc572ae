// Package stocksync consume el stream de cambios de stock del vendedor activo
// y reconcilia el cache compartido y el carrito. Los eventos se aplican como un
// fold ordenado sobre el snapshot: en orden de llegada, sin reordenar.
package stocksync

import (
	"context"
	"time"

	"github.com/jhoicas/kiosco-pos-api/internal/domain"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/repository"
	"github.com/jhoicas/kiosco-pos-api/pkg/logger"
)

// CartReconciler lo implementa el carrito: recibe el stock nuevo de un
// producto y marca overcommitted las líneas que quedaron pidiendo de más.
type CartReconciler interface {
	ReconcileStock(ctx context.Context, productID string, units int64)
}

const (
	backoffInitial = time.Second
	backoffMax     = 30 * time.Second
)

// Synchronizer mantiene viva la suscripción de stock de un vendedor.
type Synchronizer struct {
	feed     repository.StockFeed
	cache    *Cache
	cart     CartReconciler
	vendorID string
	log      *logger.Logger

	backoffInitial time.Duration
	backoffMax     time.Duration
}

// New construye el sincronizador para el vendedor dado.
func New(feed repository.StockFeed, cache *Cache, cart CartReconciler, vendorID string, log *logger.Logger) *Synchronizer {
	return &Synchronizer{
		feed:           feed,
		cache:          cache,
		cart:           cart,
		vendorID:       vendorID,
		log:            log,
		backoffInitial: backoffInitial,
		backoffMax:     backoffMax,
	}
}

// Run se suscribe y procesa eventos hasta que el contexto se cancele.
// Si el transporte se cae, marca el cache como stale y reintenta con backoff
// exponencial; al reconectar limpia la marca. El teardown es determinista:
// cancelar el contexto termina el loop y cierra la suscripción.
func (s *Synchronizer) Run(ctx context.Context) {
	delay := s.backoffInitial
	for {
		ch, err := s.feed.Subscribe(ctx, s.vendorID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Warn().Err(err).Dur("reintento_en", delay).Msg("suscripción de stock falló")
			s.cache.MarkStale(true)
			if !s.sleep(ctx, delay) {
				return
			}
			delay = s.nextDelay(delay)
			continue
		}

		s.cache.MarkStale(false)
		delay = s.backoffInitial
		s.log.Info().Str("vendor_id", s.vendorID).Msg("suscripción de stock establecida")

		s.consume(ctx, ch)
		if ctx.Err() != nil {
			return
		}
		// Canal cerrado sin cancelación: transporte caído. Stale hasta reconectar.
		s.cache.MarkStale(true)
		s.log.Warn().Err(domain.ErrFeedDisconnected).Str("vendor_id", s.vendorID).Msg("reintentando suscripción de stock")
		if !s.sleep(ctx, delay) {
			return
		}
		delay = s.nextDelay(delay)
	}
}

// consume aplica eventos en orden de llegada hasta que el canal se cierre.
func (s *Synchronizer) consume(ctx context.Context, ch <-chan entity.StockEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			s.handle(ctx, ev)
		}
	}
}

func (s *Synchronizer) handle(ctx context.Context, ev entity.StockEvent) {
	if ev.VendorID != "" && ev.VendorID != s.vendorID {
		return
	}
	if !s.cache.Apply(ev) {
		s.log.Debug().Str("product_id", ev.ProductID).Int64("version", ev.Version).
			Msg("evento de stock descartado por versión vieja")
		return
	}
	// Si el stock bajó por debajo de lo comprometido en el carrito, las líneas
	// afectadas se marcan overcommitted; nunca se recortan en silencio.
	if s.cart != nil {
		s.cart.ReconcileStock(ctx, ev.ProductID, ev.Units)
	}
}

func (s *Synchronizer) nextDelay(d time.Duration) time.Duration {
	d *= 2
	if d > s.backoffMax {
		d = s.backoffMax
	}
	return d
}

// sleep espera el delay o la cancelación; false si el contexto terminó.
func (s *Synchronizer) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
