package stocksync

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
	"github.com/jhoicas/kiosco-pos-api/pkg/logger"
)

// feedFake entrega una secuencia de canales: cada Subscribe consume el próximo.
type feedFake struct {
	mu      sync.Mutex
	canales []chan entity.StockEvent
	subs    int
}

func (f *feedFake) Subscribe(ctx context.Context, vendorID string) (<-chan entity.StockEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subs >= len(f.canales) {
		// sin más canales: quedar "conectado" a un canal que solo cierra el ctx
		ch := make(chan entity.StockEvent)
		go func() {
			<-ctx.Done()
			close(ch)
		}()
		f.subs++
		return ch, nil
	}
	ch := f.canales[f.subs]
	f.subs++
	return ch, nil
}

// reconciliadorFake registra las reconciliaciones pedidas por el sincronizador.
type reconciliadorFake struct {
	mu     sync.Mutex
	visto  map[string]int64
	orden  []string
	llamad int
}

func (r *reconciliadorFake) ReconcileStock(_ context.Context, productID string, units int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.visto == nil {
		r.visto = make(map[string]int64)
	}
	r.visto[productID] = units
	r.orden = append(r.orden, productID)
	r.llamad++
}

func sincronizador(feed *feedFake, cache *Cache, cart CartReconciler) *Synchronizer {
	s := New(feed, cache, cart, "vendor-1", logger.Nop())
	s.backoffInitial = time.Millisecond
	s.backoffMax = 5 * time.Millisecond
	return s
}

func evento(productID string, units, version int64) entity.StockEvent {
	return entity.StockEvent{
		VendorID:  "vendor-1",
		ProductID: productID,
		Units:     units,
		Version:   version,
		At:        time.Now(),
	}
}

func esperar(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal(msg)
}

// El teardown por cancelación de contexto no deja goroutines vivas.
func TestRun_TeardownSinFugas(t *testing.T) {
	defer goleak.VerifyNone(t)

	feed := &feedFake{}
	cache := NewCache()
	s := sincronizador(feed, cache, &reconciliadorFake{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	esperar(t, func() bool { return !cache.Stale() }, "debería conectarse y limpiar staleness")
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run no terminó tras cancelar el contexto")
	}
}

// Los eventos se aplican en orden de llegada y reconcilian el carrito.
func TestRun_AplicaEventosEnOrden(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch := make(chan entity.StockEvent, 4)
	feed := &feedFake{canales: []chan entity.StockEvent{ch}}
	cache := NewCache()
	rec := &reconciliadorFake{}
	s := sincronizador(feed, cache, rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { s.Run(ctx); close(done) }()

	ch <- evento("P", 10, 1)
	ch <- evento("P", 8, 2)
	ch <- evento("Q", 3, 1)

	esperar(t, func() bool {
		units, ok := cache.Units("P")
		return ok && units == 8
	}, "el último evento de P debe quedar aplicado")

	units, ok := cache.Units("Q")
	require.True(t, ok)
	assert.EqualValues(t, 3, units)

	rec.mu.Lock()
	assert.EqualValues(t, 8, rec.visto["P"])
	rec.mu.Unlock()

	cancel()
	close(ch)
	<-done
}

// Un evento con versión vieja se descarta: asignación única, nunca retrocede.
func TestRun_DescartaVersionVieja(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch := make(chan entity.StockEvent, 2)
	feed := &feedFake{canales: []chan entity.StockEvent{ch}}
	cache := NewCache()
	rec := &reconciliadorFake{}
	s := sincronizador(feed, cache, rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { s.Run(ctx); close(done) }()

	ch <- evento("P", 8, 5)
	ch <- evento("P", 99, 3) // versión vieja, debe ignorarse

	esperar(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return rec.llamad >= 1
	}, "el primer evento debe reconciliarse")

	// Dar lugar a que el segundo evento se procese (y descarte)
	time.Sleep(20 * time.Millisecond)
	units, ok := cache.Units("P")
	require.True(t, ok)
	assert.EqualValues(t, 8, units, "la versión vieja no debe pisar el snapshot")

	cancel()
	close(ch)
	<-done
}

// Al caerse el transporte el cache queda stale y al reconectar se limpia.
func TestRun_DesconexionMarcaStaleYReconecta(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch1 := make(chan entity.StockEvent)
	ch2 := make(chan entity.StockEvent, 1)
	feed := &feedFake{canales: []chan entity.StockEvent{ch1, ch2}}
	cache := NewCache()
	s := sincronizador(feed, cache, &reconciliadorFake{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { s.Run(ctx); close(done) }()

	esperar(t, func() bool { return !cache.Stale() }, "primera conexión limpia staleness")

	close(ch1) // transporte caído

	esperar(t, func() bool {
		feed.mu.Lock()
		defer feed.mu.Unlock()
		return feed.subs >= 2
	}, "debe reintentar la suscripción con backoff")

	esperar(t, func() bool { return !cache.Stale() }, "la reconexión limpia staleness de nuevo")

	ch2 <- evento("P", 4, 1)
	esperar(t, func() bool {
		units, ok := cache.Units("P")
		return ok && units == 4
	}, "los eventos siguen fluyendo tras reconectar")

	cancel()
	<-done
}
