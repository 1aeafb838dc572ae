package stocksync

import (
	"sync"
	"time"

	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
)

// Cache snapshot de stock compartido entre el carrito (lector), el
// sincronizador (único escritor de eventos) y el checkout (lector que además
// re-lee autoritativamente). Mientras la suscripción esté caída el cache se
// marca stale y el checkout no debe confiar en él.
type Cache struct {
	mu    sync.RWMutex
	stale bool
	items map[string]entity.StockSnapshot
}

// NewCache crea el cache vacío, marcado stale hasta el primer Seed.
func NewCache() *Cache {
	return &Cache{stale: true, items: make(map[string]entity.StockSnapshot)}
}

// Seed carga el stock conocido desde una lectura completa del catálogo y
// limpia la marca de staleness.
func (c *Cache) Seed(products []*entity.Product) {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range products {
		prev := c.items[p.ID]
		c.items[p.ID] = entity.StockSnapshot{
			ProductID: p.ID,
			Units:     p.StockUnits,
			Version:   prev.Version + 1,
			UpdatedAt: now,
		}
	}
	c.stale = false
}

// Units stock en unidades base del producto, si el cache lo conoce.
func (c *Cache) Units(productID string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.items[productID]
	return s.Units, ok
}

// Snapshot copia del snapshot de un producto.
func (c *Cache) Snapshot(productID string) (entity.StockSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.items[productID]
	return s, ok
}

// Apply aplica un evento de cambio de stock. Asignación única, sin estado
// parcial; un evento con versión vieja se descarta y Apply devuelve false.
func (c *Cache) Apply(ev entity.StockEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev, ok := c.items[ev.ProductID]
	if ok && ev.Version != 0 && ev.Version <= prev.Version {
		return false
	}
	version := ev.Version
	if version == 0 {
		version = prev.Version + 1
	}
	c.items[ev.ProductID] = entity.StockSnapshot{
		ProductID: ev.ProductID,
		Units:     ev.Units,
		Version:   version,
		UpdatedAt: ev.At,
	}
	return true
}

// Set fija el stock de un producto desde una lectura autoritativa (checkout).
func (c *Cache) Set(productID string, units int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.items[productID]
	c.items[productID] = entity.StockSnapshot{
		ProductID: productID,
		Units:     units,
		Version:   prev.Version + 1,
		UpdatedAt: time.Now(),
	}
}

// MarkStale marca o limpia la staleness del cache completo.
func (c *Cache) MarkStale(stale bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stale = stale
}

// Stale indica si el cache puede estar desactualizado (suscripción caída).
func (c *Cache) Stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stale
}
