// Package cart implementa el carrito por sesión de kiosco con la invariante de
// stock: por producto, la suma de unidades comprometidas entre todas las líneas
// (cualquier moneda y granularidad) nunca excede el último stock conocido.
// Una sola Store sirve a todas las pantallas; no hay variantes por vista.
package cart

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kiosco-pos-api/internal/application/stocksync"
	"github.com/jhoicas/kiosco-pos-api/internal/domain"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/pricing"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/repository"
	"github.com/jhoicas/kiosco-pos-api/pkg/logger"
)

// Store carritos en memoria persistidos a almacenamiento durable en cada
// mutación exitosa. Las validaciones de stock leen el cache compartido que
// escribe el sincronizador.
type Store struct {
	mu    sync.Mutex
	repo  repository.CartRepository
	cache *stocksync.Cache
	log   *logger.Logger
	carts map[string][]*entity.CartLine
}

// NewStore construye el carrito.
func NewStore(repo repository.CartRepository, cache *stocksync.Cache, log *logger.Logger) *Store {
	return &Store{
		repo:  repo,
		cache: cache,
		log:   log,
		carts: make(map[string][]*entity.CartLine),
	}
}

// AddLine agrega una unidad o docena del producto al carrito de la sesión.
// Si ya existe una línea con la misma identidad (producto, moneda,
// granularidad) incrementa su cantidad; si no, crea una línea con cantidad 1.
// Falla con InsufficientStockError sin mutar nada si el total comprometido
// superaría el stock conocido.
func (s *Store) AddLine(ctx context.Context, sessionID string, p *entity.Product, c entity.Currency, u entity.SaleUnit) (*entity.CartLine, error) {
	if !c.Valid() {
		return nil, domain.ErrUnsupportedCurrency
	}
	if !u.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if !p.SaleMode.Allows(u) {
		return nil, domain.ErrUnsupportedSaleUnit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.linesLocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	available := s.availableUnits(p)
	unitsToAdd := u.Units()
	committed := entity.CommittedUnits(lines, p.ID)
	if committed+unitsToAdd > available {
		return nil, &domain.InsufficientStockError{
			ProductID: p.ID,
			Requested: committed + unitsToAdd,
			Available: available,
		}
	}

	key := entity.LineKey{ProductID: p.ID, Currency: c, Unit: u}
	next := cloneLines(lines)
	var line *entity.CartLine
	for _, l := range next {
		if l.Key() == key {
			l.Quantity++
			line = l
			break
		}
	}
	if line == nil {
		line = &entity.CartLine{
			ProductID:  p.ID,
			Currency:   c,
			Unit:       u,
			Quantity:   1,
			Name:       p.Name,
			Prices:     p.Prices(u),
			BaseUSD:    p.BaseUSD(u),
			StockAtAdd: available,
			AddedAt:    time.Now(),
		}
		next = append(next, line)
	}

	if err := s.persistLocked(ctx, sessionID, next); err != nil {
		return nil, err
	}
	cp := *line
	return &cp, nil
}

// SetQuantity fija la cantidad de las líneas del producto con esa granularidad.
// Cantidad <= 0 elimina las líneas. La cota de stock se verifica contra las
// unidades que consumen las demás líneas del mismo producto.
func (s *Store) SetQuantity(ctx context.Context, sessionID, productID string, u entity.SaleUnit, quantity int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.linesLocked(ctx, sessionID)
	if err != nil {
		return err
	}

	if quantity <= 0 {
		next := make([]*entity.CartLine, 0, len(lines))
		for _, l := range cloneLines(lines) {
			if !(l.ProductID == productID && l.Unit == u) {
				next = append(next, l)
			}
		}
		return s.persistLocked(ctx, sessionID, next)
	}

	var matching int64
	var otherUnits int64
	for _, l := range lines {
		if l.ProductID != productID {
			continue
		}
		if l.Unit == u {
			matching++
		} else {
			otherUnits += l.Units()
		}
	}
	if matching == 0 {
		return domain.ErrNotFound
	}

	requested := otherUnits + matching*quantity*u.Units()
	available, ok := s.cache.Units(productID)
	if !ok {
		// Sin snapshot no hay contra qué validar: tomar el de la línea.
		for _, l := range lines {
			if l.ProductID == productID {
				available = l.StockAtAdd
				break
			}
		}
	}
	if requested > available {
		return &domain.InsufficientStockError{ProductID: productID, Requested: requested, Available: available}
	}

	next := cloneLines(lines)
	for _, l := range next {
		if l.ProductID == productID && l.Unit == u {
			l.Quantity = quantity
		}
	}
	return s.persistLocked(ctx, sessionID, next)
}

// RemoveLine elimina la línea con identidad exacta. Remover una línea ausente
// es un no-op, no un error.
func (s *Store) RemoveLine(ctx context.Context, sessionID, productID string, c entity.Currency, u entity.SaleUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.linesLocked(ctx, sessionID)
	if err != nil {
		return err
	}
	key := entity.LineKey{ProductID: productID, Currency: c, Unit: u}
	next := make([]*entity.CartLine, 0, len(lines))
	removed := false
	for _, l := range cloneLines(lines) {
		if l.Key() == key {
			removed = true
			continue
		}
		next = append(next, l)
	}
	if !removed {
		return nil
	}
	return s.persistLocked(ctx, sessionID, next)
}

// Clear vacía el carrito de la sesión (tras checkout exitoso o cancelación).
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return err
	}
	delete(s.carts, sessionID)
	return nil
}

// Replace reemplaza el carrito completo; lo usa el checkout para conservar
// solo las líneas que fallaron en un descuento parcial.
func (s *Store) Replace(ctx context.Context, sessionID string, lines []*entity.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx, sessionID, cloneLines(lines))
}

// Lines devuelve una copia de las líneas de la sesión, cargando del
// almacenamiento durable si la sesión no está en memoria. Al recargar se
// recalculan las marcas overcommitted contra el stock actual; ninguna línea
// inválida se descarta en silencio.
func (s *Store) Lines(ctx context.Context, sessionID string) ([]*entity.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, err := s.linesLocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return cloneLines(lines), nil
}

// Total suma el precio de cada línea re-derivado en la moneda pedida.
// La moneda guardada en la línea es solo una pista de presentación, no una
// frontera de conversión: el total siempre es homogéneo en la moneda pedida.
func (s *Store) Total(ctx context.Context, sessionID string, c entity.Currency, rates entity.RateTable) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.linesLocked(ctx, sessionID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	total := decimal.Zero
	for _, l := range lines {
		price, err := pricing.FromSet(l.Prices, l.BaseUSD, rates, c)
		if err != nil {
			return decimal.Decimal{}, err
		}
		total = total.Add(price.Mul(decimal.NewFromInt(l.Quantity)))
	}
	return total, nil
}

// ReconcileStock implementa stocksync.CartReconciler: ante un cambio de stock,
// recalcula la marca overcommitted de las líneas del producto en todas las
// sesiones. No recorta cantidades; el checkout rechaza el exceso.
func (s *Store) ReconcileStock(ctx context.Context, productID string, units int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for sessionID, lines := range s.carts {
		committed := entity.CommittedUnits(lines, productID)
		changed := false
		for _, l := range lines {
			if l.ProductID != productID {
				continue
			}
			over := committed > units
			if l.Overcommitted != over {
				l.Overcommitted = over
				changed = true
			}
		}
		if changed {
			if err := s.repo.Save(ctx, sessionID, lines); err != nil {
				s.log.Warn().Err(err).Str("session_id", sessionID).Msg("no se pudo persistir marca overcommitted")
			}
			s.log.Info().Str("session_id", sessionID).Str("product_id", productID).
				Int64("stock", units).Int64("comprometido", committed).
				Msg("líneas reconciliadas por cambio de stock")
		}
	}
}

// linesLocked carga (lazy) las líneas de la sesión. Requiere mu tomado.
func (s *Store) linesLocked(ctx context.Context, sessionID string) ([]*entity.CartLine, error) {
	if lines, ok := s.carts[sessionID]; ok {
		return lines, nil
	}
	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []*entity.CartLine{}
	}
	// Revalidar contra el stock actual: líneas que quedaron pidiendo más de lo
	// disponible se marcan, nunca se eliminan.
	for _, l := range lines {
		if units, ok := s.cache.Units(l.ProductID); ok {
			l.Overcommitted = entity.CommittedUnits(lines, l.ProductID) > units
		}
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].AddedAt.Before(lines[j].AddedAt) })
	s.carts[sessionID] = lines
	return lines, nil
}

// persistLocked guarda y recién entonces publica la mutación en memoria:
// si la escritura durable falla, el carrito queda como estaba.
func (s *Store) persistLocked(ctx context.Context, sessionID string, lines []*entity.CartLine) error {
	if err := s.repo.Save(ctx, sessionID, lines); err != nil {
		return err
	}
	s.carts[sessionID] = lines
	return nil
}

// availableUnits stock conocido del producto: cache primero, si no el valor
// que trae el producto recién leído del catálogo (y se siembra el cache).
func (s *Store) availableUnits(p *entity.Product) int64 {
	if units, ok := s.cache.Units(p.ID); ok {
		return units
	}
	s.cache.Set(p.ID, p.StockUnits)
	return p.StockUnits
}

func cloneLines(lines []*entity.CartLine) []*entity.CartLine {
	out := make([]*entity.CartLine, len(lines))
	for i, l := range lines {
		cp := *l
		out[i] = &cp
	}
	return out
}
