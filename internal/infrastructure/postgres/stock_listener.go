package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/repository"
	"github.com/jhoicas/kiosco-pos-api/pkg/logger"
)

var _ repository.StockFeed = (*StockListener)(nil)

// StockListener feed de stock sobre LISTEN/NOTIFY de PostgreSQL. Cada
// suscripción toma una conexión dedicada del pool; las notificaciones llegan
// en el orden en que el servidor las emite.
type StockListener struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewStockListener(pool *pgxpool.Pool, log *logger.Logger) *StockListener {
	return &StockListener{pool: pool, log: log}
}

// Subscribe escucha el canal de stock y entrega los eventos del vendedor por
// el canal devuelto. El canal se cierra cuando la conexión se cae o el
// contexto se cancela.
func (l *StockListener) Subscribe(ctx context.Context, vendorID string) (<-chan entity.StockEvent, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listen conn: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+stockChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen %s: %w", stockChannel, err)
	}

	events := make(chan entity.StockEvent, 16)
	go func() {
		defer close(events)
		defer conn.Release()

		for {
			notification, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					l.log.Warn().Err(err).Msg("conexión del feed de stock perdida")
				}
				return
			}

			var ev entity.StockEvent
			if err := json.Unmarshal([]byte(notification.Payload), &ev); err != nil {
				l.log.Warn().Err(err).Str("payload", notification.Payload).
					Msg("evento de stock ilegible, descartado")
				continue
			}
			if ev.VendorID != vendorID {
				continue
			}

			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}
