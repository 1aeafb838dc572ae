// Package realtime implementa el feed de stock sobre WebSocket, para
// despliegues donde el empuje de cambios lo sirve un gateway externo en vez
// de PostgreSQL. Mismo contrato que el listener de Postgres: eventos en orden
// y canal cerrado al caerse el transporte.
package realtime

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/repository"
	"github.com/jhoicas/kiosco-pos-api/pkg/logger"
)

var _ repository.StockFeed = (*WSFeed)(nil)

// WSFeed cliente WebSocket del gateway de stock.
type WSFeed struct {
	url string
	log *logger.Logger
}

func NewWSFeed(url string, log *logger.Logger) *WSFeed {
	return &WSFeed{url: url, log: log}
}

// Subscribe abre la conexión y entrega los eventos del vendedor por el canal
// devuelto. El canal se cierra cuando la conexión se cae o el contexto se
// cancela.
func (f *WSFeed) Subscribe(ctx context.Context, vendorID string) (<-chan entity.StockEvent, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("conectar feed de stock: %w", err)
	}

	// El gateway filtra por vendedor a partir del mensaje de suscripción.
	sub := map[string]string{"action": "subscribe", "vendor_id": vendorID}
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return nil, fmt.Errorf("suscribir feed de stock: %w", err)
	}

	events := make(chan entity.StockEvent, 16)

	// Cerrar la conexión al cancelar el contexto desbloquea ReadJSON.
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	go func() {
		defer close(events)
		defer close(done)
		defer conn.Close()

		for {
			var ev entity.StockEvent
			if err := conn.ReadJSON(&ev); err != nil {
				if ctx.Err() == nil {
					f.log.Warn().Err(err).Msg("conexión del feed de stock perdida")
				}
				return
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
