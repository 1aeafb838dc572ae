package repository

import (
	"context"

	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
)

// StockFeed suscripción a los cambios de stock empujados por el servidor para
// un vendedor. El canal entrega los eventos en orden de llegada y se cierra
// cuando el transporte se cae o el contexto se cancela; el consumidor decide
// si vuelve a suscribirse.
type StockFeed interface {
	Subscribe(ctx context.Context, vendorID string) (<-chan entity.StockEvent, error)
}
