package repository

import (
	"context"

	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
)

// CartRepository almacenamiento durable del carrito por sesión de kiosco.
// Cada Save abre, escribe y libera el recurso en una sola llamada; no se
// mantiene ningún handle abierto entre mutaciones.
type CartRepository interface {
	Save(ctx context.Context, sessionID string, lines []*entity.CartLine) error
	// Load devuelve la lista ordenada de líneas o nil si la sesión no existe.
	Load(ctx context.Context, sessionID string) ([]*entity.CartLine, error)
	Delete(ctx context.Context, sessionID string) error
}
