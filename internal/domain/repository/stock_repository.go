package repository

import "context"

// StockRepository puerto de escritura de stock.
type StockRepository interface {
	// DecrementUnits descuenta unidades con una sola operación condicional
	// (stock = stock - n solo si stock >= n). Devuelve ErrInsufficientStock si
	// la condición no se cumple, sin escribir nada. Atómico por producto: dos
	// checkouts concurrentes nunca pierden una actualización sobre el mismo
	// producto, aunque no hay transacción que abarque todo el carrito.
	DecrementUnits(ctx context.Context, productID string, units int64) error
	// SetUnits fija el stock en un valor absoluto (ajustes del vendedor).
	SetUnits(ctx context.Context, productID string, units int64) error
}
