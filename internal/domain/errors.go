package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrEmptyCart            = errors.New("el carrito está vacío")
	ErrUnsupportedSaleUnit  = errors.New("unidad de venta no soportada por el producto")
	ErrUnsupportedCurrency  = errors.New("moneda no soportada")
	ErrInvalidRate          = errors.New("tasa de cambio inválida")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrStaleStockSnapshot   = errors.New("snapshot de stock desactualizado")
	ErrSaleWriteFailed      = errors.New("no se pudo registrar la venta")
	ErrStockDecrementFailed = errors.New("no se pudo descontar el stock")
	ErrFeedDisconnected     = errors.New("suscripción de stock desconectada")
)

// InsufficientStockError indica qué producto no tiene stock suficiente y cuánto
// se pidió frente a lo disponible. Envuelve ErrInsufficientStock para errors.Is.
type InsufficientStockError struct {
	ProductID string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s: solicitado %d, disponible %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// StockDecrementError reporta un checkout parcialmente aplicado: algunos productos
// ya fueron descontados del stock (estado visible externamente) y otros no.
// El caller decide si reconciliar o alertar a un operador.
type StockDecrementError struct {
	Decremented []string // productos descontados con éxito
	Failed      []string // productos cuyo descuento falló
}

func (e *StockDecrementError) Error() string {
	return fmt.Sprintf("descuento de stock parcial: fallaron [%s], descontados [%s]",
		strings.Join(e.Failed, ", "), strings.Join(e.Decremented, ", "))
}

func (e *StockDecrementError) Unwrap() error { return ErrStockDecrementFailed }
