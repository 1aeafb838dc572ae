// Package redisstore implementa el almacenamiento durable del carrito sobre
// Redis. Cada sesión de kiosco guarda sus líneas serializadas bajo una clave
// propia con TTL; una sesión abandonada expira sola.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

const cartKeyPrefix = "cart:"

// CartRepo carritos por sesión en Redis.
type CartRepo struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository construye el adaptador. ttl cero significa sin expiración.
func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepo {
	return &CartRepo{client: client, ttl: ttl}
}

// Save escribe todas las líneas de la sesión de una vez y renueva el TTL.
func (r *CartRepo) Save(ctx context.Context, sessionID string, lines []*entity.CartLine) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("serializar carrito: %w", err)
	}
	err = r.client.Set(ctx, cartKeyPrefix+sessionID, payload, r.ttl).Err()
	if err != nil {
		return fmt.Errorf("guardar carrito: %w", err)
	}
	return nil
}

// Load devuelve las líneas guardadas o nil si la sesión no existe o expiró.
func (r *CartRepo) Load(ctx context.Context, sessionID string) ([]*entity.CartLine, error) {
	payload, err := r.client.Get(ctx, cartKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cargar carrito: %w", err)
	}
	var lines []*entity.CartLine
	if err := json.Unmarshal(payload, &lines); err != nil {
		return nil, fmt.Errorf("carrito corrupto: %w", err)
	}
	return lines, nil
}

// Delete elimina la sesión. Borrar una sesión inexistente no es error.
func (r *CartRepo) Delete(ctx context.Context, sessionID string) error {
	err := r.client.Del(ctx, cartKeyPrefix+sessionID).Err()
	if err != nil {
		return fmt.Errorf("borrar carrito: %w", err)
	}
	return nil
}
