package repository

import (
	"context"

	"github.com/jhoicas/Conteo-api/internal/domain/entity"
)

// ProductRepository puerto de lectura del catálogo maestro (administrado fuera de este núcleo).
type ProductRepository interface {
	ListActive(ctx context.Context) ([]*entity.Product, error)
}

// StoreRepository puerto de lectura de tiendas.
type StoreRepository interface {
	// GetByID devuelve nil, nil si la tienda no existe.
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	ListActive(ctx context.Context) ([]*entity.Store, error)
}
