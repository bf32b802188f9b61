package memstore

import (
	"context"
	"sort"

	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository = (*ProductRepo)(nil)
	_ repository.StoreRepository   = (*StoreRepo)(nil)
)

// ProductRepo catálogo en memoria.
type ProductRepo struct{ db *DB }

// Products devuelve el repositorio de productos.
func (db *DB) Products() *ProductRepo { return &ProductRepo{db: db} }

// ListActive lista los productos activos ordenados por ID.
func (r *ProductRepo) ListActive(_ context.Context) ([]*entity.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*entity.Product, 0, len(r.db.products))
	for _, p := range r.db.products {
		if p.Active {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// StoreRepo tiendas en memoria.
type StoreRepo struct{ db *DB }

// Stores devuelve el repositorio de tiendas.
func (db *DB) Stores() *StoreRepo { return &StoreRepo{db: db} }

// GetByID devuelve nil, nil si la tienda no existe.
func (r *StoreRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.stores[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// ListActive lista las tiendas activas por código.
func (r *StoreRepo) ListActive(_ context.Context) ([]*entity.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return sortedStores(r.db.stores, true), nil
}
