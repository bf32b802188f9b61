package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

var _ repository.CountLineRepository = (*CountLineRepo)(nil)

// CountLineRepo líneas de conteo en memoria.
type CountLineRepo struct{ db *DB }

// CountLines devuelve el repositorio de líneas.
func (db *DB) CountLines() *CountLineRepo { return &CountLineRepo{db: db} }

// InsertMissing inserta solo las llaves (tienda, producto, turno, fecha) nuevas.
func (r *CountLineRepo) InsertMissing(_ context.Context, lines []*entity.CountLine) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	created := 0
	for _, l := range lines {
		k := lineKey{l.StoreID, l.ProductID, l.Shift, day(l.Date)}
		if _, exists := r.db.lineKeys[k]; exists {
			continue
		}
		cp := copyLine(l)
		cp.Version = 1
		r.db.lines[l.ID] = cp
		r.db.lineKeys[k] = l.ID
		created++
	}
	return created, nil
}

// GetByID devuelve una copia de la línea o nil, nil.
func (r *CountLineRepo) GetByID(_ context.Context, id string) (*entity.CountLine, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	l, ok := r.db.lines[id]
	if !ok {
		return nil, nil
	}
	return copyLine(l), nil
}

// ListBySlot lista las líneas del turno unidas al catálogo.
func (r *CountLineRepo) ListBySlot(_ context.Context, storeID string, shift int, date time.Time) ([]*entity.CountLineView, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	d := day(date)
	out := make([]*entity.CountLineView, 0)
	for _, l := range r.db.lines {
		if l.StoreID != storeID || l.Shift != shift || day(l.Date) != d {
			continue
		}
		v := &entity.CountLineView{CountLine: *copyLine(l), UnitPrice: decimal.Zero}
		if p, ok := r.db.products[l.ProductID]; ok {
			v.Barcode = p.Barcode
			v.ProductName = p.Name
			v.Category = p.Category
			v.Unit = p.Unit
			v.UnitPrice = p.UnitPrice
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, nil
}

// Update escribe la línea si la versión coincide; si no, domain.ErrConflict.
// La llave natural de la línea almacenada no cambia.
func (r *CountLineRepo) Update(_ context.Context, line *entity.CountLine) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.lines[line.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != line.Version {
		return domain.ErrConflict
	}
	cp := copyLine(line)
	cp.Version = cur.Version + 1
	// La llave natural y la creación no se modifican.
	cp.StoreID, cp.ProductID, cp.Shift, cp.Date, cp.CreatedAt = cur.StoreID, cur.ProductID, cur.Shift, cur.Date, cur.CreatedAt
	r.db.lines[line.ID] = cp
	line.Version = cp.Version
	return nil
}

// ApplySync actualiza las líneas del lote cuyo actual_qty sigue igual al planificado.
func (r *CountLineRepo) ApplySync(_ context.Context, b repository.SyncBatch) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	updated := make([]string, 0, len(b.IDs))
	for _, id := range b.IDs {
		l, ok := r.db.lines[id]
		if !ok || !sameQty(l.ActualQty, b.ActualQty) {
			continue
		}
		l.ExpectedQty = b.ExpectedQty
		l.Diff = copyInt(b.Diff)
		l.Status = b.Status
		at := b.SyncedAt
		l.LastSyncedAt = &at
		l.UpdatedAt = b.SyncedAt
		l.Version++
		updated = append(updated, id)
	}
	return updated, nil
}

func sameQty(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// SlotStats agrega por (tienda, turno, fecha).
func (r *CountLineRepo) SlotStats(_ context.Context, dates []time.Time) ([]repository.SlotStats, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	want := make(map[string]time.Time, len(dates))
	for _, d := range dates {
		want[day(d)] = d
	}
	agg := map[lineKey]*repository.SlotStats{}
	for _, l := range r.db.lines {
		d, ok := want[day(l.Date)]
		if !ok {
			continue
		}
		k := lineKey{storeID: l.StoreID, shift: l.Shift, date: day(l.Date)}
		s, ok := agg[k]
		if !ok {
			s = &repository.SlotStats{StoreID: l.StoreID, Shift: l.Shift, Date: d, DiscrepancyValue: decimal.Zero}
			agg[k] = s
		}
		s.Total++
		if l.ActualQty != nil {
			s.Checked++
		}
		switch l.Status {
		case entity.CountStatusMatched:
			s.Matched++
		case entity.CountStatusMissing:
			s.Missing++
		case entity.CountStatusOver:
			s.Over++
		}
		if l.Diff != nil {
			if p, ok := r.db.products[l.ProductID]; ok {
				s.DiscrepancyValue = s.DiscrepancyValue.Add(p.UnitPrice.Mul(decimal.NewFromInt(int64(*l.Diff))))
			}
		}
	}
	out := make([]repository.SlotStats, 0, len(agg))
	for _, s := range agg {
		out = append(out, *s)
	}
	return out, nil
}
