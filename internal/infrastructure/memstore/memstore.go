// Package memstore implementa todos los puertos de persistencia en memoria, con la misma semántica
// de llaves únicas, upserts y escrituras condicionales que PostgreSQL. Se usa en tests y demos.
package memstore

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Conteo-api/internal/domain/entity"
)

// DB estado completo protegido por un mutex. Los campos Fail* inyectan fallos.
type DB struct {
	mu sync.Mutex

	products map[string]*entity.Product
	stores   map[string]*entity.Store
	lines    map[string]*entity.CountLine
	lineKeys map[lineKey]string
	reports  map[string]*entity.InventoryReport
	history  map[historyKey]entity.HistoryRecord
	stock    map[stockKey]int
	commits  map[string]time.Time

	// FailCommit hace fallar CommitReport.
	FailCommit error
	// FailHistoryDelete hace fallar DeleteBySlot del historial.
	FailHistoryDelete error
	// FailReportCreate hace fallar Create de reportes (dentro o fuera de transacción).
	FailReportCreate error
	// CommitCalls cuántas veces se invocó CommitReport por reporte.
	CommitCalls map[string]int
}

type lineKey struct {
	storeID   string
	productID string
	shift     int
	date      string
}

type historyKey struct {
	storeID   string
	productID string
	date      string
	shift     int
}

type stockKey struct {
	storeID   string
	productID string
}

// New crea una base vacía.
func New() *DB {
	return &DB{
		products:    map[string]*entity.Product{},
		stores:      map[string]*entity.Store{},
		lines:       map[string]*entity.CountLine{},
		lineKeys:    map[lineKey]string{},
		reports:     map[string]*entity.InventoryReport{},
		history:     map[historyKey]entity.HistoryRecord{},
		stock:       map[stockKey]int{},
		commits:     map[string]time.Time{},
		CommitCalls: map[string]int{},
	}
}

func day(t time.Time) string { return t.Format(time.DateOnly) }

// AddProduct agrega un producto al catálogo.
func (db *DB) AddProduct(p *entity.Product) {
	db.mu.Lock()
	defer db.mu.Unlock()
	cp := *p
	db.products[p.ID] = &cp
}

// AddStore agrega una tienda.
func (db *DB) AddStore(s *entity.Store) {
	db.mu.Lock()
	defer db.mu.Unlock()
	cp := *s
	db.stores[s.ID] = &cp
}

// LineCount total de líneas almacenadas.
func (db *DB) LineCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.lines)
}

// HistoryCount total de filas de historial.
func (db *DB) HistoryCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.history)
}

// StockOf stock oficial confirmado para (tienda, producto).
func (db *DB) StockOf(storeID, productID string) (int, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	q, ok := db.stock[stockKey{storeID, productID}]
	return q, ok
}

// ErrInjected error genérico para inyectar fallos en tests.
var ErrInjected = errors.New("memstore: fallo inyectado")

func copyLine(l *entity.CountLine) *entity.CountLine {
	cp := *l
	cp.ActualQty = copyInt(l.ActualQty)
	cp.Diff = copyInt(l.Diff)
	cp.DiscrepancyReason = copyStr(l.DiscrepancyReason)
	cp.CheckedBy = copyStr(l.CheckedBy)
	cp.CheckedAt = copyTime(l.CheckedAt)
	cp.LastSyncedAt = copyTime(l.LastSyncedAt)
	return &cp
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sortedStores(m map[string]*entity.Store, onlyActive bool) []*entity.Store {
	out := make([]*entity.Store, 0, len(m))
	for _, s := range m {
		if onlyActive && !s.Active {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
