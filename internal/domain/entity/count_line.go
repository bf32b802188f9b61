package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una línea de conteo. Siempre derivados de ActualQty y ExpectedQty.
const (
	CountStatusPending = "PENDING"
	CountStatusMatched = "MATCHED"
	CountStatusMissing = "MISSING"
	CountStatusOver    = "OVER"
)

// CountLine es la unidad de trabajo: una por (tienda, producto, turno, fecha).
// ActualQty nil significa "sin contar"; en ese caso Diff también es nil y Status es PENDING.
type CountLine struct {
	ID                string
	StoreID           string
	ProductID         string
	Shift             int
	Date              time.Time // fecha operativa (solo día)
	ExpectedQty       int
	ActualQty         *int
	Diff              *int
	Status            string
	Note              string
	DiscrepancyReason *string
	LastSyncedAt      *time.Time
	CheckedBy         *string
	CheckedAt         *time.Time
	Version           int // se incrementa en cada escritura; base de las actualizaciones condicionales
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Counted indica si la línea ya tiene cantidad contada.
func (l *CountLine) Counted() bool { return l.ActualQty != nil }

// CountLineView es una línea de conteo junto con los datos del producto que la identifican.
type CountLineView struct {
	CountLine
	Barcode     string
	ProductName string
	Category    string
	Unit        string
	UnitPrice   decimal.Decimal
}
