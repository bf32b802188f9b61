package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistoryRecord es la copia inmutable de una línea de conteo al momento del envío.
// Llave: (StoreID, ProductID, Date, Shift); reenvíos hacen upsert, nunca duplican.
type HistoryRecord struct {
	StoreID           string
	ProductID         string
	Date              time.Time
	Shift             int
	Barcode           string
	ProductName       string
	Category          string
	UnitPrice         decimal.Decimal
	ExpectedQty       int
	ActualQty         *int
	Diff              *int
	Status            string
	Note              string
	DiscrepancyReason *string
	CheckedBy         *string
	CheckedAt         *time.Time
	SnapshotAt        time.Time
}

// HistoryFromLine congela una línea de conteo (con sus datos de producto) en un registro de historial.
func HistoryFromLine(v CountLineView, at time.Time) HistoryRecord {
	return HistoryRecord{
		StoreID:           v.StoreID,
		ProductID:         v.ProductID,
		Date:              v.Date,
		Shift:             v.Shift,
		Barcode:           v.Barcode,
		ProductName:       v.ProductName,
		Category:          v.Category,
		UnitPrice:         v.UnitPrice,
		ExpectedQty:       v.ExpectedQty,
		ActualQty:         v.ActualQty,
		Diff:              v.Diff,
		Status:            v.Status,
		Note:              v.Note,
		DiscrepancyReason: v.DiscrepancyReason,
		CheckedBy:         v.CheckedBy,
		CheckedAt:         v.CheckedAt,
		SnapshotAt:        at,
	}
}
