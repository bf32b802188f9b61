package entity

import "time"

// Estados del reporte. PENDING es el único estado desde el que se permite transicionar.
const (
	ReportStatusPending  = "PENDING"
	ReportStatusApproved = "APPROVED"
	ReportStatusRejected = "REJECTED"
)

// InventoryReport es el reporte de un turno enviado a revisión.
// Llave natural: (StoreID, Shift, Date).
type InventoryReport struct {
	ID              string
	StoreID         string
	Shift           int
	Date            time.Time
	Status          string
	SubmittedBy     string
	SubmittedAt     time.Time
	ReviewedBy      *string
	ReviewedAt      *time.Time
	RejectionReason *string
	CountedLines    int
	TotalLines      int
}

// IsTerminal indica si el reporte ya fue aprobado o rechazado.
func (r *InventoryReport) IsTerminal() bool {
	return r.Status == ReportStatusApproved || r.Status == ReportStatusRejected
}

// ReportTransition describe la escritura condicional PENDING -> decisión.
type ReportTransition struct {
	ReportID        string
	Status          string
	ReviewedBy      string
	ReviewedAt      time.Time
	RejectionReason *string
}
