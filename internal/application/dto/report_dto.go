package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubmitInput entrada para enviar el conteo de un turno a revisión.
type SubmitInput struct {
	StoreID   string
	Shift     int
	ActorID   string
	ActorRole string
}

// SubmitResult resultado del envío.
type SubmitResult struct {
	Success        bool   `json:"success"`
	ReportID       string `json:"report_id"`
	Date           string `json:"date"`
	Counted        int    `json:"counted"`
	Total          int    `json:"total"`
	CountedOfTotal string `json:"counted_of_total"`
}

// ReviewRequest body para POST /api/reports/:id/review.
type ReviewRequest struct {
	Decision string `json:"decision"` // APPROVED | REJECTED
	Reason   string `json:"reason"`
}

// ReviewInput entrada del coordinador de revisión.
// ReviewerStoreID, si no está vacío, limita la revisión a reportes de esa tienda.
type ReviewInput struct {
	ReportID        string
	Decision        string
	ReviewerID      string
	ReviewerRole    string
	ReviewerStoreID string
	Reason          string
}

// ReviewResult resultado de una revisión.
// StockCommitFailed indica que la decisión quedó registrada pero el stock no se actualizó.
type ReviewResult struct {
	Success           bool   `json:"success"`
	ReportID          string `json:"report_id"`
	Status            string `json:"status"`
	StockCommitFailed bool   `json:"stock_commit_failed"`
}

// BulkReviewRequest body para POST /api/reports/review.
type BulkReviewRequest struct {
	ReportIDs []string `json:"report_ids"`
	Decision  string   `json:"decision"`
	Reason    string   `json:"reason"`
}

// BulkReviewInput entrada de la revisión masiva.
type BulkReviewInput struct {
	ReportIDs       []string
	Decision        string
	ReviewerID      string
	ReviewerRole    string
	ReviewerStoreID string
	Reason          string
}

// BulkReviewResult conteo de resultados por reporte; nunca aborta por un fallo individual.
type BulkReviewResult struct {
	ProcessedCount int      `json:"processed_count"`
	FailedCount    int      `json:"failed_count"`
	StockWarnings  []string `json:"stock_warnings"`
	Errors         []string `json:"errors"`
}

// DeleteReportResult resultado del borrado administrativo.
type DeleteReportResult struct {
	Deleted        bool `json:"deleted"`
	HistoryDeleted int  `json:"history_deleted"`
	CascadeFailed  bool `json:"cascade_failed"`
}

// ReportResponse salida de un reporte.
type ReportResponse struct {
	ID              string     `json:"id"`
	StoreID         string     `json:"store_id"`
	Shift           int        `json:"shift"`
	Date            string     `json:"date"`
	Status          string     `json:"status"`
	SubmittedBy     string     `json:"submitted_by"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	ReviewedBy      *string    `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CountedLines    int        `json:"counted_lines"`
	TotalLines      int        `json:"total_lines"`
}

// ReportListResponse listado de reportes.
type ReportListResponse struct {
	Items []ReportResponse `json:"items"`
}

// HistoryLineResponse fila congelada del historial.
type HistoryLineResponse struct {
	ProductID         string          `json:"product_id"`
	Barcode           string          `json:"barcode"`
	ProductName       string          `json:"product_name"`
	Category          string          `json:"category"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	ExpectedQty       int             `json:"expected_qty"`
	ActualQty         *int            `json:"actual_qty"`
	Diff              *int            `json:"diff"`
	Status            string          `json:"status"`
	Note              string          `json:"note"`
	DiscrepancyReason *string         `json:"discrepancy_reason"`
	DiscrepancyValue  decimal.Decimal `json:"discrepancy_value"`
	CheckedBy         *string         `json:"checked_by,omitempty"`
	CheckedAt         *time.Time      `json:"checked_at,omitempty"`
}

// ReportLinesResponse historial de un reporte.
type ReportLinesResponse struct {
	Report ReportResponse        `json:"report"`
	Items  []HistoryLineResponse `json:"items"`
}
