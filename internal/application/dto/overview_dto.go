package dto

import "github.com/shopspring/decimal"

// SlotOverviewDTO progreso de un (tienda, turno).
// Date es la fecha de la que salieron los datos; para el turno nocturno puede ser el día anterior.
type SlotOverviewDTO struct {
	StoreID          string          `json:"store_id"`
	StoreCode        string          `json:"store_code"`
	StoreName        string          `json:"store_name"`
	Shift            int             `json:"shift"`
	Date             string          `json:"date"`
	Total            int             `json:"total"`
	Checked          int             `json:"checked"`
	Matched          int             `json:"matched"`
	Missing          int             `json:"missing"`
	Over             int             `json:"over"`
	CompletionPct    float64         `json:"completion_pct"`
	DiscrepancyValue decimal.Decimal `json:"discrepancy_value"`
	ReportStatus     *string         `json:"report_status"`
}

// OverviewStatsDTO totales del día.
type OverviewStatsDTO struct {
	Stores           int             `json:"stores"`
	Slots            int             `json:"slots"`
	Total            int             `json:"total"`
	Checked          int             `json:"checked"`
	Matched          int             `json:"matched"`
	Missing          int             `json:"missing"`
	Over             int             `json:"over"`
	CompletionPct    float64         `json:"completion_pct"`
	DiscrepancyValue decimal.Decimal `json:"discrepancy_value"`
	Submitted        int             `json:"submitted"`
	Pending          int             `json:"pending"`
	Approved         int             `json:"approved"`
	Rejected         int             `json:"rejected"`
}

// OverviewResponse respuesta de GET /api/overview.
type OverviewResponse struct {
	Date          string            `json:"date"`
	Stats         OverviewStatsDTO  `json:"stats"`
	PerStoreShift []SlotOverviewDTO `json:"per_store_shift"`
}
