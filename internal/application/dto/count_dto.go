package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Conteo-api/internal/domain"
)

// DistributeInput entrada para distribuir el catálogo a un turno.
// Date vacío = fecha operativa actual del turno.
type DistributeInput struct {
	StoreID   string
	Shift     int
	Date      string
	ActorRole string
}

// DistributeRequest body para POST .../distribution.
type DistributeRequest struct {
	Date string `json:"date"`
}

// DistributeResult resultado de la distribución.
type DistributeResult struct {
	StoreID string `json:"store_id"`
	Shift   int    `json:"shift"`
	Date    string `json:"date"`
	Created int    `json:"created"`
	Catalog int    `json:"catalog"`
}

// SyncInput entrada para sincronizar cantidades esperadas con el ERP.
type SyncInput struct {
	StoreID   string
	Shift     int
	ActorRole string
}

// SyncResult resultado de la sincronización.
type SyncResult struct {
	Success      bool   `json:"success"`
	Date         string `json:"date"`
	Lines        int    `json:"lines"`
	MatchedCount int    `json:"matched_count"`
	Updated      int    `json:"updated"`
	Batches      int    `json:"batches"`
}

// UpdateFieldRequest body para PATCH /api/count-lines/:id.
// Value se conserva crudo para distinguir una clave ausente de un null explícito.
type UpdateFieldRequest struct {
	Field string          `json:"field" example:"actual_qty"`
	Value json.RawMessage `json:"value" swaggertype:"string" example:"5"`
}

// DecodeValue devuelve el valor decodificado (número, texto o nil para null).
// Un value ausente es domain.ErrValidation: solo un null explícito limpia el campo.
func (r UpdateFieldRequest) DecodeValue() (any, error) {
	if len(r.Value) == 0 {
		return nil, fmt.Errorf("%w: value es obligatorio; use null para limpiar", domain.ErrValidation)
	}
	var v any
	if err := json.Unmarshal(r.Value, &v); err != nil {
		return nil, fmt.Errorf("%w: value no es JSON válido", domain.ErrValidation)
	}
	return v, nil
}

// UpdateFieldInput entrada del registrador de conteos.
// ActorStoreID, si no está vacío, limita la edición a líneas de esa tienda.
type UpdateFieldInput struct {
	LineID       string
	Field        string
	Value        any
	ActorID      string
	ActorRole    string
	ActorStoreID string
}

// CountLineResponse salida de una línea de conteo.
type CountLineResponse struct {
	ID                string          `json:"id"`
	StoreID           string          `json:"store_id"`
	ProductID         string          `json:"product_id"`
	Barcode           string          `json:"barcode,omitempty"`
	ProductName       string          `json:"product_name,omitempty"`
	Category          string          `json:"category,omitempty"`
	Unit              string          `json:"unit,omitempty"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Shift             int             `json:"shift"`
	Date              string          `json:"date"`
	ExpectedQty       int             `json:"expected_qty"`
	ActualQty         *int            `json:"actual_qty"`
	Diff              *int            `json:"diff"`
	Status            string          `json:"status"`
	Note              string          `json:"note"`
	DiscrepancyReason *string         `json:"discrepancy_reason"`
	LastSyncedAt      *time.Time      `json:"last_synced_at,omitempty"`
	CheckedBy         *string         `json:"checked_by,omitempty"`
	CheckedAt         *time.Time      `json:"checked_at,omitempty"`
}

// CountLineListResponse líneas de un turno.
type CountLineListResponse struct {
	StoreID string              `json:"store_id"`
	Shift   int                 `json:"shift"`
	Date    string              `json:"date"`
	Items   []CountLineResponse `json:"items"`
}
