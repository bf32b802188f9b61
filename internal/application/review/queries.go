package review

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/count"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

// ReportQueryUseCase consultas de reportes y de su historial congelado.
type ReportQueryUseCase struct {
	reports   repository.ReportRepository
	history   repository.HistoryRepository
	stores    repository.StoreRepository
	generator CountSheetGenerator
	cal       count.Calendar
}

// NewReportQueryUseCase construye el caso de uso.
func NewReportQueryUseCase(
	reports repository.ReportRepository,
	history repository.HistoryRepository,
	stores repository.StoreRepository,
	generator CountSheetGenerator,
	cal count.Calendar,
) *ReportQueryUseCase {
	return &ReportQueryUseCase{reports: reports, history: history, stores: stores, generator: generator, cal: cal}
}

// Get devuelve un reporte por ID.
// actorStoreID, si no está vacío, restringe todas las consultas a reportes de esa tienda.
func (uc *ReportQueryUseCase) Get(ctx context.Context, id, actorStoreID string) (*dto.ReportResponse, error) {
	r, err := loadReport(ctx, uc.reports, id, actorStoreID)
	if err != nil {
		return nil, err
	}
	resp := toReportResponse(r)
	return &resp, nil
}

// List lista los reportes de una fecha (opcional) filtrando por estado (opcional).
func (uc *ReportQueryUseCase) List(ctx context.Context, date, status, actorStoreID string) (*dto.ReportListResponse, error) {
	filter := repository.ReportFilter{Status: status, StoreID: actorStoreID}
	if status != "" && status != entity.ReportStatusPending &&
		status != entity.ReportStatusApproved && status != entity.ReportStatusRejected {
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrValidation, status)
	}
	if date != "" {
		d, err := uc.cal.ParseDate(date)
		if err != nil {
			return nil, err
		}
		filter.Dates = []time.Time{d}
	}
	list, err := uc.reports.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	items := make([]dto.ReportResponse, 0, len(list))
	for _, r := range list {
		items = append(items, toReportResponse(r))
	}
	return &dto.ReportListResponse{Items: items}, nil
}

// Lines devuelve el historial congelado del reporte.
func (uc *ReportQueryUseCase) Lines(ctx context.Context, id, actorStoreID string) (*dto.ReportLinesResponse, error) {
	r, err := loadReport(ctx, uc.reports, id, actorStoreID)
	if err != nil {
		return nil, err
	}
	records, err := uc.history.ListBySlot(ctx, r.StoreID, r.Shift, r.Date)
	if err != nil {
		return nil, fmt.Errorf("report lines: %w", err)
	}
	items := make([]dto.HistoryLineResponse, 0, len(records))
	for _, h := range records {
		items = append(items, dto.HistoryLineResponse{
			ProductID:         h.ProductID,
			Barcode:           h.Barcode,
			ProductName:       h.ProductName,
			Category:          h.Category,
			UnitPrice:         h.UnitPrice,
			ExpectedQty:       h.ExpectedQty,
			ActualQty:         h.ActualQty,
			Diff:              h.Diff,
			Status:            h.Status,
			Note:              h.Note,
			DiscrepancyReason: h.DiscrepancyReason,
			DiscrepancyValue:  DiscrepancyValue(h.Diff, h.UnitPrice),
			CheckedBy:         h.CheckedBy,
			CheckedAt:         h.CheckedAt,
		})
	}
	return &dto.ReportLinesResponse{Report: toReportResponse(r), Items: items}, nil
}

// CountSheet genera el PDF de la hoja de conteo del reporte.
// Retorna los bytes y un nombre de archivo sugerido.
func (uc *ReportQueryUseCase) CountSheet(ctx context.Context, id, actorStoreID string) ([]byte, string, error) {
	r, err := loadReport(ctx, uc.reports, id, actorStoreID)
	if err != nil {
		return nil, "", err
	}
	store, err := uc.stores.GetByID(ctx, r.StoreID)
	if err != nil {
		return nil, "", fmt.Errorf("count sheet: obtener tienda: %w", err)
	}
	if store == nil {
		return nil, "", fmt.Errorf("%w: tienda %s", domain.ErrNotFound, r.StoreID)
	}
	records, err := uc.history.ListBySlot(ctx, r.StoreID, r.Shift, r.Date)
	if err != nil {
		return nil, "", fmt.Errorf("count sheet: historial: %w", err)
	}
	pdf, err := uc.generator.GenerateCountSheet(ctx, CountSheet{Report: r, Store: store, Records: records})
	if err != nil {
		return nil, "", fmt.Errorf("count sheet: %w", err)
	}
	filename := fmt.Sprintf("conteo-%s-T%d-%s.pdf", store.Code, r.Shift, r.Date.Format(time.DateOnly))
	return pdf, filename, nil
}

// DiscrepancyValue valoriza la diferencia (diff × precio unitario). Sin conteo vale cero.
func DiscrepancyValue(diff *int, unitPrice decimal.Decimal) decimal.Decimal {
	if diff == nil {
		return decimal.Zero
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(*diff)))
}

func toReportResponse(r *entity.InventoryReport) dto.ReportResponse {
	return dto.ReportResponse{
		ID:              r.ID,
		StoreID:         r.StoreID,
		Shift:           r.Shift,
		Date:            r.Date.Format(time.DateOnly),
		Status:          r.Status,
		SubmittedBy:     r.SubmittedBy,
		SubmittedAt:     r.SubmittedAt,
		ReviewedBy:      r.ReviewedBy,
		ReviewedAt:      r.ReviewedAt,
		RejectionReason: r.RejectionReason,
		CountedLines:    r.CountedLines,
		TotalLines:      r.TotalLines,
	}
}
