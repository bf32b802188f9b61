package counting

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/domain/count"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

// LinesQueryUseCase lista las líneas de un turno con los datos del producto.
type LinesQueryUseCase struct {
	lines repository.CountLineRepository
	cal   count.Calendar
	now   Clock
}

// NewLinesQueryUseCase construye el caso de uso.
func NewLinesQueryUseCase(lines repository.CountLineRepository, cal count.Calendar) *LinesQueryUseCase {
	return &LinesQueryUseCase{lines: lines, cal: cal, now: time.Now}
}

// SetClock reemplaza la fuente de tiempo.
func (uc *LinesQueryUseCase) SetClock(c Clock) { uc.now = c }

// List devuelve las líneas del turno. date vacío = fecha operativa actual.
func (uc *LinesQueryUseCase) List(ctx context.Context, storeID string, shift int, date string) (*dto.CountLineListResponse, error) {
	if err := count.ValidateShift(shift); err != nil {
		return nil, err
	}
	day := uc.cal.OperatingDate(shift, uc.now())
	if date != "" {
		d, err := uc.cal.ParseDate(date)
		if err != nil {
			return nil, err
		}
		day = d
	}
	views, err := uc.lines.ListBySlot(ctx, storeID, shift, day)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	items := make([]dto.CountLineResponse, 0, len(views))
	for _, v := range views {
		items = append(items, toCountLineResponse(v))
	}
	return &dto.CountLineListResponse{
		StoreID: storeID,
		Shift:   shift,
		Date:    day.Format(time.DateOnly),
		Items:   items,
	}, nil
}

func toCountLineResponse(v *entity.CountLineView) dto.CountLineResponse {
	return dto.CountLineResponse{
		ID:                v.ID,
		StoreID:           v.StoreID,
		ProductID:         v.ProductID,
		Barcode:           v.Barcode,
		ProductName:       v.ProductName,
		Category:          v.Category,
		Unit:              v.Unit,
		UnitPrice:         v.UnitPrice,
		Shift:             v.Shift,
		Date:              v.Date.Format(time.DateOnly),
		ExpectedQty:       v.ExpectedQty,
		ActualQty:         v.ActualQty,
		Diff:              v.Diff,
		Status:            v.Status,
		Note:              v.Note,
		DiscrepancyReason: v.DiscrepancyReason,
		LastSyncedAt:      v.LastSyncedAt,
		CheckedBy:         v.CheckedBy,
		CheckedAt:         v.CheckedAt,
	}
}
