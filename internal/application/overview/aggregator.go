// Package overview calcula el avance y las discrepancias por tienda y turno para un día.
package overview

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/domain/count"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

// AggregatorUseCase arma el resumen del día leyendo líneas y reportes; no escribe nada.
//
// Regla del turno nocturno: sus datos pueden estar archivados bajo el día anterior.
// Para ese turno se consultan la fecha pedida y la anterior y se usa la que tenga líneas
// (si ambas tienen, la fecha pedida). Cada (tienda, turno) aparece exactamente una vez.
type AggregatorUseCase struct {
	stores  repository.StoreRepository
	lines   repository.CountLineRepository
	reports repository.ReportRepository
	cal     count.Calendar
	now     func() time.Time
}

// NewAggregatorUseCase construye el caso de uso.
func NewAggregatorUseCase(
	stores repository.StoreRepository,
	lines repository.CountLineRepository,
	reports repository.ReportRepository,
	cal count.Calendar,
) *AggregatorUseCase {
	return &AggregatorUseCase{stores: stores, lines: lines, reports: reports, cal: cal, now: time.Now}
}

// SetClock reemplaza la fuente de tiempo.
func (uc *AggregatorUseCase) SetClock(c func() time.Time) { uc.now = c }

type slotKey struct {
	storeID string
	shift   int
	date    string
}

// Overview devuelve el resumen de la fecha indicada (vacía = hoy).
func (uc *AggregatorUseCase) Overview(ctx context.Context, date string) (*dto.OverviewResponse, error) {
	day := uc.cal.Day(uc.now())
	if date != "" {
		d, err := uc.cal.ParseDate(date)
		if err != nil {
			return nil, err
		}
		day = d
	}
	prev := day.AddDate(0, 0, -1)
	dates := []time.Time{day, prev}

	stores, err := uc.stores.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("overview: listar tiendas: %w", err)
	}
	stats, err := uc.lines.SlotStats(ctx, dates)
	if err != nil {
		return nil, fmt.Errorf("overview: agregados: %w", err)
	}
	reports, err := uc.reports.List(ctx, repository.ReportFilter{Dates: dates})
	if err != nil {
		return nil, fmt.Errorf("overview: reportes: %w", err)
	}

	byKey := make(map[slotKey]repository.SlotStats, len(stats))
	for _, s := range stats {
		byKey[slotKey{s.StoreID, s.Shift, s.Date.Format(time.DateOnly)}] = s
	}
	reportByKey := make(map[slotKey]*entity.InventoryReport, len(reports))
	for _, r := range reports {
		reportByKey[slotKey{r.StoreID, r.Shift, r.Date.Format(time.DateOnly)}] = r
	}

	sort.Slice(stores, func(i, j int) bool { return stores[i].Code < stores[j].Code })

	resp := &dto.OverviewResponse{
		Date:          day.Format(time.DateOnly),
		PerStoreShift: make([]dto.SlotOverviewDTO, 0, len(stores)*count.MaxShift),
	}
	st := &resp.Stats
	st.Stores = len(stores)
	st.DiscrepancyValue = decimal.Zero

	for _, store := range stores {
		for shift := count.MinShift; shift <= count.MaxShift; shift++ {
			source := day
			key := slotKey{store.ID, shift, day.Format(time.DateOnly)}
			s, found := byKey[key]
			if uc.cal.IsOvernight(shift) && (!found || s.Total == 0) {
				prevKey := slotKey{store.ID, shift, prev.Format(time.DateOnly)}
				if ps, ok := byKey[prevKey]; ok && ps.Total > 0 {
					source, key, s, found = prev, prevKey, ps, true
				}
			}
			if !found {
				s = repository.SlotStats{StoreID: store.ID, Shift: shift, Date: source, DiscrepancyValue: decimal.Zero}
			}

			slot := dto.SlotOverviewDTO{
				StoreID:          store.ID,
				StoreCode:        store.Code,
				StoreName:        store.Name,
				Shift:            shift,
				Date:             source.Format(time.DateOnly),
				Total:            s.Total,
				Checked:          s.Checked,
				Matched:          s.Matched,
				Missing:          s.Missing,
				Over:             s.Over,
				CompletionPct:    completion(s.Checked, s.Total),
				DiscrepancyValue: s.DiscrepancyValue,
			}
			if r, ok := reportByKey[key]; ok {
				status := r.Status
				slot.ReportStatus = &status
				st.Submitted++
				switch r.Status {
				case entity.ReportStatusPending:
					st.Pending++
				case entity.ReportStatusApproved:
					st.Approved++
				case entity.ReportStatusRejected:
					st.Rejected++
				}
			}

			st.Slots++
			st.Total += s.Total
			st.Checked += s.Checked
			st.Matched += s.Matched
			st.Missing += s.Missing
			st.Over += s.Over
			st.DiscrepancyValue = st.DiscrepancyValue.Add(s.DiscrepancyValue)
			resp.PerStoreShift = append(resp.PerStoreShift, slot)
		}
	}
	st.CompletionPct = completion(st.Checked, st.Total)
	return resp, nil
}

// completion porcentaje con un decimal; 0 si no hay líneas.
func completion(checked, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(checked)*1000/float64(total)) / 10
}
