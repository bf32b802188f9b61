package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Conteo-api/internal/application/review"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
)

func intp(v int) *int { return &v }

func TestGenerateCountSheet_GeneraPDF(t *testing.T) {
	at := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	reason := "DAMAGED"
	sheet := review.CountSheet{
		Report: &entity.InventoryReport{
			ID: "r-1", StoreID: "s-1", Shift: 2, Date: at, Status: entity.ReportStatusPending,
			SubmittedBy: "u-1", SubmittedAt: at, CountedLines: 2, TotalLines: 3,
		},
		Store: &entity.Store{ID: "s-1", Code: "T01", Name: "Tienda Centro"},
		Records: []entity.HistoryRecord{
			{ProductID: "p1", Barcode: "7701", ProductName: "Café", UnitPrice: decimal.NewFromInt(1500),
				ExpectedQty: 3, ActualQty: intp(1), Diff: intp(-2), Status: entity.CountStatusMissing, DiscrepancyReason: &reason},
			{ProductID: "p2", Barcode: "7702", ProductName: "Azúcar", UnitPrice: decimal.NewFromInt(900),
				ExpectedQty: 0, ActualQty: intp(0), Diff: intp(0), Status: entity.CountStatusMatched},
			{ProductID: "p3", Barcode: "7703", ProductName: "Sal", UnitPrice: decimal.NewFromInt(700),
				ExpectedQty: 4, Status: entity.CountStatusPending},
		},
	}

	out, err := NewCountSheetGenerator().GenerateCountSheet(context.Background(), sheet)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateCountSheet_SinTienda(t *testing.T) {
	_, err := NewCountSheetGenerator().GenerateCountSheet(context.Background(), review.CountSheet{
		Report: &entity.InventoryReport{ID: "r-1"},
	})
	assert.Error(t, err)
}

func TestSummarize_TotalesDeHoja(t *testing.T) {
	s := summarize([]entity.HistoryRecord{
		{UnitPrice: decimal.NewFromInt(1000), ActualQty: intp(1), Diff: intp(-2), Status: entity.CountStatusMissing},
		{UnitPrice: decimal.NewFromInt(500), ActualQty: intp(5), Diff: intp(3), Status: entity.CountStatusOver},
		{UnitPrice: decimal.NewFromInt(300), Status: entity.CountStatusPending},
	})
	assert.Equal(t, 2, s.counted)
	assert.Equal(t, 3, s.total)
	assert.Equal(t, 1, s.missing)
	assert.Equal(t, 1, s.over)
	assert.True(t, s.value.Equal(decimal.NewFromInt(-500)))
}

func TestFormatMoney_SeparadorDeMiles(t *testing.T) {
	assert.Equal(t, "25.000", formatMoney("25000"))
	assert.Equal(t, "1.000.000", formatMoney("1000000"))
	assert.Equal(t, "-3.000", formatMoney("-3000"))
	assert.Equal(t, "-300", formatMoney("-300"))
	assert.Equal(t, "0", formatMoney("0"))
}
