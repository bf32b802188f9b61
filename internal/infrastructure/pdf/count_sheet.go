// Package pdf genera la hoja de conteo de un reporte enviado.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda + código      │  Turno + Fecha + Estado      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ENVÍO / REVISIÓN: quién y cuándo                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Esp. | Cont. | Dif. | Valor      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: contadas / total, faltantes, sobrantes, valor      │
//	│  QR con el ID del reporte                                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Conteo-api/internal/application/review"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
)

var _ review.CountSheetGenerator = (*CountSheetGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// CountSheetGenerator implementa review.CountSheetGenerator usando Maroto v2.
type CountSheetGenerator struct{}

// NewCountSheetGenerator construye el generador.
func NewCountSheetGenerator() *CountSheetGenerator { return &CountSheetGenerator{} }

// GenerateCountSheet genera el PDF y devuelve sus bytes.
func (g *CountSheetGenerator) GenerateCountSheet(_ context.Context, sheet review.CountSheet) ([]byte, error) {
	if sheet.Report == nil || sheet.Store == nil {
		return nil, fmt.Errorf("pdf: reporte y tienda son obligatorios")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de conteo", true).
		WithAuthor(sheet.Store.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sheet.Report, sheet.Store))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(trailRow(sheet.Report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(sheet.Records)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(summarize(sheet.Records)))
	m.AddRows(row.New(4))
	m.AddRows(row.New(30).Add(
		col.New(3).Add(code.NewQr(sheet.Report.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(text.New("Reporte "+sheet.Report.ID, props.Text{
			Size: 7, Top: 12, Left: 3, Color: colorGray,
		})),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(r *entity.InventoryReport, s *entity.Store) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(s.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Tienda "+s.Code, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("HOJA DE CONTEO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Turno %d · %s", r.Shift, r.Date.Format("02/01/2006")), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Estado: "+r.Status, props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

func trailRow(r *entity.InventoryReport) core.Row {
	reviewed := "Sin revisar"
	if r.ReviewedBy != nil && r.ReviewedAt != nil {
		reviewed = fmt.Sprintf("Revisado por %s el %s", *r.ReviewedBy, r.ReviewedAt.Format("02/01/2006 15:04"))
	}
	components := []core.Component{
		text.New(fmt.Sprintf("Enviado por %s el %s", r.SubmittedBy, r.SubmittedAt.Format("02/01/2006 15:04")),
			props.Text{Size: 8, Top: 1, Color: colorGray}),
		text.New(reviewed, props.Text{Size: 8, Top: 6, Color: colorGray}),
	}
	if r.RejectionReason != nil {
		components = append(components, text.New("Motivo de rechazo: "+*r.RejectionReason,
			props.Text{Size: 8, Top: 11, Color: colorAlert}))
	}
	return row.New(16).Add(col.New(12).Add(components...))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Esp.", 1, align.Center),
		h("Cont.", 1, align.Center),
		h("Dif.", 1, align.Center),
		h("Motivo", 1, align.Center),
		h("Valor dif.", 2, align.Right),
	)
}

func tableRows(records []entity.HistoryRecord) []core.Row {
	out := make([]core.Row, 0, len(records))
	for _, h := range records {
		diffColor := colorGray
		if h.Diff != nil && *h.Diff != 0 {
			diffColor = colorAlert
		}
		reason := ""
		if h.DiscrepancyReason != nil {
			reason = *h.DiscrepancyReason
		}
		out = append(out, row.New(7).Add(
			col.New(2).Add(text.New(h.Barcode, props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(4).Add(text.New(h.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(strconv.Itoa(h.ExpectedQty), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(intOrDash(h.ActualQty), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(intOrDash(h.Diff), props.Text{Size: 8, Align: align.Center, Top: 1, Color: diffColor})),
			col.New(1).Add(text.New(reason, props.Text{Size: 6, Align: align.Center, Top: 1.5})),
			col.New(2).Add(text.New("$"+formatMoney(review.DiscrepancyValue(h.Diff, h.UnitPrice).StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

type sheetSummary struct {
	counted, total, missing, over int
	value                         decimal.Decimal
}

func summarize(records []entity.HistoryRecord) sheetSummary {
	s := sheetSummary{total: len(records), value: decimal.Zero}
	for _, h := range records {
		if h.ActualQty != nil {
			s.counted++
		}
		switch h.Status {
		case entity.CountStatusMissing:
			s.missing++
		case entity.CountStatusOver:
			s.over++
		}
		s.value = s.value.Add(review.DiscrepancyValue(h.Diff, h.UnitPrice))
	}
	return s
}

func summaryRow(s sheetSummary) core.Row {
	label := func(v string) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(v string) core.Component {
		return text.New(v, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(26).Add(
		col.New(6),
		col.New(3).Add(
			label(fmt.Sprintf("Contadas: %d/%d", s.counted, s.total)),
			label(fmt.Sprintf("Faltantes: %d", s.missing)),
			label(fmt.Sprintf("Sobrantes: %d", s.over)),
		),
		col.New(3).Add(
			value("Valor neto"),
			text.New("$"+formatMoney(s.value.StringFixed(0)), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 5,
			}),
		),
	)
}

func intOrDash(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}

// formatMoney inserta puntos de miles en un string numérico sin decimales. Ej: "-25000" → "-25.000".
func formatMoney(s string) string {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
