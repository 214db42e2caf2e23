// Package pdf genera la hoja de costeo de una corrida de producción.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Producto + lote     │  Fecha de la corrida          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONSUMO: Materia prima | Cant | Costo unit | Total          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: costo MP / total / rendimiento / kg / litro        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMPAQUE: Presentación | Cant | Líquido | Envase | IVA | U.  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/produccion-api/internal/application/production"
)

var _ production.CostSheetGenerator = (*CostSheetGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// CostSheetGenerator implementa production.CostSheetGenerator usando Maroto v2.
type CostSheetGenerator struct {
	printer *message.Printer
}

// NewCostSheetGenerator construye el generador con formato numérico en español.
func NewCostSheetGenerator() *CostSheetGenerator {
	return &CostSheetGenerator{printer: message.NewPrinter(language.Spanish)}
}

// GenerateCostSheet genera el PDF y devuelve sus bytes.
func (g *CostSheetGenerator) GenerateCostSheet(_ context.Context, sheet production.CostSheet) ([]byte, error) {
	if sheet.Run == nil {
		return nil, fmt.Errorf("pdf: corrida requerida")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de costeo "+sheet.Run.BatchNumber, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(g.headerRow(sheet))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionTitle("CONSUMO DE MATERIA PRIMA"))
	m.AddRows(tableHeader([]string{"Materia prima", "Cantidad (kg)", "Costo unit.", "Total"}, []int{6, 2, 2, 2}))
	for _, c := range sheet.Consumption {
		m.AddRows(g.tableRow([]int{6, 2, 2, 2}, c.Name, g.qty(c.Quantity), g.money(c.UnitCost), g.money(c.Total)))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.summaryRows(sheet)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionTitle(fmt.Sprintf("EMPAQUE (IVA %s%%)", g.qty(sheet.TaxRate.Mul(decimal.NewFromInt(100))))))
	widths := []int{2, 2, 2, 2, 2, 2}
	m.AddRows(tableHeader([]string{"Presentación", "Unidades", "Líquido", "Envase", "IVA", "Costo unit."}, widths))
	for _, p := range sheet.Run.Packages {
		m.AddRows(g.tableRow(widths, p.SizeLabel, g.qty(p.QuantityProduced),
			g.money(p.SnapshotLiquidCost), g.money(p.SnapshotContainerCost),
			g.money(p.SnapshotTax), g.money(p.UnitFinalCost)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *CostSheetGenerator) headerRow(sheet production.CostSheet) core.Row {
	run := sheet.Run
	return row.New(18).Add(
		col.New(8).Add(
			text.New(run.ProductName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Lote: "+run.BatchNumber, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("HOJA DE COSTEO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha: "+run.RunDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func (g *CostSheetGenerator) summaryRows(sheet production.CostSheet) []core.Row {
	run := sheet.Run
	pairs := [][2]string{
		{"Costo materia prima:", g.money(run.TotalRawMaterialCost)},
		{"Costo total del lote:", g.money(run.GrandTotalCost)},
		{"Rendimiento (kg):", g.qty(run.TotalYield)},
		{"Costo por kg:", g.money(run.CostPerUnitMass)},
		{"Costo por litro:", g.money(run.CostPerUnitVolume)},
	}
	rows := make([]core.Row, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, row.New(5).Add(
			col.New(6),
			col.New(3).Add(text.New(p[0], props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})),
			col.New(3).Add(text.New(p[1], props.Text{Size: 9, Align: align.Right, Right: 1})),
		))
	}
	return rows
}

func sectionTitle(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func tableHeader(labels []string, widths []int) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, label := range labels {
		a := align.Right
		if i == 0 {
			a = align.Left
		}
		cols = append(cols, col.New(widths[i]).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cols...)
}

func (g *CostSheetGenerator) tableRow(widths []int, values ...string) core.Row {
	cols := make([]core.Col, 0, len(values))
	for i, v := range values {
		a := align.Right
		if i == 0 {
			a = align.Left
		}
		cols = append(cols, col.New(widths[i]).Add(text.New(v, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cols...)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea con separador de miles y dos decimales según el locale.
func (g *CostSheetGenerator) money(d decimal.Decimal) string {
	return "$" + g.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func (g *CostSheetGenerator) qty(d decimal.Decimal) string {
	return g.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}
