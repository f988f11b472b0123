// Package pdf genera el recibo de venta imprimible.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda                │  N° Factura + Fecha        │
//	│  CLIENTE: Nombre + teléfono                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Desc. | Total         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuentos / Impuesto / TOTAL          │
//	│  PAGOS: método + monto, saldo pendiente y vencimiento       │
//	│  FOOTER: QR con el número de factura                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

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

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/receipt"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var paymentLabels = map[string]string{
	entity.PaymentMethodCash:   "Efectivo",
	entity.PaymentMethodCard:   "Tarjeta",
	entity.PaymentMethodMobile: "Billetera móvil",
	entity.PaymentMethodGift:   "Obsequio",
	entity.PaymentMethodCredit: "Crédito",
	entity.PaymentMethodSplit:  "Mixto",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReceiptGenerator implementa receipt.Generator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

var _ receipt.Generator = (*MarotoReceiptGenerator)(nil)

// GenerateReceipt genera el PDF y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceipt(_ context.Context, r *receipt.Receipt) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo "+r.Sale.InvoiceNumber, true).
		WithAuthor(nonEmpty(r.StoreName, "Tienda"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(customerRow(r.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(r.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(r.Sale))
	m.AddRows(paymentRows(r.Sale)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(r.Sale))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tienda (izq) y N° factura + fecha + estado (der).
func headerRow(r *receipt.Receipt) core.Row {
	s := r.Sale
	status := "Estado: " + strings.ToUpper(s.Status)
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(r.StoreName, "Tienda"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("RECIBO DE VENTA", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(s.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+s.Date.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New(status, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func customerRow(c *entity.Customer) core.Row {
	name, contact := "Cliente de mostrador", "—"
	if c != nil {
		name = c.Name
		contact = fmt.Sprintf("Tel: %s   |   Email: %s", nonEmpty(c.Phone, "—"), nonEmpty(c.Email, "—"))
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(contact, props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Desc.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea; las devoluciones se indican junto a la descripción.
func tableDetailRows(lines []receipt.Line) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		desc := l.ProductName
		if l.Size != "" || l.Color != "" {
			desc += fmt.Sprintf(" (%s %s)", l.Size, l.Color)
		}
		if l.ReturnedQuantity > 0 {
			desc += fmt.Sprintf(" · devueltas %d", l.ReturnedQuantity)
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(desc, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatMoney(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(l.Discount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(l.Total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(s *entity.Sale) core.Row {
	itemDiscounts := decimal.Zero
	for _, it := range s.Items {
		itemDiscounts = itemDiscounts.Add(it.Discount)
	}
	label := func(v string, top float64) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(v string, top float64) core.Component {
		return text.New(v, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 20}

	return row.New(28).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 0),
			label("Descuentos de línea:", 5),
			label("Descuento general:", 10),
			label("Impuesto:", 15),
			text.New("TOTAL:", withRight(grand, 2)),
		),
		col.New(3).Add(
			value(formatMoney(s.Subtotal), 0),
			value(formatMoney(itemDiscounts), 5),
			value(formatMoney(s.Discount), 10),
			value(formatMoney(s.Tax), 15),
			text.New(formatMoney(s.Total), withRight(grand, 1)),
		),
	)
}

// paymentRows: pagos recibidos, saldo y vencimiento de la cuenta por cobrar.
func paymentRows(s *entity.Sale) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(text.New("PAGOS ("+methodLabel(s.PaymentMethod)+")", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}))),
	}
	for _, p := range s.Payments {
		rows = append(rows, row.New(5).Add(
			col.New(6).Add(text.New(p.PaymentDate.Format("02/01/2006")+"  "+methodLabel(p.PaymentMethod), props.Text{Size: 8, Left: 2})),
			col.New(6).Add(text.New(formatMoney(p.Amount), props.Text{Size: 8, Align: align.Right, Right: 1})),
		))
	}
	rows = append(rows, row.New(6).Add(
		col.New(6).Add(text.New("Pagado", props.Text{Style: fontstyle.Bold, Size: 8, Left: 2, Top: 1})),
		col.New(6).Add(text.New(formatMoney(s.AmountPaid), props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Right: 1, Top: 1})),
	))
	if s.AmountDue.IsPositive() {
		due := "Saldo pendiente"
		if s.Due != nil {
			due += " (vence " + s.Due.DueDate.Format("02/01/2006") + ")"
		}
		rows = append(rows, row.New(6).Add(
			col.New(6).Add(text.New(due, props.Text{Style: fontstyle.Bold, Size: 8, Left: 2, Color: colorAlert})),
			col.New(6).Add(text.New(formatMoney(s.AmountDue), props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Right: 1, Color: colorAlert})),
		))
	}
	return rows
}

func footerRow(s *entity.Sale) core.Row {
	return row.New(35).Add(
		col.New(3).Add(code.NewQr(s.InvoiceNumber+"|"+s.Total.StringFixed(2), props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Gracias por su compra.", props.Text{Style: fontstyle.Bold, Size: 10, Top: 6, Left: 3, Color: colorPrimary}),
			text.New("Conserve este recibo para cambios y devoluciones.", props.Text{Size: 8, Top: 14, Left: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func withRight(p props.Text, right float64) props.Text {
	p.Right = right
	return p
}

func methodLabel(m string) string {
	if l, ok := paymentLabels[m]; ok {
		return l
	}
	return m
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney "$" + miles con punto y dos decimales con coma.
// Ej: 25000 → "$25.000,00", -1234.5 → "-$1.234,50"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	s := d.StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + "$" + string(buf) + "," + frac
}
