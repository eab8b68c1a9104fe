package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/shipstore/lma-finance/internal/model"
	"github.com/shipstore/lma-finance/internal/view"
)

const fontName = "Helvetica"

var (
	headers   = []string{"FDA", "Serviço", "Fornecedor", "Navio", "Nº Nota", "Líquido", "Total"}
	colWidths = []float64{32, 78, 55, 35, 25, 21, 21}
)

// Generator renders a finance tab as a PDF statement grouped by due date.
// Core fonts are used with a cp1252 translator, which covers Portuguese text.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(board view.FinanceBoard, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont(fontName, "B", 14)
	pdf.CellFormat(0, 10, tr("LMA Finanças - "+tabLabel(board)), "", 1, "C", false, 0, "")

	pdf.SetFont(fontName, "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Gerado em %s", generatedAt.Format("02/01/2006 15:04"))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if len(board.Groups) == 0 {
		pdf.SetFont(fontName, "", 11)
		pdf.CellFormat(0, 8, tr("Nenhum item nesta aba."), "", 1, "L", false, 0, "")
	}

	for _, group := range board.Groups {
		pdf.SetFont(fontName, "B", 11)
		title := fmt.Sprintf("Vencimento: %s  |  %d item(ns)  |  %s", groupLabel(group), group.Count, formatMoney(group.Total))
		pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")

		drawTableRow(pdf, tr, headers, true)
		for _, row := range group.Items {
			drawTableRow(pdf, tr, []string{
				row.FDANumber,
				row.Service,
				row.Counterparty,
				row.Vessel,
				row.InvoiceNumber,
				formatAmount(row.NetAmount),
				formatAmount(row.Total),
			}, false)
		}
		pdf.Ln(3)
	}

	pdf.Ln(2)
	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Total geral (%d itens): %s", board.Count, formatMoney(board.Total))), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, tr func(string) string, cols []string, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 9)
	for i, col := range cols {
		align := "L"
		if i >= len(cols)-2 {
			align = "R"
		}
		pdf.CellFormat(colWidths[i], 7, fit(pdf, tr(col), colWidths[i]-2), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

// fit shortens cp1252 text, one byte per glyph, until it fits width.
func fit(pdf *gofpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	for len(text) > 0 && pdf.GetStringWidth(text+"...") > width {
		text = text[:len(text)-1]
	}
	return text + "..."
}

func tabLabel(board view.FinanceBoard) string {
	for _, tab := range board.Tabs {
		if tab.Status == board.ActiveTab {
			return tab.Label
		}
	}
	return "Financeiro"
}

func groupLabel(group view.DueGroup) string {
	if group.NoDate {
		return view.NoDateLabel
	}
	t, err := time.Parse(model.DateLayout, group.DueDate)
	if err != nil {
		return group.DueDate
	}
	return t.Format("02/01/2006")
}

func formatMoney(value decimal.Decimal) string {
	return "R$ " + formatAmount(value)
}

// formatAmount renders value with a comma decimal separator and dotted
// thousands, e.g. 1.234,56.
func formatAmount(value decimal.Decimal) string {
	fixed := value.StringFixed(2)
	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	result := grouped.String() + "," + fracPart
	if negative {
		result = "-" + result
	}
	return result
}
