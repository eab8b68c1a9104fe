package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/shipstore/lma-finance/internal/model"
	"github.com/shipstore/lma-finance/internal/view"
)

const summarySheet = "Resumo"

// moneyFormat is the built-in "#,##0.00" number format.
const moneyFormat = 4

var detailHeaders = []string{
	"FDA",
	"Serviço",
	"Navio",
	"Fornecedor",
	"CNPJ/CPF",
	"Nº Nota",
	"Emissão",
	"Vencimento",
	"Status",
	"Valor Bruto",
	"Retenções",
	"Líquido",
	"Multa",
	"Juros",
	"Total",
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate writes a summary sheet and one sheet per status present in list.
func (g *Generator) Generate(list view.LaunchedList, generatedAt time.Time) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	moneyStyle, err := file.NewStyle(&excelize.Style{NumFmt: moneyFormat})
	if err != nil {
		return nil, err
	}
	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	groups := groupByStatus(list.Items)
	if err := g.writeSummary(file, list, groups, generatedAt, moneyStyle, headerStyle); err != nil {
		return nil, err
	}

	usedNames := map[string]struct{}{summarySheet: {}}
	for _, group := range groups {
		sheetName := buildSheetName(string(group.status), usedNames)
		usedNames[sheetName] = struct{}{}

		if _, err := file.NewSheet(sheetName); err != nil {
			return nil, err
		}
		if err := g.writeDetail(file, sheetName, group.items, moneyStyle, headerStyle); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type statusGroup struct {
	status model.ItemStatus
	items  []model.ItemWithFDA
	total  decimal.Decimal
}

// groupByStatus keeps the order in which statuses first appear.
func groupByStatus(items []model.ItemWithFDA) []statusGroup {
	var groups []statusGroup
	index := make(map[model.ItemStatus]int)
	for _, item := range items {
		pos, ok := index[item.Status]
		if !ok {
			groups = append(groups, statusGroup{status: item.Status, total: decimal.Zero})
			pos = len(groups) - 1
			index[item.Status] = pos
		}
		groups[pos].items = append(groups[pos].items, item)
		groups[pos].total = groups[pos].total.Add(item.Total)
	}
	return groups
}

func (g *Generator) writeSummary(file *excelize.File, list view.LaunchedList, groups []statusGroup, generatedAt time.Time, moneyStyle, headerStyle int) error {
	sheet := summarySheet
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	grandTotal := decimal.Zero
	for _, group := range groups {
		grandTotal = grandTotal.Add(group.total)
	}

	set("A1", "Aba")
	set("B1", tabLabel(list.ActiveTab))
	set("A2", "Gerado em")
	set("B2", generatedAt.Format("02/01/2006 15:04"))
	set("A3", "Itens")
	set("B3", len(list.Items))
	set("A4", "Total")
	set("B4", grandTotal.InexactFloat64())
	_ = file.SetCellStyle(sheet, "B4", "B4", moneyStyle)

	tableRow := 6
	set(fmt.Sprintf("A%d", tableRow), "Status")
	set(fmt.Sprintf("B%d", tableRow), "Itens")
	set(fmt.Sprintf("C%d", tableRow), "Total")
	_ = file.SetCellStyle(sheet, fmt.Sprintf("A%d", tableRow), fmt.Sprintf("C%d", tableRow), headerStyle)

	for i, group := range groups {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), string(group.status))
		set(fmt.Sprintf("B%d", row), len(group.items))
		set(fmt.Sprintf("C%d", row), group.total.InexactFloat64())
		_ = file.SetCellStyle(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("C%d", row), moneyStyle)
	}

	_ = file.SetColWidth(sheet, "A", "A", 20)
	_ = file.SetColWidth(sheet, "B", "C", 18)
	return nil
}

func (g *Generator) writeDetail(file *excelize.File, sheet string, items []model.ItemWithFDA, moneyStyle, headerStyle int) error {
	for i, header := range detailHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		_ = file.SetCellValue(sheet, cell, header)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(detailHeaders), 1)
	_ = file.SetCellStyle(sheet, "A1", lastHeader, headerStyle)

	for i, item := range items {
		row := i + 2
		values := []interface{}{
			item.FDANumber,
			item.Service,
			item.Vessel,
			item.Counterparty,
			item.CounterpartyTaxID,
			item.InvoiceNumber,
			formatDate(item.IssueDate),
			formatDate(item.DueDate),
			string(item.Status),
			item.GrossAmount.InexactFloat64(),
			item.RetainedTax.InexactFloat64(),
			item.NetAmount.InexactFloat64(),
			item.Penalty.InexactFloat64(),
			item.Interest.InexactFloat64(),
			item.Total.InexactFloat64(),
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := file.SetSheetRow(sheet, start, &values); err != nil {
			return err
		}
		first, _ := excelize.CoordinatesToCellName(10, row)
		last, _ := excelize.CoordinatesToCellName(len(detailHeaders), row)
		_ = file.SetCellStyle(sheet, first, last, moneyStyle)
	}

	_ = file.SetColWidth(sheet, "A", "A", 16)
	_ = file.SetColWidth(sheet, "B", "B", 40)
	_ = file.SetColWidth(sheet, "C", "F", 22)
	_ = file.SetColWidth(sheet, "G", "I", 14)
	_ = file.SetColWidth(sheet, "J", "O", 16)
	return nil
}

func tabLabel(tab view.LaunchedTab) string {
	switch tab {
	case view.LaunchedOpen:
		return "Abertos"
	case view.LaunchedPaid:
		return "Liquidados"
	default:
		return "-"
	}
}

func buildSheetName(name string, used map[string]struct{}) string {
	base := sanitizeSheetName(name)
	if len(base) > 31 {
		base = base[:31]
	}

	nameCandidate := base
	counter := 2
	for {
		if _, exists := used[nameCandidate]; !exists {
			return nameCandidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		trimmed := base
		if len(trimmed)+len(suffix) > 31 {
			trimmed = trimmed[:31-len(suffix)]
		}
		nameCandidate = trimmed + suffix
		counter++
	}
}

func sanitizeSheetName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Sem Status"
	}

	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = strings.TrimSpace(replacer.Replace(value))
	if value == "" {
		return "Sem Status"
	}
	return value
}

// formatDate renders a YYYY-MM-DD date as DD/MM/YYYY.
func formatDate(raw string) string {
	t, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		return raw
	}
	return t.Format("02/01/2006")
}
