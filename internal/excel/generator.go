// Package excel renders the accounts report workbook.
package excel

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/gestao-erp/erp-service/internal/model"
)

const (
	summarySheet     = "Resumo"
	receivablesSheet = "A Receber"
	payablesSheet    = "A Pagar"
)

var detailHeaders = []string{"Vencimento", "Descrição", "Parcela", "Categoria", "Status", "Valor", "Liquidado em"}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// accountRow is the flattened view shared by payables and receivables.
type accountRow struct {
	DueDate     time.Time
	Description string
	Number      int
	Total       int
	Category    string
	Status      string
	Amount      decimal.Decimal
	SettledOn   *time.Time
}

func (g *Generator) Generate(report model.AccountsReport) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	receivables := make([]accountRow, 0, len(report.Receivables))
	for _, r := range report.Receivables {
		receivables = append(receivables, accountRow{
			DueDate: r.DueDate, Description: r.Description, Number: r.InstallmentNumber, Total: r.TotalInstallments,
			Category: r.Category, Status: string(r.Status), Amount: r.Amount, SettledOn: r.ReceivedDate,
		})
	}
	payables := make([]accountRow, 0, len(report.Payables))
	for _, p := range report.Payables {
		payables = append(payables, accountRow{
			DueDate: p.DueDate, Description: p.Description, Number: p.InstallmentNumber, Total: p.TotalInstallments,
			Category: p.Category, Status: string(p.Status), Amount: p.Amount, SettledOn: p.PaymentDate,
		})
	}

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if err := g.writeSummary(file, report, receivables, payables); err != nil {
		return nil, err
	}
	for _, sheet := range []struct {
		name string
		rows []accountRow
	}{{receivablesSheet, receivables}, {payablesSheet, payables}} {
		if _, err := file.NewSheet(sheet.name); err != nil {
			return nil, err
		}
		if err := g.writeDetail(file, sheet.name, sheet.rows); err != nil {
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

func (g *Generator) writeSummary(file *excelize.File, report model.AccountsReport, receivables, payables []accountRow) error {
	in, inOpen := sumRows(receivables)
	out, outOpen := sumRows(payables)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	set("A1", "Início do período")
	set("B1", formatDate(report.PeriodStart))
	set("A2", "Fim do período")
	set("B2", formatDate(report.PeriodEnd))

	set("A4", "")
	set("B4", "Quantidade")
	set("C4", "Total")
	set("D4", "Em aberto")
	set("A5", "A receber")
	set("B5", len(receivables))
	set("C5", in.InexactFloat64())
	set("D5", inOpen.InexactFloat64())
	set("A6", "A pagar")
	set("B6", len(payables))
	set("C6", out.InexactFloat64())
	set("D6", outOpen.InexactFloat64())
	set("A8", "Saldo previsto")
	set("D8", inOpen.Sub(outOpen).InexactFloat64())

	if err := g.moneyFormat(file, summarySheet, "C5", "D8"); err != nil {
		return err
	}
	_ = file.SetColWidth(summarySheet, "A", "A", 22)
	_ = file.SetColWidth(summarySheet, "B", "D", 16)
	return nil
}

func (g *Generator) writeDetail(file *excelize.File, sheet string, rows []accountRow) error {
	for i, header := range detailHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = file.SetCellValue(sheet, cell, header)
	}

	for i, row := range rows {
		values := []interface{}{
			formatDate(row.DueDate),
			row.Description,
			fmt.Sprintf("%d/%d", row.Number, row.Total),
			row.Category,
			statusLabel(row.Status),
			row.Amount.InexactFloat64(),
			formatDatePtr(row.SettledOn),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := file.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	if len(rows) > 0 {
		if err := g.moneyFormat(file, sheet, "F2", fmt.Sprintf("F%d", len(rows)+1)); err != nil {
			return err
		}
	}
	_ = file.SetColWidth(sheet, "A", "A", 14)
	_ = file.SetColWidth(sheet, "B", "B", 48)
	_ = file.SetColWidth(sheet, "C", "E", 14)
	_ = file.SetColWidth(sheet, "F", "G", 16)
	return nil
}

func (g *Generator) moneyFormat(file *excelize.File, sheet, from, to string) error {
	format := "#,##0.00"
	style, err := file.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return err
	}
	return file.SetCellStyle(sheet, from, to, style)
}

// sumRows returns the total of all rows and of those still open.
func sumRows(rows []accountRow) (decimal.Decimal, decimal.Decimal) {
	total, open := decimal.Zero, decimal.Zero
	for _, row := range rows {
		if row.Status == "cancelled" {
			continue
		}
		total = total.Add(row.Amount)
		if row.Status == "pending" || row.Status == "overdue" {
			open = open.Add(row.Amount)
		}
	}
	return total, open
}

func statusLabel(status string) string {
	switch status {
	case "pending":
		return "Pendente"
	case "paid":
		return "Pago"
	case "received":
		return "Recebido"
	case "overdue":
		return "Vencido"
	case "cancelled":
		return "Cancelado"
	default:
		return status
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}
