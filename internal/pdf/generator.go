// Package pdf renders the customer-facing quote document of a budget.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/gestao-erp/erp-service/internal/model"
)

const fontName = "Helvetica"

type Generator struct {
	company string
}

// NewGenerator returns a generator that prints company in the document header.
func NewGenerator(company string) *Generator {
	if strings.TrimSpace(company) == "" {
		company = "Orçamento"
	}
	return &Generator{company: company}
}

func (g *Generator) Generate(budget model.Budget) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	// Core fonts are cp1252; the translator maps the accented Portuguese text.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(fontName, "B", 16)
	pdf.CellFormat(0, 10, tr(g.company), "", 1, "C", false, 0, "")
	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Orçamento nº %s", shortID(budget))), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Emitido em %s", formatDate(budget.CreatedAt))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	section(pdf, tr, "Cliente")
	pdf.SetFont(fontName, "", 10)
	for _, line := range []string{
		budget.CustomerName,
		fmt.Sprintf("Documento: %s", safeValue(budget.CustomerDocument)),
		fmt.Sprintf("E-mail: %s", safeValue(budget.CustomerEmail)),
		fmt.Sprintf("Telefone: %s", safeValue(budget.CustomerPhone)),
	} {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
	pdf.Ln(3)

	section(pdf, tr, budget.Title)
	if strings.TrimSpace(budget.Description) != "" {
		pdf.SetFont(fontName, "", 10)
		pdf.MultiCell(0, 5, tr(budget.Description), "", "L", false)
		pdf.Ln(2)
	}

	section(pdf, tr, "Composição de custos")
	widths := []float64{120, 60}
	drawRow(pdf, tr, []string{"Item", "Valor (R$)"}, widths, true)
	for _, line := range [][2]string{
		{fmt.Sprintf("Mão de obra (%s h × %s)", budget.LaborHours.StringFixed(2), formatMoney(budget.LaborRate)), formatMoney(budget.LaborCost)},
		{"Materiais", formatMoney(budget.MaterialCost)},
		{"Serviços de terceiros", formatMoney(budget.ThirdPartyCost)},
		{"Outros custos diretos", formatMoney(budget.OtherDirectCosts)},
		{"Custos indiretos", formatMoney(budget.IndirectCostsTotal)},
		{"Custo total", formatMoney(budget.TotalCosts)},
	} {
		drawRow(pdf, tr, line[:], widths, false)
	}
	pdf.Ln(3)

	section(pdf, tr, "Tributos")
	drawRow(pdf, tr, []string{"Tributo", "Valor (R$)"}, widths, true)
	for _, line := range [][2]string{
		{fmt.Sprintf("CBS (%s%%)", budget.CBSRate.StringFixed(2)), formatMoney(budget.CBSAmount)},
		{fmt.Sprintf("IBS (%s%%)", budget.IBSRate.StringFixed(2)), formatMoney(budget.IBSAmount)},
		{fmt.Sprintf("IRPJ (%s%%)", budget.IRPJRate.StringFixed(2)), formatMoney(budget.IRPJAmount)},
		{fmt.Sprintf("CSLL (%s%%)", budget.CSLLRate.StringFixed(2)), formatMoney(budget.CSLLAmount)},
	} {
		drawRow(pdf, tr, line[:], widths, false)
	}
	pdf.Ln(4)

	pdf.SetFont(fontName, "B", 13)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Valor final: R$ %s", formatMoney(budget.FinalPrice))), "", 1, "R", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	if budget.Installments > 1 {
		installment := budget.FinalPrice.Div(decimal.NewFromInt(int64(budget.Installments))).Truncate(2)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Em %d parcelas de R$ %s", budget.Installments, formatMoney(installment))), "", 1, "R", false, 0, "")
	}
	if budget.ValidUntil != nil {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Válido até %s", formatDate(*budget.ValidUntil))), "", 1, "R", false, 0, "")
	}

	pdf.Ln(10)
	pdf.CellFormat(0, 6, "______________________________", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr("Assinatura do cliente"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
}

func drawRow(pdf *gofpdf.Fpdf, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, tr(col), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func shortID(budget model.Budget) string {
	id := budget.ID.String()
	return strings.ToUpper(id[:8])
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// formatMoney prints a value the Brazilian way: 1.234,56.
func formatMoney(value decimal.Decimal) string {
	fixed := value.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")
	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}
	return sign + grouped.String() + "," + frac
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}
