package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gestao-erp/erp-service/internal/model"
)

func TestGenerateAccountsWorkbook(t *testing.T) {
	due := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	paid := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	report := model.AccountsReport{
		PeriodStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Receivables: []model.AccountReceivable{
			{Description: "Pedido A", Amount: decimal.RequireFromString("333.33"), DueDate: due, Status: model.ReceivableStatusPending, InstallmentNumber: 1, TotalInstallments: 3},
			{Description: "Pedido B", Amount: decimal.RequireFromString("100.00"), DueDate: due, Status: model.ReceivableStatusReceived, ReceivedDate: &paid, InstallmentNumber: 1, TotalInstallments: 1},
		},
		Payables: []model.AccountPayable{
			{Description: "Aluguel", Amount: decimal.RequireFromString("50.00"), DueDate: due, Status: model.PayableStatusOverdue, InstallmentNumber: 1, TotalInstallments: 1},
		},
	}

	content, err := NewGenerator().Generate(report)
	require.NoError(t, err)
	require.NotEmpty(t, content)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, []string{"Resumo", "A Receber", "A Pagar"}, file.GetSheetList())

	start, err := file.GetCellValue("Resumo", "B1")
	require.NoError(t, err)
	assert.Equal(t, "01/03/2025", start)

	count, err := file.GetCellValue("Resumo", "B5")
	require.NoError(t, err)
	assert.Equal(t, "2", count)

	rows, err := file.GetRows("A Receber")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Vencimento", rows[0][0])
	assert.Equal(t, "Pedido A", rows[1][1])
	assert.Equal(t, "1/3", rows[1][2])
	assert.Equal(t, "Recebido", rows[2][4])
	assert.Equal(t, "09/03/2025", rows[2][6])

	payables, err := file.GetRows("A Pagar")
	require.NoError(t, err)
	require.Len(t, payables, 2)
	assert.Equal(t, "Vencido", payables[1][4])
}

func TestSumRowsSkipsCancelled(t *testing.T) {
	total, open := sumRows([]accountRow{
		{Status: "pending", Amount: decimal.NewFromInt(10)},
		{Status: "overdue", Amount: decimal.NewFromInt(5)},
		{Status: "paid", Amount: decimal.NewFromInt(7)},
		{Status: "cancelled", Amount: decimal.NewFromInt(100)},
	})
	assert.True(t, total.Equal(decimal.NewFromInt(22)))
	assert.True(t, open.Equal(decimal.NewFromInt(15)))
}
