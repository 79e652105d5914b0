package export

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"expense-ledger-go/internal/domain/ledger"
)

func TestWriteLedgerXLSX(t *testing.T) {
	pets := &ledger.Category{ID: "c1", Name: "Pet Supplies"}
	records := []ledger.Record{
		{
			ID:       "r1",
			Kind:     ledger.KindExpense,
			Date:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			Item:     "Food For Cat",
			Quantity: "2 cans",
			Cost:     decimal.RequireFromString("15.00"),
			Category: pets,
		},
		{
			ID:       "r2",
			Kind:     ledger.KindIncome,
			Date:     time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
			Item:     "Salary",
			Quantity: "1",
			Cost:     decimal.RequireFromString("100.50"),
		},
	}
	summary := ledger.Summarize(records)

	var buf bytes.Buffer
	require.NoError(t, WriteLedgerXLSX(&buf, records, summary))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{RecordsSheet, CategoriesSheet}, f.GetSheetList())

	rows, err := f.GetRows(RecordsSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, recordHeaders, rows[0])
	require.Len(t, rows[1], 6)
	assert.Equal(t, []string{"2024-05-01", "Expense", "Food For Cat", "2 cans", "Pet Supplies"}, rows[1][:5])
	assertAmount(t, 15, rows[1][5])
	require.Len(t, rows[2], 6)
	assert.Equal(t, []string{"2024-05-02", "Income", "Salary", "1", ledger.UncategorizedName}, rows[2][:5])
	assertAmount(t, 100.5, rows[2][5])
	require.Len(t, rows[3], 6)
	assert.Equal(t, "Balance (2 records)", rows[3][0])
	assertAmount(t, 85.5, rows[3][5])

	categories, err := f.GetRows(CategoriesSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, categories, 3)
	require.Len(t, categories[1], 2)
	assert.Equal(t, "Pet Supplies", categories[1][0])
	assertAmount(t, -15, categories[1][1])
	require.Len(t, categories[2], 2)
	assert.Equal(t, ledger.UncategorizedName, categories[2][0])
	assertAmount(t, 100.5, categories[2][1])
}

func assertAmount(t *testing.T, want float64, got string) {
	t.Helper()
	value, err := strconv.ParseFloat(got, 64)
	require.NoError(t, err)
	assert.InDelta(t, want, value, 0.001)
}

func TestWriteLedgerXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLedgerXLSX(&buf, nil, ledger.Summarize(nil)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue(RecordsSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Balance (0 records)", value)
}
