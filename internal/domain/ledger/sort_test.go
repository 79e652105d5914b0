package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSort(t *testing.T) {
	key, desc, err := ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, SortByID, key)
	assert.False(t, desc)

	key, desc, err = ParseSort("-date")
	require.NoError(t, err)
	assert.Equal(t, SortByDate, key)
	assert.True(t, desc)

	key, desc, err = ParseSort("Cost")
	require.NoError(t, err)
	assert.Equal(t, SortByCost, key)
	assert.False(t, desc)

	_, _, err = ParseSort("volume")
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "sort", validationErr.Field)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSortRecordsStableByIdentity(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	food := &Category{ID: "c1", Name: "Food"}
	records := []Record{
		{ID: "03", Date: day, Item: "Milk", Kind: KindExpense, Cost: decimal.RequireFromString("2"), Category: food},
		{ID: "01", Date: day, Item: "Bread", Kind: KindExpense, Cost: decimal.RequireFromString("2")},
		{ID: "02", Date: day.AddDate(0, 0, 1), Item: "Salary", Kind: KindIncome, Cost: decimal.RequireFromString("100")},
	}

	sortRecords(records, SortByDate, false)
	assert.Equal(t, []string{"01", "03", "02"}, recordIDs(records))

	sortRecords(records, SortByDate, true)
	assert.Equal(t, []string{"02", "01", "03"}, recordIDs(records))

	sortRecords(records, SortByCost, true)
	assert.Equal(t, []string{"02", "01", "03"}, recordIDs(records))

	sortRecords(records, SortByCategory, false)
	assert.Equal(t, []string{"01", "02", "03"}, recordIDs(records))

	sortRecords(records, SortByType, false)
	assert.Equal(t, []string{"01", "03", "02"}, recordIDs(records))

	sortRecords(records, SortByItem, false)
	assert.Equal(t, []string{"01", "03", "02"}, recordIDs(records))

	sortRecords(records, SortByID, true)
	assert.Equal(t, []string{"03", "02", "01"}, recordIDs(records))
}

func recordIDs(records []Record) []string {
	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ID)
	}
	return ids
}
