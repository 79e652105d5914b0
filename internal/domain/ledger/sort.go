package ledger

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

type SortKey string

const (
	SortByID       SortKey = "id"
	SortByDate     SortKey = "date"
	SortByItem     SortKey = "item"
	SortByCost     SortKey = "cost"
	SortByCategory SortKey = "category"
	SortByType     SortKey = "type"
)

func (k SortKey) valid() bool {
	switch k {
	case SortByID, SortByDate, SortByItem, SortByCost, SortByCategory, SortByType:
		return true
	}
	return false
}

// ParseSort reads the "sort" query convention: a key optionally prefixed with
// "-" for descending order. An empty value means ascending identity order.
func ParseSort(value string) (SortKey, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return SortByID, false, nil
	}

	descending := strings.HasPrefix(value, "-")
	key := SortKey(strings.ToLower(strings.TrimPrefix(value, "-")))
	if !key.valid() {
		return "", false, invalid("sort", fmt.Sprintf("unknown sort key %q", key))
	}
	return key, descending, nil
}

func sortRecords(records []Record, key SortKey, descending bool) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return cmp.Compare(a.ID, b.ID)
	})
	if key == SortByID {
		if descending {
			slices.Reverse(records)
		}
		return
	}

	compare := recordComparator(key)
	slices.SortStableFunc(records, func(a, b Record) int {
		if descending {
			return compare(b, a)
		}
		return compare(a, b)
	})
}

func recordComparator(key SortKey) func(a, b Record) int {
	switch key {
	case SortByDate:
		return func(a, b Record) int { return a.Date.Compare(b.Date) }
	case SortByItem:
		return func(a, b Record) int { return cmp.Compare(a.Item, b.Item) }
	case SortByCost:
		return func(a, b Record) int { return a.Cost.Cmp(b.Cost) }
	case SortByCategory:
		return func(a, b Record) int { return cmp.Compare(a.CategoryName(), b.CategoryName()) }
	case SortByType:
		return func(a, b Record) int { return cmp.Compare(a.Kind, b.Kind) }
	}
	return func(a, b Record) int { return cmp.Compare(a.ID, b.ID) }
}
