package ledger

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// Summarize folds records into the net balance and the per category nets.
// Income counts positive, expense negative.
func Summarize(records []Record) Summary {
	summary := Summary{
		NetBalance:   decimal.Zero,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		RecordCount:  len(records),
		ByCategory:   []CategoryTotal{},
	}

	nets := make(map[string]decimal.Decimal)
	for _, record := range records {
		signed := record.Cost
		switch record.Kind {
		case KindIncome:
			summary.TotalIncome = summary.TotalIncome.Add(record.Cost)
		case KindExpense:
			summary.TotalExpense = summary.TotalExpense.Add(record.Cost)
			signed = signed.Neg()
		default:
			continue
		}

		name := record.CategoryName()
		if name == "" {
			name = UncategorizedName
		}
		nets[name] = nets[name].Add(signed)
	}

	summary.NetBalance = summary.TotalIncome.Sub(summary.TotalExpense)
	for name, net := range nets {
		summary.ByCategory = append(summary.ByCategory, CategoryTotal{Name: name, Net: net})
	}
	slices.SortFunc(summary.ByCategory, func(a, b CategoryTotal) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return summary
}
