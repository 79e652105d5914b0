package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"expense-ledger-go/internal/domain/ledger"
)

const (
	RecordsSheet    = "Records"
	CategoriesSheet = "By Category"
	ContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	dateLayout   = "2006-01-02"
	amountFormat = "#,##0.00"
)

var recordHeaders = []string{"Date", "Type", "Item", "Quantity", "Category", "Cost"}

// WriteLedgerXLSX writes the records in the given order followed by a balance
// row, and a second sheet with the per category nets.
func WriteLedgerXLSX(w io.Writer, records []ledger.Record, summary ledger.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RecordsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(CategoriesSheet); err != nil {
		return err
	}

	styles, err := newStyles(f)
	if err != nil {
		return err
	}

	if err := writeRecords(f, styles, records, summary); err != nil {
		return fmt.Errorf("write records sheet: %w", err)
	}
	if err := writeCategories(f, styles, summary); err != nil {
		return fmt.Errorf("write categories sheet: %w", err)
	}

	return f.Write(w)
}

type sheetStyles struct {
	header  int
	data    int
	amount  int
	summary int
}

func newStyles(f *excelize.File) (sheetStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	amountFmt := amountFormat

	var styles sheetStyles
	var err error
	if styles.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	}); err != nil {
		return styles, err
	}
	if styles.data, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    border,
	}); err != nil {
		return styles, err
	}
	if styles.amount, err = f.NewStyle(&excelize.Style{
		Alignment:    &excelize.Alignment{Horizontal: "right", Vertical: "center"},
		Border:       border,
		CustomNumFmt: &amountFmt,
	}); err != nil {
		return styles, err
	}
	if styles.summary, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 11},
		Fill:         excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment:    &excelize.Alignment{Vertical: "center"},
		Border:       border,
		CustomNumFmt: &amountFmt,
	}); err != nil {
		return styles, err
	}
	return styles, nil
}

func writeRecords(f *excelize.File, styles sheetStyles, records []ledger.Record, summary ledger.Summary) error {
	widths := map[string]float64{"A": 12, "B": 10, "C": 22, "D": 14, "E": 22, "F": 14}
	for col, width := range widths {
		if err := f.SetColWidth(RecordsSheet, col, col, width); err != nil {
			return err
		}
	}

	if err := writeHeader(f, RecordsSheet, styles.header, recordHeaders); err != nil {
		return err
	}

	for i, record := range records {
		row := i + 2
		values := []interface{}{
			record.Date.Format(dateLayout),
			string(record.Kind),
			record.Item,
			record.Quantity,
			categoryLabel(record),
		}
		if err := f.SetSheetRow(RecordsSheet, cell(1, row), &values); err != nil {
			return err
		}
		if err := f.SetCellFloat(RecordsSheet, cell(6, row), record.Cost.InexactFloat64(), 2, 64); err != nil {
			return err
		}
		if err := f.SetCellStyle(RecordsSheet, cell(1, row), cell(5, row), styles.data); err != nil {
			return err
		}
		if err := f.SetCellStyle(RecordsSheet, cell(6, row), cell(6, row), styles.amount); err != nil {
			return err
		}
	}

	summaryRow := len(records) + 2
	if err := f.SetCellValue(RecordsSheet, cell(1, summaryRow), fmt.Sprintf("Balance (%d records)", summary.RecordCount)); err != nil {
		return err
	}
	if err := f.MergeCell(RecordsSheet, cell(1, summaryRow), cell(5, summaryRow)); err != nil {
		return err
	}
	if err := f.SetCellFloat(RecordsSheet, cell(6, summaryRow), summary.NetBalance.InexactFloat64(), 2, 64); err != nil {
		return err
	}
	return f.SetCellStyle(RecordsSheet, cell(1, summaryRow), cell(6, summaryRow), styles.summary)
}

func writeCategories(f *excelize.File, styles sheetStyles, summary ledger.Summary) error {
	if err := f.SetColWidth(CategoriesSheet, "A", "B", 22); err != nil {
		return err
	}
	if err := writeHeader(f, CategoriesSheet, styles.header, []string{"Category", "Net"}); err != nil {
		return err
	}

	for i, total := range summary.ByCategory {
		row := i + 2
		if err := f.SetCellValue(CategoriesSheet, cell(1, row), total.Name); err != nil {
			return err
		}
		if err := f.SetCellFloat(CategoriesSheet, cell(2, row), total.Net.InexactFloat64(), 2, 64); err != nil {
			return err
		}
		if err := f.SetCellStyle(CategoriesSheet, cell(1, row), cell(1, row), styles.data); err != nil {
			return err
		}
		if err := f.SetCellStyle(CategoriesSheet, cell(2, row), cell(2, row), styles.amount); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, style int, headers []string) error {
	for i, header := range headers {
		if err := f.SetCellValue(sheet, cell(i+1, 1), header); err != nil {
			return err
		}
	}
	return f.SetCellStyle(sheet, cell(1, 1), cell(len(headers), 1), style)
}

func categoryLabel(record ledger.Record) string {
	if name := record.CategoryName(); name != "" {
		return name
	}
	return ledger.UncategorizedName
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
