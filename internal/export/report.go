// Package export renders report rows as XLSX workbooks.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	SpendersSheet     = "Spenders"
	RepeatBuyersSheet = "RepeatBuyers"
)

var (
	spendersHeader     = []interface{}{"user_id", "first_name", "last_name", "category_id", "category_name", "total_spent"}
	repeatBuyersHeader = []interface{}{"product_id", "product_name", "buyer_count"}
)

// WriteSpenders writes rows to w as a single-sheet workbook. Totals are written as
// fixed-point strings so no digits are lost to float cells.
func WriteSpenders(w io.Writer, rows []repository.SpenderRow) error {
	data := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		data = append(data, []interface{}{
			r.UserID, r.FirstName, r.LastName, r.CategoryID, r.CategoryName, r.TotalSpent.StringFixed(2),
		})
	}
	return write(w, SpendersSheet, spendersHeader, data)
}

func WriteRepeatBuyers(w io.Writer, rows []repository.RepeatBuyerRow) error {
	data := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		data = append(data, []interface{}{r.ProductID, r.ProductName, r.BuyerCount})
	}
	return write(w, RepeatBuyersSheet, repeatBuyersHeader, data)
}

func write(w io.Writer, sheet string, header []interface{}, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %s: %w", strconv.Itoa(i+2), err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
