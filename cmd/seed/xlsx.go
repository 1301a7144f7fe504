package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/ikkim/dualstore-shop/internal/db"
	"github.com/ikkim/dualstore-shop/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Workbook layout. Every sheet has a header row.
const (
	sheetCategories = "categories" // category_id, name, description
	sheetProducts   = "products"   // product_id, name, price, quantity, description, category_ids (e.g. "1;2")
	sheetUsers      = "users"      // user_id, first_name, last_name, email, password (plain text is hashed)
)

func readDatasetFromXLSX(filePath string) (db.Dataset, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return db.Dataset{}, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()
	return readDataset(f)
}

func readDataset(f *excelize.File) (db.Dataset, error) {
	var data db.Dataset

	categories, err := sheetRows(f, sheetCategories, 2)
	if err != nil {
		return data, err
	}
	for i, row := range categories {
		id, err := parseID(row[0])
		if err != nil {
			return data, rowError(sheetCategories, i, err)
		}
		data.Categories = append(data.Categories, model.Category{
			CategoryID:  id,
			Name:        row[1],
			Description: cell(row, 2),
		})
	}

	products, err := sheetRows(f, sheetProducts, 4)
	if err != nil {
		return data, err
	}
	for i, row := range products {
		id, err := parseID(row[0])
		if err != nil {
			return data, rowError(sheetProducts, i, err)
		}
		price, err := decimal.NewFromString(row[2])
		if err != nil || price.IsNegative() {
			return data, rowError(sheetProducts, i, fmt.Errorf("invalid price %q", row[2]))
		}
		qty, err := strconv.Atoi(row[3])
		if err != nil {
			return data, rowError(sheetProducts, i, fmt.Errorf("invalid quantity %q", row[3]))
		}
		data.Products = append(data.Products, model.Product{
			ProductID:   id,
			Name:        row[1],
			Price:       price.Round(model.MoneyScale),
			Quantity:    qty,
			Description: cell(row, 4),
		})
		for _, raw := range strings.Split(cell(row, 5), ";") {
			if raw = strings.TrimSpace(raw); raw == "" {
				continue
			}
			categoryID, err := parseID(raw)
			if err != nil {
				return data, rowError(sheetProducts, i, err)
			}
			data.ProductCategories = append(data.ProductCategories, model.ProductCategory{
				ProductID:  id,
				CategoryID: categoryID,
			})
		}
	}

	users, err := sheetRows(f, sheetUsers, 5)
	if err != nil {
		return data, err
	}
	now := time.Now().UTC()
	for i, row := range users {
		id, err := parseID(row[0])
		if err != nil {
			return data, rowError(sheetUsers, i, err)
		}
		password, err := util.EnsureHashed(row[4])
		if err != nil {
			return data, rowError(sheetUsers, i, err)
		}
		data.Users = append(data.Users, model.User{
			UserID:         id,
			FirstName:      row[1],
			LastName:       row[2],
			Email:          row[3],
			Password:       password,
			DateRegistered: now,
		})
	}

	return data, nil
}

// sheetRows returns the trimmed data rows of sheet, skipping the header and blank rows.
func sheetRows(f *excelize.File, sheet string, minCols int) ([][]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var out [][]string
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		if len(row) < minCols {
			return nil, rowError(sheet, i, fmt.Errorf("want at least %d columns, got %d", minCols, len(row)))
		}
		for j := range row {
			row[j] = strings.TrimSpace(row[j])
		}
		out = append(out, row)
	}
	return out, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}

// rowError numbers data rows the way a spreadsheet does: the header is row 1.
func rowError(sheet string, i int, err error) error {
	return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
}
