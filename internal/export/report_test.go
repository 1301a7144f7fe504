package export

import (
	"bytes"
	"testing"

	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func readSheet(t *testing.T, buf *bytes.Buffer, sheet string) [][]string {
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheet}, f.GetSheetList())
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestWriteSpenders(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSpenders(&buf, []repository.SpenderRow{{
		UserID:       1,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		CategoryID:   2,
		CategoryName: "Electronics",
		TotalSpent:   decimal.RequireFromString("1275.5"),
	}})
	require.NoError(t, err)

	rows := readSheet(t, &buf, SpendersSheet)
	require.Len(t, rows, 2)
	assert.Equal(t, "total_spent", rows[0][5])
	assert.Equal(t, []string{"1", "Ada", "Lovelace", "2", "Electronics", "1275.50"}, rows[1])
}

func TestWriteRepeatBuyers_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRepeatBuyers(&buf, nil))

	rows := readSheet(t, &buf, RepeatBuyersSheet)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"product_id", "product_name", "buyer_count"}, rows[0])
}
