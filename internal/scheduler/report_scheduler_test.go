package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/ikkim/dualstore-shop/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReports struct {
	spendersErr error
	repeatErr   error
	threshold   decimal.Decimal
}

func (r *stubReports) Spenders(_ context.Context, threshold decimal.Decimal) ([]repository.SpenderRow, error) {
	r.threshold = threshold
	if r.spendersErr != nil {
		return nil, r.spendersErr
	}
	return []repository.SpenderRow{
		{UserID: 1, FirstName: "Ada", LastName: "Lovelace", CategoryID: 1, CategoryName: "Electronics", TotalSpent: decimal.RequireFromString("1275.00")},
	}, nil
}

func (r *stubReports) RepeatBuyers(context.Context) ([]repository.RepeatBuyerRow, error) {
	if r.repeatErr != nil {
		return nil, r.repeatErr
	}
	return []repository.RepeatBuyerRow{{ProductID: 2, ProductName: "Mouse", BuyerCount: 2}}, nil
}

func setupSchedulerTest(t *testing.T, reports *stubReports) (*ReportScheduler, string) {
	root := t.TempDir()
	s := NewReportScheduler(reports, storage.NewDirSink(root), decimal.NewFromInt(1000))
	s.now = func() time.Time { return time.Date(2026, 6, 15, 23, 30, 0, 0, time.UTC) }
	return s, root
}

func TestRunOnce_ExportsBothReports(t *testing.T) {
	reports := &stubReports{}
	s, root := setupSchedulerTest(t, reports)

	locations, err := s.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "2026-06-15", "spenders.xlsx"),
		filepath.Join(root, "2026-06-15", "repeat-buyers.xlsx"),
	}, locations)
	assert.Equal(t, "1000", reports.threshold.String())

	for _, loc := range locations {
		info, err := os.Stat(loc)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}
}

func TestRunOnce_SkipsUnsupportedReport(t *testing.T) {
	s, root := setupSchedulerTest(t, &stubReports{spendersErr: repository.ErrUnsupported})

	locations, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "2026-06-15", "repeat-buyers.xlsx")}, locations)
}

func TestRunOnce_StopsOnFailure(t *testing.T) {
	boom := errors.New("connection reset")
	s, _ := setupSchedulerTest(t, &stubReports{repeatErr: boom})

	locations, err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, locations, 1)
}

func TestStart_RejectsBadSchedule(t *testing.T) {
	s, _ := setupSchedulerTest(t, &stubReports{})

	assert.Error(t, s.Start("every night"))
}

func TestStartStop(t *testing.T) {
	s, _ := setupSchedulerTest(t, &stubReports{})

	require.NoError(t, s.Start("0 3 * * *"))
	s.Stop()
}
