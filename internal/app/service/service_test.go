package service

import (
	"context"
	"testing"
	"time"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/ikkim/dualstore-shop/internal/app/repository/relational"
	"github.com/ikkim/dualstore-shop/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func setupServiceTest(t *testing.T) *relational.Store {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	require.NoError(t, db.Seed(testDB, db.DemoData(testNow)))
	return relational.NewStore(testDB, repository.StockPolicyReject)
}

func TestCatalogService(t *testing.T) {
	svc := NewCatalogService(setupServiceTest(t))
	ctx := context.Background()

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 4)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestCartService_AddToCart(t *testing.T) {
	svc := NewCartService(setupServiceTest(t))
	ctx := context.Background()

	assert.ErrorIs(t, svc.AddToCart(ctx, 2, 1, -1), repository.ErrInvalidQuantity)
	assert.ErrorIs(t, svc.AddToCart(ctx, 2, 42, 1), repository.ErrNotFound)

	require.NoError(t, svc.AddToCart(ctx, 2, 4, 1))
	require.NoError(t, svc.AddToCart(ctx, 2, 4, 2))

	lines, err := svc.GetCart(ctx, 2)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestOrderService_PlaceOrder(t *testing.T) {
	store := setupServiceTest(t)
	svc := NewOrderService(store, WithClock(fixedClock))
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, 1, "Refunded")
	assert.ErrorIs(t, err, repository.ErrInvalidPaymentStatus)

	_, err = svc.PlaceOrder(ctx, 2, model.PaymentStatusPaid)
	assert.ErrorIs(t, err, repository.ErrEmptyCart)

	orderID, err := svc.PlaceOrder(ctx, 1, model.PaymentStatusUnpaid)
	require.NoError(t, err)

	detail, err := svc.GetOrderDetail(ctx, orderID)
	require.NoError(t, err)
	assert.True(t, detail.DatePlaced.Equal(testNow))
	assert.Equal(t, model.PaymentStatusUnpaid, detail.PaymentStatus)
	assert.True(t, decimal.RequireFromString("12.50").Equal(detail.TotalCost))
}

func TestOrderService_CancelOrder(t *testing.T) {
	svc := NewOrderService(setupServiceTest(t), WithClock(fixedClock))
	ctx := context.Background()

	require.NoError(t, svc.CancelOrder(ctx, 1, 2))
	assert.ErrorIs(t, svc.CancelOrder(ctx, 1, 2), repository.ErrInvalidState)
	assert.ErrorIs(t, svc.CancelOrder(ctx, 3, 1), repository.ErrNotFound)

	_, err := svc.GetOrderDetail(ctx, 404)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReportService_Relational(t *testing.T) {
	svc := NewReportService(setupServiceTest(t), WithClock(fixedClock))
	ctx := context.Background()

	spenders, err := svc.Spenders(ctx, decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.Len(t, spenders, 1)
	assert.Equal(t, "Ada", spenders[0].FirstName)

	repeat, err := svc.RepeatBuyers(ctx)
	require.NoError(t, err)
	require.Len(t, repeat, 2)
	assert.Equal(t, uint(2), repeat[0].ProductID)
}

// windowRecorder captures the windows a ReportService asks for.
type windowRecorder struct {
	since []time.Time
}

func (w *windowRecorder) SpendersOverThreshold(_ context.Context, since time.Time, _ decimal.Decimal) ([]repository.SpenderRow, error) {
	w.since = append(w.since, since)
	return nil, repository.ErrUnsupported
}

func (w *windowRecorder) RepeatBuyerProducts(_ context.Context, since time.Time) ([]repository.RepeatBuyerRow, error) {
	w.since = append(w.since, since)
	return []repository.RepeatBuyerRow{}, nil
}

func TestReportService_Windows(t *testing.T) {
	rec := &windowRecorder{}
	svc := NewReportService(rec, WithClock(fixedClock))
	ctx := context.Background()

	_, err := svc.Spenders(ctx, decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, repository.ErrUnsupported)
	_, err = svc.RepeatBuyers(ctx)
	require.NoError(t, err)

	require.Len(t, rec.since, 2)
	assert.Equal(t, time.Date(2025, 12, 15, 12, 0, 0, 0, time.UTC), rec.since[0])
	assert.Equal(t, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC), rec.since[1])
}

func TestStatusService(t *testing.T) {
	status, err := NewStatusService(setupServiceTest(t)).Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, repository.ModeSQL, status.Mode)
	assert.Len(t, status.Collections, 9)

	status, err = NewStatusService(repository.NewUninitializedStore()).Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, repository.ModeNotInitialized, status.Mode)
	assert.Empty(t, status.Collections)
}
