package relational

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/ikkim/dualstore-shop/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const racers = 8

// setupPostgresStoreTest runs against a real PostgreSQL so transactions interleave.
func setupPostgresStoreTest(t *testing.T) (*gorm.DB, *Store) {
	testDB, cleanup, err := db.SetupTestPostgres()
	if errors.Is(err, db.ErrNoTestPostgres) {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	require.NoError(t, err)
	t.Cleanup(cleanup)
	require.NoError(t, db.Seed(testDB, db.DemoData(testNow)))
	return testDB, NewStore(testDB, repository.StockPolicyReject)
}

// race starts n calls of fn at once and collects their errors.
func race(n int, fn func() error) []error {
	start := make(chan struct{})
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = fn()
		}(i)
	}
	close(start)
	wg.Wait()
	return errs
}

func countOK(t *testing.T, errs []error, allowed error) int {
	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, allowed)
	}
	return ok
}

func TestPostgresStore_PlaceOrder_ConcurrentSameCart(t *testing.T) {
	testDB, store := setupPostgresStoreTest(t)
	ctx := context.Background()

	// user 1 holds one Novel (product 3, stock 50) in the cart
	errs := race(racers, func() error {
		_, err := store.PlaceOrder(ctx, repository.PlaceOrderInput{
			UserID:        1,
			PaymentStatus: model.PaymentStatusPaid,
			PlacedAt:      testNow,
		})
		return err
	})

	assert.Equal(t, 1, countOK(t, errs, repository.ErrEmptyCart))
	assert.Equal(t, 49, stock(t, testDB, 3))
	assert.Equal(t, int64(8), count(t, testDB, "orders"))
	assert.Equal(t, int64(8), count(t, testDB, "invoices"))
	assert.Equal(t, int64(1), count(t, testDB, "cart_products"))
}

func TestPostgresStore_CancelOrder_Concurrent(t *testing.T) {
	testDB, store := setupPostgresStoreTest(t)
	ctx := context.Background()

	// order 2 is Pending with one Mouse (product 2, stock 100)
	errs := race(racers, func() error {
		return store.CancelOrder(ctx, 1, 2)
	})

	assert.Equal(t, 1, countOK(t, errs, repository.ErrInvalidState))
	assert.Equal(t, 101, stock(t, testDB, 2))

	detail, err := store.GetOrderDetail(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCanceled, detail.Status)
}

func TestPostgresStore_PlaceAndCancelShareStock(t *testing.T) {
	testDB, store := setupPostgresStoreTest(t)
	ctx := context.Background()

	// user 3 orders two Cables while user 2 cancels order 4 (three Cables, one Novel)
	var wg sync.WaitGroup
	var placeErr, cancelErr error
	start := make(chan struct{})
	wg.Add(2)
	go func() {
		defer wg.Done()
		<-start
		_, placeErr = store.PlaceOrder(ctx, repository.PlaceOrderInput{UserID: 3, PaymentStatus: model.PaymentStatusUnpaid})
	}()
	go func() {
		defer wg.Done()
		<-start
		cancelErr = store.CancelOrder(ctx, 2, 4)
	}()
	close(start)
	wg.Wait()

	require.NoError(t, placeErr)
	require.NoError(t, cancelErr)
	assert.Equal(t, 200-2+3, stock(t, testDB, 4))
	assert.Equal(t, 51, stock(t, testDB, 3))
}
