package document_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ikkim/dualstore-shop/internal/app/migrator"
	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/ikkim/dualstore-shop/internal/app/repository/document"
	"github.com/ikkim/dualstore-shop/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

// setupStoreTest fills a fresh database with the demo data through the migrator.
func setupStoreTest(t *testing.T, policy repository.StockPolicy) (*mongo.Database, *document.Store) {
	docDB, cleanup, err := db.SetupTestMongo()
	if errors.Is(err, db.ErrNoTestMongo) {
		t.Skip("MONGO_TEST_URI not set")
	}
	require.NoError(t, err)
	t.Cleanup(cleanup)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)
	require.NoError(t, db.Seed(testDB, db.DemoData(testNow)))

	_, err = migrator.New(testDB, docDB, nil).Migrate(context.Background())
	require.NoError(t, err)

	return docDB, document.NewStore(docDB, nil, policy)
}

func stock(t *testing.T, docDB *mongo.Database, productID uint) int {
	var p model.ProductDocument
	require.NoError(t, docDB.Collection(model.CollectionProducts).
		FindOne(context.Background(), bson.M{"_id": productID}).Decode(&p))
	return p.Quantity
}

func TestDocumentStore_ListProducts(t *testing.T) {
	_, store := setupStoreTest(t, repository.StockPolicyReject)

	products, err := store.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 4)
	assert.Equal(t, uint(1), products[0].ProductID)
	require.Len(t, products[1].Categories, 2)
	assert.Equal(t, "Accessories", products[1].Categories[1].Name)
	assert.True(t, decimal.RequireFromString("1200").Equal(products[0].Price))
}

func TestDocumentStore_ListUsers(t *testing.T) {
	_, store := setupStoreTest(t, repository.StockPolicyReject)

	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "Grace", users[2].FirstName)
}

func TestDocumentStore_AddToCart(t *testing.T) {
	_, store := setupStoreTest(t, repository.StockPolicyReject)
	ctx := context.Background()

	require.NoError(t, store.AddToCart(ctx, 2, 1, 2))
	require.NoError(t, store.AddToCart(ctx, 2, 1, 3))

	lines, err := store.GetCart(ctx, 2)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)

	assert.ErrorIs(t, store.AddToCart(ctx, 99, 1, 1), repository.ErrUserNotFound)
	assert.ErrorIs(t, store.AddToCart(ctx, 2, 99, 1), repository.ErrProductNotFound)
	assert.ErrorIs(t, store.AddToCart(ctx, 2, 1, 0), repository.ErrInvalidQuantity)
}

func TestDocumentStore_AddToCart_Concurrent(t *testing.T) {
	_, store := setupStoreTest(t, repository.StockPolicyReject)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.AddToCart(ctx, 2, 4, 1))
		}()
	}
	wg.Wait()

	lines, err := store.GetCart(ctx, 2)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 20, lines[0].Quantity)
}

func TestDocumentStore_PlaceAndCancel(t *testing.T) {
	docDB, store := setupStoreTest(t, repository.StockPolicyReject)
	ctx := context.Background()

	require.NoError(t, store.AddToCart(ctx, 2, 3, 2))
	orderID, err := store.PlaceOrder(ctx, repository.PlaceOrderInput{
		UserID:        2,
		PaymentStatus: model.PaymentStatusPaid,
		PlacedAt:      testNow,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(8), orderID)
	assert.Equal(t, 48, stock(t, docDB, 3))

	cart, err := store.GetCart(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, cart)

	detail, err := store.GetOrderDetail(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, detail.Status)
	assert.True(t, decimal.RequireFromString("25.00").Equal(detail.TotalCost))

	assert.ErrorIs(t, store.CancelOrder(ctx, 1, orderID), repository.ErrOrderNotFound)
	require.NoError(t, store.CancelOrder(ctx, 2, orderID))
	assert.Equal(t, 50, stock(t, docDB, 3))
	assert.ErrorIs(t, store.CancelOrder(ctx, 2, orderID), repository.ErrInvalidState)
	assert.Equal(t, 50, stock(t, docDB, 3))
}

func userOrders(t *testing.T, docDB *mongo.Database, userID uint) []model.OrderDocument {
	var u model.UserDocument
	require.NoError(t, docDB.Collection(model.CollectionUsers).
		FindOne(context.Background(), bson.M{"_id": userID}).Decode(&u))
	return u.Orders
}

// raceCalls starts n calls of fn at once and returns how many succeeded; every failure must
// match allowed.
func raceCalls(t *testing.T, n int, allowed error, fn func() error) int {
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

func TestDocumentStore_PlaceOrder_ConcurrentSameCart(t *testing.T) {
	docDB, store := setupStoreTest(t, repository.StockPolicyReject)
	ctx := context.Background()

	// user 1 holds one Novel (product 3, stock 50) in the cart
	ok := raceCalls(t, 8, repository.ErrEmptyCart, func() error {
		_, err := store.PlaceOrder(ctx, repository.PlaceOrderInput{
			UserID:        1,
			PaymentStatus: model.PaymentStatusPaid,
			PlacedAt:      testNow,
		})
		return err
	})

	assert.Equal(t, 1, ok)
	assert.Equal(t, 49, stock(t, docDB, 3))
	assert.Len(t, userOrders(t, docDB, 1), 3)
}

func TestDocumentStore_CancelOrder_Concurrent(t *testing.T) {
	docDB, store := setupStoreTest(t, repository.StockPolicyReject)
	ctx := context.Background()

	// order 2 is Pending with one Mouse (product 2, stock 100)
	ok := raceCalls(t, 8, repository.ErrInvalidState, func() error {
		return store.CancelOrder(ctx, 1, 2)
	})

	assert.Equal(t, 1, ok)
	assert.Equal(t, 101, stock(t, docDB, 2))

	detail, err := store.GetOrderDetail(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCanceled, detail.Status)
}

func TestDocumentStore_PlaceOrder_Rejects(t *testing.T) {
	docDB, store := setupStoreTest(t, repository.StockPolicyReject)
	ctx := context.Background()

	_, err := store.PlaceOrder(ctx, repository.PlaceOrderInput{UserID: 2, PaymentStatus: model.PaymentStatusPaid})
	assert.ErrorIs(t, err, repository.ErrEmptyCart)

	require.NoError(t, store.AddToCart(ctx, 2, 1, 11))
	_, err = store.PlaceOrder(ctx, repository.PlaceOrderInput{UserID: 2, PaymentStatus: model.PaymentStatusPaid})
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	assert.Equal(t, "product 1 cannot cover 11: insufficient stock", err.Error())
	assert.Equal(t, 10, stock(t, docDB, 1))

	cart, err := store.GetCart(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, cart, 1)
}

func TestDocumentStore_RepeatBuyerProducts(t *testing.T) {
	_, store := setupStoreTest(t, repository.StockPolicyReject)

	rows, err := store.RepeatBuyerProducts(context.Background(), testNow.AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, []repository.RepeatBuyerRow{
		{ProductID: 2, ProductName: "Mouse", BuyerCount: 2},
		{ProductID: 3, ProductName: "Novel", BuyerCount: 1},
	}, rows)
}

func TestDocumentStore_Stats(t *testing.T) {
	_, store := setupStoreTest(t, repository.StockPolicyReject)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []repository.CollectionStat{
		{Name: model.CollectionUsers, Entries: 3},
		{Name: model.CollectionProducts, Entries: 4},
		{Name: model.CollectionCategories, Entries: 3},
		{Name: model.CollectionCounters, Entries: 2},
	}, stats)
}

func TestCounterSequence(t *testing.T) {
	docDB, cleanup, err := db.SetupTestMongo()
	if errors.Is(err, db.ErrNoTestMongo) {
		t.Skip("MONGO_TEST_URI not set")
	}
	require.NoError(t, err)
	defer cleanup()
	ctx := context.Background()

	seq := document.NewCounterSequence(docDB)
	n, err := seq.Next(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, seq.Seed(ctx, "test", 40))
	require.NoError(t, seq.Seed(ctx, "test", 10))
	n, err = seq.Next(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, int64(41), n)
}
