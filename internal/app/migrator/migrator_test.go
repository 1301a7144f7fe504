package migrator

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/ikkim/dualstore-shop/internal/app/repository/document"
	"github.com/ikkim/dualstore-shop/internal/app/repository/relational"
	"github.com/ikkim/dualstore-shop/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

func setupMigratorTest(t *testing.T) (*gorm.DB, *mongo.Database, *Migrator) {
	docDB, cleanup, err := db.SetupTestMongo()
	if errors.Is(err, db.ErrNoTestMongo) {
		t.Skip("MONGO_TEST_URI not set")
	}
	require.NoError(t, err)
	t.Cleanup(cleanup)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	require.NoError(t, db.Seed(testDB, db.DemoData(testNow)))

	return testDB, docDB, New(testDB, docDB, nil)
}

func dumpCollection(t *testing.T, docDB *mongo.Database, name string) []bson.Raw {
	ctx := context.Background()
	cur, err := docDB.Collection(name).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	require.NoError(t, err)
	var out []bson.Raw
	require.NoError(t, cur.All(ctx, &out))
	return out
}

func TestMigrator_Migrate(t *testing.T) {
	_, docDB, m := setupMigratorTest(t)
	ctx := context.Background()

	report, err := m.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Categories)
	assert.Equal(t, 4, report.Products)
	assert.Equal(t, 3, report.Users)
	assert.Equal(t, 7, report.Orders)

	var counter model.CounterDocument
	require.NoError(t, docDB.Collection(model.CollectionCounters).
		FindOne(ctx, bson.M{"_id": repository.SequenceInvoiceID}).Decode(&counter))
	assert.Equal(t, int64(107), counter.Seq)
}

func TestMigrator_MigrateTwiceIsIdentical(t *testing.T) {
	_, docDB, m := setupMigratorTest(t)
	ctx := context.Background()

	_, err := m.Migrate(ctx)
	require.NoError(t, err)
	first := map[string][]bson.Raw{}
	for _, name := range document.Collections() {
		first[name] = dumpCollection(t, docDB, name)
	}

	_, err = m.Migrate(ctx)
	require.NoError(t, err)
	for _, name := range document.Collections() {
		assert.Equal(t, first[name], dumpCollection(t, docDB, name), name)
	}
}

func TestMigrator_BackendsAgree(t *testing.T) {
	testDB, docDB, m := setupMigratorTest(t)
	ctx := context.Background()

	_, err := m.Migrate(ctx)
	require.NoError(t, err)

	sqlStore := relational.NewStore(testDB, repository.StockPolicyReject)
	docStore := document.NewStore(docDB, nil, repository.StockPolicyReject)

	since := testNow.AddDate(-1, 0, 0)
	want, err := sqlStore.RepeatBuyerProducts(ctx, since)
	require.NoError(t, err)
	got, err := docStore.RepeatBuyerProducts(ctx, since)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	for _, userID := range []uint{1, 2, 3} {
		want, err := sqlStore.GetCart(ctx, userID)
		require.NoError(t, err)
		got, err := docStore.GetCart(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, len(want), len(got))
		for i := range want {
			assert.Equal(t, want[i].ProductID, got[i].ProductID)
			assert.True(t, want[i].Price.Equal(got[i].Price))
		}
	}

	wantDetail, err := sqlStore.GetOrderDetail(ctx, 4)
	require.NoError(t, err)
	gotDetail, err := docStore.GetOrderDetail(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, wantDetail.Status, gotDetail.Status)
	assert.True(t, wantDetail.TotalCost.Equal(gotDetail.TotalCost))
	assert.Len(t, gotDetail.Lines, len(wantDetail.Lines))

	// Counters continue after the copied ids.
	require.NoError(t, docStore.AddToCart(ctx, 2, 1, 1))
	orderID, err := docStore.PlaceOrder(ctx, repository.PlaceOrderInput{UserID: 2, PaymentStatus: model.PaymentStatusPaid})
	require.NoError(t, err)
	assert.Equal(t, uint(8), orderID)
}

func TestMigrator_DropRelational(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)
	require.NoError(t, db.Seed(testDB, db.DemoData(testNow)))

	m := &Migrator{sql: testDB}
	require.NoError(t, m.DropRelational(context.Background()))
	for _, table := range db.RelationalTables() {
		assert.False(t, testDB.Migrator().HasTable(table), table)
	}
}

func TestSnapshotTxOptions(t *testing.T) {
	opts := snapshotTxOptions("postgres")
	require.NotNil(t, opts)
	assert.Equal(t, sql.LevelRepeatableRead, opts.Isolation)
	assert.True(t, opts.ReadOnly)

	assert.Nil(t, snapshotTxOptions("sqlite"))
}

func TestMigrator_Snapshot(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)
	require.NoError(t, db.Seed(testDB, db.DemoData(testNow)))

	data, err := (&Migrator{sql: testDB}).snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, data.Orders, 7)
	assert.Len(t, data.CartProducts, 2)
	require.NotNil(t, data.Orders[0].Invoice)
	assert.Len(t, data.Orders[0].OrderProducts, 2)
}
