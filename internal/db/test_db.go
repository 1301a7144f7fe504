package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// ErrNoTestMongo is returned by SetupTestMongo when MONGO_TEST_URI is not set.
	ErrNoTestMongo = errors.New("MONGO_TEST_URI not set")
	// ErrNoTestPostgres is returned by SetupTestPostgres when POSTGRES_TEST_DSN is not set.
	ErrNoTestPostgres = errors.New("POSTGRES_TEST_DSN not set")
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	// Each connection to :memory: is its own database, so pin the pool to one.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get test database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(relationalModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return db, nil
}

// CleanupTestDB cleans up the test database
func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes all data from tables
func TruncateAllTables(db *gorm.DB) error {
	tables := RelationalTables()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", tables[i])).Error; err != nil {
			return err
		}
	}
	return nil
}

// SetupTestMongo connects to MONGO_TEST_URI and returns a uniquely named database that the
// returned cleanup drops. Transactions need the server to run as a replica set.
func SetupTestMongo() (*mongo.Database, func(), error) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		return nil, nil, ErrNoTestMongo
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to test document store: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping test document store: %w", err)
	}

	database := client.Database("shop_test_" + uuid.NewString()[:8])
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = database.Drop(ctx)
		_ = client.Disconnect(ctx)
	}
	return database, cleanup, nil
}

// SetupTestPostgres connects to POSTGRES_TEST_DSN (keyword form, e.g. "host=localhost
// user=shop dbname=shop_test") and migrates the schema into a fresh, uniquely named
// PostgreSQL schema that the returned cleanup drops. Unlike SQLite it runs transactions
// concurrently, so row locking can be tested against it.
func SetupTestPostgres() (*gorm.DB, func(), error) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		return nil, nil, ErrNoTestPostgres
	}
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	admin, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to test database: %w", err)
	}
	closeAdmin := func() { CleanupTestDB(admin) }

	schema := "shop_test_" + uuid.NewString()[:8]
	if err := admin.Exec("CREATE SCHEMA " + schema).Error; err != nil {
		closeAdmin()
		return nil, nil, fmt.Errorf("failed to create test schema: %w", err)
	}
	dropSchema := func() {
		if err := admin.Exec("DROP SCHEMA " + schema + " CASCADE").Error; err != nil {
			log.Printf("Failed to drop test schema %s: %v", schema, err)
		}
		closeAdmin()
	}

	conn, err := gorm.Open(postgres.Open(dsn+" search_path="+schema), gormCfg)
	if err != nil {
		dropSchema()
		return nil, nil, fmt.Errorf("failed to connect to test schema: %w", err)
	}
	if err := conn.AutoMigrate(relationalModels()...); err != nil {
		CleanupTestDB(conn)
		dropSchema()
		return nil, nil, fmt.Errorf("failed to migrate test schema: %w", err)
	}

	cleanup := func() {
		CleanupTestDB(conn)
		dropSchema()
	}
	return conn, cleanup, nil
}
