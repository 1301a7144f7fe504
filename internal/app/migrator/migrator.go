// Package migrator copies the relational data set into the document store.
package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/ikkim/dualstore-shop/internal/app/repository/document"
	"github.com/ikkim/dualstore-shop/internal/db"
	"github.com/ikkim/dualstore-shop/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

type Migrator struct {
	sql *gorm.DB
	doc *mongo.Database
	seq repository.Sequence
	log *logger.Logger
}

// New returns a Migrator. A nil seq seeds the counters collection of doc.
func New(sqlDB *gorm.DB, docDB *mongo.Database, seq repository.Sequence) *Migrator {
	if seq == nil {
		seq = document.NewCounterSequence(docDB)
	}
	return &Migrator{
		sql: sqlDB,
		doc: docDB,
		seq: seq,
		log: logger.WithContext(map[string]interface{}{"component": "migrator"}),
	}
}

type Report struct {
	Categories int           `json:"categories"`
	Products   int           `json:"products"`
	Users      int           `json:"users"`
	Orders     int           `json:"orders"`
	Duration   time.Duration `json:"duration"`
}

// Migrate replaces every document collection with a copy of the relational data. A failed
// run can leave the collections partially written; running it again starts from scratch.
func (m *Migrator) Migrate(ctx context.Context) (*Report, error) {
	started := time.Now()
	m.log.Info("Starting migration to document store")

	data, err := m.snapshot(ctx)
	if err != nil {
		m.log.Error("Failed to read relational data", err)
		return nil, err
	}

	docs, err := BuildDocuments(data)
	if err != nil {
		m.log.Error("Failed to build documents", err)
		return nil, err
	}

	if err := m.reset(ctx); err != nil {
		return nil, err
	}

	if err := m.insert(ctx, model.CollectionCategories, toAny(docs.Categories)); err != nil {
		return nil, err
	}
	if err := m.insert(ctx, model.CollectionProducts, toAny(docs.Products)); err != nil {
		return nil, err
	}
	if err := m.insert(ctx, model.CollectionUsers, toAny(docs.Users)); err != nil {
		return nil, err
	}

	if err := m.seq.Seed(ctx, repository.SequenceOrderID, int64(docs.MaxOrderID)); err != nil {
		return nil, err
	}
	if err := m.seq.Seed(ctx, repository.SequenceInvoiceID, int64(docs.MaxInvoiceID)); err != nil {
		return nil, err
	}

	report := &Report{
		Categories: len(docs.Categories),
		Products:   len(docs.Products),
		Users:      len(docs.Users),
		Orders:     len(data.Orders),
		Duration:   time.Since(started),
	}
	m.log.Info("Migration to document store completed", map[string]interface{}{
		"categories":  report.Categories,
		"products":    report.Products,
		"users":       report.Users,
		"orders":      report.Orders,
		"duration_ms": report.Duration.Milliseconds(),
	})
	return report, nil
}

// DropRelational drops every relational table. Only call it once the document store is live.
func (m *Migrator) DropRelational(ctx context.Context) error {
	return db.DropRelational(m.sql.WithContext(ctx))
}

// snapshotTxOptions returns the options that give every read of the snapshot the same view.
// PostgreSQL needs REPEATABLE READ for that; SQLite transactions already are serializable.
func snapshotTxOptions(dialect string) *sql.TxOptions {
	if dialect != "postgres" {
		return nil
	}
	return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
}

// snapshot reads all tables inside one read-only transaction at a single point in time.
func (m *Migrator) snapshot(ctx context.Context) (db.Dataset, error) {
	var data db.Dataset
	opts := snapshotTxOptions(m.sql.Dialector.Name())
	err := m.sql.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			table string
			query *gorm.DB
			dest  interface{}
		}{
			{"categories", tx.Order("category_id"), &data.Categories},
			{"products", tx.Order("product_id"), &data.Products},
			{"product_categories", tx.Order("product_id, category_id"), &data.ProductCategories},
			{"accessories", tx.Order("base_product_id, accessory_product_id"), &data.Accessories},
			{"users", tx.Order("user_id"), &data.Users},
			{"orders", tx.Preload("OrderProducts").Preload("Invoice").Order("order_id"), &data.Orders},
			{"cart_products", tx.Order("user_id, product_id"), &data.CartProducts},
		}
		for _, step := range steps {
			if err := step.query.Find(step.dest).Error; err != nil {
				return fmt.Errorf("read %s: %w", step.table, err)
			}
		}
		return nil
	}, opts)
	return data, err
}

func (m *Migrator) reset(ctx context.Context) error {
	for _, name := range document.Collections() {
		if err := m.doc.Collection(name).Drop(ctx); err != nil {
			m.log.Error("Failed to drop collection", err, map[string]interface{}{
				"collection": name,
			})
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	return nil
}

func (m *Migrator) insert(ctx context.Context, collection string, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	if _, err := m.doc.Collection(collection).InsertMany(ctx, docs); err != nil {
		m.log.Error("Failed to insert documents", err, map[string]interface{}{
			"collection": collection,
			"count":      len(docs),
		})
		return fmt.Errorf("insert %s: %w", collection, err)
	}
	m.log.Debug("Documents inserted", map[string]interface{}{
		"collection": collection,
		"count":      len(docs),
	})
	return nil
}

func toAny[T any](docs []T) []interface{} {
	out := make([]interface{}, len(docs))
	for i := range docs {
		out[i] = docs[i]
	}
	return out
}
