// Package document implements repository.Store on MongoDB, with each user's orders and
// cart embedded in the user document.
package document

import (
	"context"
	"fmt"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/ikkim/dualstore-shop/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repository.Store = (*Store)(nil)

type Store struct {
	db     *mongo.Database
	seq    repository.Sequence
	policy repository.StockPolicy
	log    *logger.Logger
}

// NewStore returns a Store over database. A nil seq uses the counters collection.
func NewStore(database *mongo.Database, seq repository.Sequence, policy repository.StockPolicy) *Store {
	if seq == nil {
		seq = NewCounterSequence(database)
	}
	if policy == "" {
		policy = repository.StockPolicyReject
	}
	return &Store{
		db:     database,
		seq:    seq,
		policy: policy,
		log:    logger.Component("store", string(repository.ModeNoSQL)),
	}
}

func (s *Store) Mode() repository.Mode { return repository.ModeNoSQL }

func (s *Store) users() *mongo.Collection      { return s.db.Collection(model.CollectionUsers) }
func (s *Store) products() *mongo.Collection   { return s.db.Collection(model.CollectionProducts) }
func (s *Store) categories() *mongo.Collection { return s.db.Collection(model.CollectionCategories) }

// Collections lists the collections this backend owns.
func Collections() []string {
	return []string{
		model.CollectionUsers,
		model.CollectionProducts,
		model.CollectionCategories,
		model.CollectionCounters,
	}
}

func (s *Store) Stats(ctx context.Context) ([]repository.CollectionStat, error) {
	names := Collections()
	stats := make([]repository.CollectionStat, 0, len(names))
	for _, name := range names {
		n, err := s.db.Collection(name).CountDocuments(ctx, bson.M{})
		if err != nil {
			s.log.Error("Failed to count documents", err, map[string]interface{}{
				"collection": name,
			})
			return nil, fmt.Errorf("count %s: %w", name, err)
		}
		stats = append(stats, repository.CollectionStat{Name: name, Entries: n})
	}
	return stats, nil
}
