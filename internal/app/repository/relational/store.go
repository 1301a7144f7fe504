// Package relational implements repository.Store on a normalized SQL schema through gorm.
package relational

import (
	"context"
	"fmt"

	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/ikkim/dualstore-shop/internal/db"
	"github.com/ikkim/dualstore-shop/pkg/logger"
	"gorm.io/gorm"
)

var _ repository.Store = (*Store)(nil)

type Store struct {
	db     *gorm.DB
	policy repository.StockPolicy
	log    *logger.Logger
}

func NewStore(conn *gorm.DB, policy repository.StockPolicy) *Store {
	if policy == "" {
		policy = repository.StockPolicyReject
	}
	return &Store{
		db:     conn,
		policy: policy,
		log:    logger.Component("store", string(repository.ModeSQL)),
	}
}

func (s *Store) Mode() repository.Mode { return repository.ModeSQL }

func (s *Store) Stats(ctx context.Context) ([]repository.CollectionStat, error) {
	tables := db.RelationalTables()
	stats := make([]repository.CollectionStat, 0, len(tables))
	for _, table := range tables {
		var n int64
		if err := s.db.WithContext(ctx).Table(table).Count(&n).Error; err != nil {
			s.log.Error("Failed to count table rows", err, map[string]interface{}{
				"table": table,
			})
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		stats = append(stats, repository.CollectionStat{Name: table, Entries: n})
	}
	return stats, nil
}
