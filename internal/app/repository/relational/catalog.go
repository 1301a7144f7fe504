package relational

import (
	"context"
	"fmt"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"gorm.io/gorm"
)

func (s *Store) ListProducts(ctx context.Context) ([]model.Product, error) {
	s.log.Debug("Listing products")

	products := []model.Product{}
	err := s.db.WithContext(ctx).
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("categories.category_id ASC")
		}).
		Order("product_id ASC").
		Find(&products).Error
	if err != nil {
		s.log.Error("Failed to list products", err)
		return nil, fmt.Errorf("list products: %w", err)
	}

	s.log.Debug("Products listed", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	s.log.Debug("Listing users")

	users := []model.User{}
	if err := s.db.WithContext(ctx).Order("user_id ASC").Find(&users).Error; err != nil {
		s.log.Error("Failed to list users", err)
		return nil, fmt.Errorf("list users: %w", err)
	}

	s.log.Debug("Users listed", map[string]interface{}{
		"count": len(users),
	})
	return users, nil
}
