package relational

import (
	"context"
	"fmt"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) GetCart(ctx context.Context, userID uint) ([]repository.CartLine, error) {
	s.log.Debug("Finding cart lines", map[string]interface{}{
		"user_id": userID,
	})

	lines := []repository.CartLine{}
	err := s.db.WithContext(ctx).
		Table("cart_products AS cp").
		Select("cp.product_id, p.name AS product_name, cp.quantity, p.price").
		Joins("JOIN products AS p ON p.product_id = cp.product_id").
		Where("cp.user_id = ?", userID).
		Order("cp.product_id ASC").
		Scan(&lines).Error
	if err != nil {
		s.log.Error("Failed to find cart lines", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, fmt.Errorf("get cart: %w", err)
	}

	s.log.Debug("Cart lines found", map[string]interface{}{
		"user_id": userID,
		"count":   len(lines),
	})
	return lines, nil
}

func (s *Store) AddToCart(ctx context.Context, userID, productID uint, quantity int) error {
	if quantity < 1 {
		return repository.ErrInvalidQuantity
	}

	s.log.Debug("Adding cart line", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	conn := s.db.WithContext(ctx)
	if err := requireRow(conn, &model.User{}, "user_id", userID, repository.ErrUserNotFound); err != nil {
		return err
	}
	if err := requireRow(conn, &model.Product{}, "product_id", productID, repository.ErrProductNotFound); err != nil {
		return err
	}

	// A single upsert statement, so concurrent adds to one line serialize on the row.
	line := model.CartProduct{UserID: userID, ProductID: productID, Quantity: quantity}
	err := conn.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("cart_products.quantity + excluded.quantity"),
		}),
	}).Create(&line).Error
	if err != nil {
		s.log.Error("Failed to add cart line", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return fmt.Errorf("add to cart: %w", err)
	}

	s.log.Debug("Cart line added", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return nil
}

// requireRow returns notFound unless a row of m has column = id.
func requireRow(conn *gorm.DB, m interface{}, column string, id uint, notFound error) error {
	var n int64
	if err := conn.Model(m).Where(column+" = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("lookup %s: %w", column, err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
