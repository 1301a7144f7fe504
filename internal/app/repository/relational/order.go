package relational

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) PlaceOrder(ctx context.Context, input repository.PlaceOrderInput) (uint, error) {
	if !input.PaymentStatus.Valid() {
		return 0, repository.ErrInvalidPaymentStatus
	}
	placedAt := input.PlacedAt
	if placedAt.IsZero() {
		placedAt = time.Now()
	}
	placedAt = placedAt.UTC()

	s.log.Debug("Placing order", map[string]interface{}{
		"user_id":        input.UserID,
		"payment_status": input.PaymentStatus,
	})

	var orderID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The user row serializes PlaceOrder per user: a waiting call re-reads the cart after
		// the first commits and finds it empty.
		var owner model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("user_id").
			Where("user_id = ?", input.UserID).
			First(&owner).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrEmptyCart
			}
			return fmt.Errorf("lock user: %w", err)
		}

		var cart []model.CartProduct
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", input.UserID).
			Order("product_id ASC").
			Find(&cart).Error; err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if len(cart) == 0 {
			return repository.ErrEmptyCart
		}

		productIDs := make([]uint, len(cart))
		for i, line := range cart {
			productIDs[i] = line.ProductID
		}

		// Lock in id order so concurrent orders over the same products cannot deadlock.
		var products []model.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id IN ?", productIDs).
			Order("product_id ASC").
			Find(&products).Error; err != nil {
			return fmt.Errorf("lock products: %w", err)
		}
		byID := make(map[uint]model.Product, len(products))
		for _, p := range products {
			byID[p.ProductID] = p
		}

		total := decimal.Zero
		lines := make([]model.OrderProduct, 0, len(cart))
		for _, line := range cart {
			p, ok := byID[line.ProductID]
			if !ok {
				return fmt.Errorf("cart line %d: %w", line.ProductID, repository.ErrProductNotFound)
			}
			if s.policy == repository.StockPolicyReject && p.Quantity < line.Quantity {
				return fmt.Errorf("product %d has %d, cart wants %d: %w",
					p.ProductID, p.Quantity, line.Quantity, repository.ErrInsufficientStock)
			}
			total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			lines = append(lines, model.OrderProduct{ProductID: line.ProductID, Quantity: line.Quantity})
		}

		order := model.Order{
			UserID:     input.UserID,
			DatePlaced: placedAt,
			Status:     model.OrderStatusPending,
		}
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for i := range lines {
			lines[i].OrderID = order.OrderID
		}
		if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
			return fmt.Errorf("create order lines: %w", err)
		}

		for _, line := range lines {
			if err := tx.Model(&model.Product{}).
				Where("product_id = ?", line.ProductID).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", line.Quantity)).Error; err != nil {
				return fmt.Errorf("decrement stock of product %d: %w", line.ProductID, err)
			}
		}

		invoice := model.Invoice{
			OrderID:       order.OrderID,
			TotalCost:     total.Round(model.MoneyScale),
			DateIssued:    placedAt,
			PaymentStatus: input.PaymentStatus,
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		if err := tx.Where("user_id = ?", input.UserID).Delete(&model.CartProduct{}).Error; err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		orderID = order.OrderID
		return nil
	})
	if err != nil {
		if repository.IsDomainError(err) {
			s.log.Debug("Order rejected", map[string]interface{}{
				"user_id": input.UserID,
				"reason":  err.Error(),
			})
		} else {
			s.log.Error("Failed to place order", err, map[string]interface{}{
				"user_id": input.UserID,
			})
		}
		return 0, err
	}

	s.log.Debug("Order placed", map[string]interface{}{
		"user_id":  input.UserID,
		"order_id": orderID,
	})
	return orderID, nil
}

func (s *Store) CancelOrder(ctx context.Context, userID, orderID uint) error {
	s.log.Debug("Canceling order", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_id = ? AND user_id = ?", orderID, userID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrOrderNotFound
			}
			return fmt.Errorf("load order: %w", err)
		}

		// Compare-and-set: only one of two racing cancels sees a row affected.
		res := tx.Model(&model.Order{}).
			Where("order_id = ? AND status IN ?", orderID, model.CancelableStatuses()).
			Update("status", model.OrderStatusCanceled)
		if res.Error != nil {
			return fmt.Errorf("update order status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return repository.ErrInvalidState
		}

		var lines []model.OrderProduct
		if err := tx.Where("order_id = ?", orderID).Order("product_id ASC").Find(&lines).Error; err != nil {
			return fmt.Errorf("load order lines: %w", err)
		}
		for _, line := range lines {
			if err := tx.Model(&model.Product{}).
				Where("product_id = ?", line.ProductID).
				UpdateColumn("quantity", gorm.Expr("quantity + ?", line.Quantity)).Error; err != nil {
				return fmt.Errorf("restock product %d: %w", line.ProductID, err)
			}
		}
		return nil
	})
	if err != nil {
		if repository.IsDomainError(err) {
			s.log.Debug("Cancel rejected", map[string]interface{}{
				"order_id": orderID,
				"reason":   err.Error(),
			})
		} else {
			s.log.Error("Failed to cancel order", err, map[string]interface{}{
				"order_id": orderID,
			})
		}
		return err
	}

	s.log.Debug("Order canceled", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})
	return nil
}

func (s *Store) GetOrderDetail(ctx context.Context, orderID uint) (*repository.OrderDetail, error) {
	s.log.Debug("Finding order detail", map[string]interface{}{
		"order_id": orderID,
	})

	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("OrderProducts", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_id ASC")
		}).
		Preload("OrderProducts.Product").
		Preload("Invoice").
		Where("order_id = ?", orderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}
		s.log.Error("Failed to find order detail", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, fmt.Errorf("get order detail: %w", err)
	}

	detail := &repository.OrderDetail{
		OrderID:    order.OrderID,
		UserID:     order.UserID,
		DatePlaced: order.DatePlaced,
		Status:     order.Status,
		Lines:      make([]repository.OrderLine, 0, len(order.OrderProducts)),
	}
	for _, op := range order.OrderProducts {
		detail.Lines = append(detail.Lines, repository.OrderLine{
			ProductID:   op.ProductID,
			ProductName: op.Product.Name,
			Quantity:    op.Quantity,
			UnitPrice:   op.Product.Price,
		})
	}
	if order.Invoice != nil {
		detail.PaymentStatus = order.Invoice.PaymentStatus
		detail.TotalCost = order.Invoice.TotalCost
	}
	return detail, nil
}
