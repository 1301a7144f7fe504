package relational

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/shopspring/decimal"
)

// A product in several categories contributes its full line amount to each of them.
const spendersQuery = `
SELECT u.user_id, u.first_name, u.last_name, c.category_id, c.name AS category_name,
       SUM(op.quantity * p.price) AS total_spent
FROM users AS u
JOIN orders AS o ON o.user_id = u.user_id
JOIN order_products AS op ON op.order_id = o.order_id
JOIN products AS p ON p.product_id = op.product_id
JOIN product_categories AS pc ON pc.product_id = p.product_id
JOIN categories AS c ON c.category_id = pc.category_id
WHERE o.date_placed >= ?
GROUP BY u.user_id, u.first_name, u.last_name, c.category_id, c.name
HAVING SUM(op.quantity * p.price) > CAST(? AS NUMERIC)
ORDER BY total_spent DESC, u.user_id ASC, c.category_id ASC`

// The order_products key is (order_id, product_id), so rows per (user, product) are distinct orders.
const repeatBuyersQuery = `
SELECT p.product_id, p.name AS product_name, COUNT(*) AS buyer_count
FROM (
    SELECT o.user_id, op.product_id
    FROM orders AS o
    JOIN order_products AS op ON op.order_id = o.order_id
    WHERE o.date_placed >= ?
    GROUP BY o.user_id, op.product_id
    HAVING COUNT(DISTINCT o.order_id) >= 2
) AS rb
JOIN products AS p ON p.product_id = rb.product_id
GROUP BY p.product_id, p.name
ORDER BY buyer_count DESC, p.product_id ASC`

func (s *Store) SpendersOverThreshold(ctx context.Context, since time.Time, threshold decimal.Decimal) ([]repository.SpenderRow, error) {
	s.log.Debug("Running spenders report", map[string]interface{}{
		"since":     since,
		"threshold": threshold.String(),
	})

	rows := []repository.SpenderRow{}
	if err := s.db.WithContext(ctx).Raw(spendersQuery, since.UTC(), threshold.String()).Scan(&rows).Error; err != nil {
		s.log.Error("Failed to run spenders report", err)
		return nil, fmt.Errorf("spenders report: %w", err)
	}
	for i := range rows {
		rows[i].TotalSpent = rows[i].TotalSpent.Round(model.MoneyScale)
	}

	s.log.Debug("Spenders report finished", map[string]interface{}{
		"rows": len(rows),
	})
	return rows, nil
}

func (s *Store) RepeatBuyerProducts(ctx context.Context, since time.Time) ([]repository.RepeatBuyerRow, error) {
	s.log.Debug("Running repeat buyers report", map[string]interface{}{
		"since": since,
	})

	rows := []repository.RepeatBuyerRow{}
	if err := s.db.WithContext(ctx).Raw(repeatBuyersQuery, since.UTC()).Scan(&rows).Error; err != nil {
		s.log.Error("Failed to run repeat buyers report", err)
		return nil, fmt.Errorf("repeat buyers report: %w", err)
	}

	s.log.Debug("Repeat buyers report finished", map[string]interface{}{
		"rows": len(rows),
	})
	return rows, nil
}
