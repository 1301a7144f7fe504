package document

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// inTransaction runs fn in a multi-document transaction. The server must be a replica set.
func (s *Store) inTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	sess, err := s.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (s *Store) PlaceOrder(ctx context.Context, input repository.PlaceOrderInput) (uint, error) {
	if !input.PaymentStatus.Valid() {
		return 0, repository.ErrInvalidPaymentStatus
	}
	placedAt := input.PlacedAt
	if placedAt.IsZero() {
		placedAt = time.Now()
	}
	placedAt = placedAt.UTC().Truncate(time.Millisecond)

	s.log.Debug("Placing order", map[string]interface{}{
		"user_id":        input.UserID,
		"payment_status": input.PaymentStatus,
	})

	var orderID uint
	err := s.inTransaction(ctx, func(sc mongo.SessionContext) error {
		var user model.UserDocument
		err := s.users().FindOne(sc,
			bson.M{"_id": input.UserID},
			options.FindOne().SetProjection(bson.M{"cart_products": 1}),
		).Decode(&user)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.ErrEmptyCart
		}
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if len(user.CartProducts) == 0 {
			return repository.ErrEmptyCart
		}
		items := user.CartProducts
		sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

		products, err := s.productIndex(sc, lineProductIDs(user.CartProducts))
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, item := range user.CartProducts {
			p, ok := products[item.ProductID]
			if !ok {
				return fmt.Errorf("cart line %d: %w", item.ProductID, repository.ErrProductNotFound)
			}
			price, err := model.FromDecimal128(p.Price)
			if err != nil {
				return err
			}
			total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))

			filter := bson.M{"_id": item.ProductID}
			if s.policy == repository.StockPolicyReject {
				filter["quantity"] = bson.M{"$gte": item.Quantity}
			}
			res, err := s.products().UpdateOne(sc, filter, bson.M{"$inc": bson.M{"quantity": -item.Quantity}})
			if err != nil {
				return fmt.Errorf("decrement stock of product %d: %w", item.ProductID, err)
			}
			if res.MatchedCount == 0 {
				return fmt.Errorf("product %d cannot cover %d: %w",
					item.ProductID, item.Quantity, repository.ErrInsufficientStock)
			}
		}

		id, err := s.seq.Next(sc, repository.SequenceOrderID)
		if err != nil {
			return err
		}
		invoiceID, err := s.seq.Next(sc, repository.SequenceInvoiceID)
		if err != nil {
			return err
		}
		totalCost, err := model.ToDecimal128(total)
		if err != nil {
			return err
		}

		order := model.OrderDocument{
			OrderID:       uint(id),
			DatePlaced:    placedAt,
			Status:        model.OrderStatusPending,
			OrderProducts: user.CartProducts,
			Invoice: &model.InvoiceDocument{
				InvoiceID:     uint(invoiceID),
				TotalCost:     totalCost,
				DateIssued:    placedAt,
				PaymentStatus: input.PaymentStatus,
			},
		}
		if _, err := s.users().UpdateOne(sc,
			bson.M{"_id": input.UserID},
			bson.M{
				"$push": bson.M{"orders": order},
				"$set":  bson.M{"cart_products": bson.A{}},
			},
		); err != nil {
			return fmt.Errorf("append order: %w", err)
		}

		orderID = uint(id)
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

// embeddedOrder is a user document projected down to the one order matched by "orders.$".
type embeddedOrder struct {
	UserID uint                  `bson:"_id"`
	Orders []model.OrderDocument `bson:"orders"`
}

func (s *Store) findOrder(ctx context.Context, filter bson.M) (uint, *model.OrderDocument, error) {
	var doc embeddedOrder
	err := s.users().FindOne(ctx, filter,
		options.FindOne().SetProjection(bson.M{"orders.$": 1}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil, repository.ErrOrderNotFound
	}
	if err != nil {
		return 0, nil, fmt.Errorf("find order: %w", err)
	}
	if len(doc.Orders) == 0 {
		return 0, nil, repository.ErrOrderNotFound
	}
	return doc.UserID, &doc.Orders[0], nil
}

func (s *Store) CancelOrder(ctx context.Context, userID, orderID uint) error {
	s.log.Debug("Canceling order", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	err := s.inTransaction(ctx, func(sc mongo.SessionContext) error {
		_, order, err := s.findOrder(sc, bson.M{"_id": userID, "orders.order_id": orderID})
		if err != nil {
			return err
		}

		// Compare-and-set on the embedded status.
		res, err := s.users().UpdateOne(sc,
			bson.M{
				"_id": userID,
				"orders": bson.M{"$elemMatch": bson.M{
					"order_id":     orderID,
					"order_status": bson.M{"$in": model.CancelableStatuses()},
				}},
			},
			bson.M{"$set": bson.M{"orders.$.order_status": model.OrderStatusCanceled}},
		)
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		if res.MatchedCount == 0 {
			return repository.ErrInvalidState
		}

		for _, item := range order.OrderProducts {
			if _, err := s.products().UpdateOne(sc,
				bson.M{"_id": item.ProductID},
				bson.M{"$inc": bson.M{"quantity": item.Quantity}},
			); err != nil {
				return fmt.Errorf("restock product %d: %w", item.ProductID, err)
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

	userID, order, err := s.findOrder(ctx, bson.M{"orders.order_id": orderID})
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error("Failed to find order detail", err, map[string]interface{}{
				"order_id": orderID,
			})
		}
		return nil, err
	}

	products, err := s.productIndex(ctx, lineProductIDs(order.OrderProducts))
	if err != nil {
		return nil, err
	}
	return orderDetailFromDocument(userID, *order, products)
}

func orderDetailFromDocument(userID uint, order model.OrderDocument, products map[uint]model.ProductDocument) (*repository.OrderDetail, error) {
	detail := &repository.OrderDetail{
		OrderID:    order.OrderID,
		UserID:     userID,
		DatePlaced: order.DatePlaced,
		Status:     order.Status,
		Lines:      make([]repository.OrderLine, 0, len(order.OrderProducts)),
	}
	for _, item := range order.OrderProducts {
		line := repository.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity}
		if p, ok := products[item.ProductID]; ok {
			price, err := model.FromDecimal128(p.Price)
			if err != nil {
				return nil, err
			}
			line.ProductName = p.Name
			line.UnitPrice = price
		}
		detail.Lines = append(detail.Lines, line)
	}
	sort.Slice(detail.Lines, func(i, j int) bool { return detail.Lines[i].ProductID < detail.Lines[j].ProductID })

	if order.Invoice != nil {
		total, err := model.FromDecimal128(order.Invoice.TotalCost)
		if err != nil {
			return nil, err
		}
		detail.PaymentStatus = order.Invoice.PaymentStatus
		detail.TotalCost = total
	}
	return detail, nil
}
