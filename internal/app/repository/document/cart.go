package document

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const addToCartAttempts = 5

func (s *Store) GetCart(ctx context.Context, userID uint) ([]repository.CartLine, error) {
	s.log.Debug("Finding cart lines", map[string]interface{}{
		"user_id": userID,
	})

	var user model.UserDocument
	err := s.users().FindOne(ctx,
		bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{"cart_products": 1}),
	).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []repository.CartLine{}, nil
	}
	if err != nil {
		s.log.Error("Failed to find cart lines", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, fmt.Errorf("get cart: %w", err)
	}

	lines, err := s.cartLines(ctx, user.CartProducts)
	if err != nil {
		return nil, err
	}

	s.log.Debug("Cart lines found", map[string]interface{}{
		"user_id": userID,
		"count":   len(lines),
	})
	return lines, nil
}

// cartLines joins items with their products, ordered by product id. Items whose product no
// longer exists are left out.
func (s *Store) cartLines(ctx context.Context, items []model.LineItemDocument) ([]repository.CartLine, error) {
	lines := make([]repository.CartLine, 0, len(items))
	if len(items) == 0 {
		return lines, nil
	}

	products, err := s.productIndex(ctx, lineProductIDs(items))
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			continue
		}
		price, err := model.FromDecimal128(p.Price)
		if err != nil {
			return nil, err
		}
		lines = append(lines, repository.CartLine{
			ProductID:   item.ProductID,
			ProductName: p.Name,
			Quantity:    item.Quantity,
			Price:       price,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
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

	n, err := s.products().CountDocuments(ctx, bson.M{"_id": productID}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("lookup product: %w", err)
	}
	if n == 0 {
		return repository.ErrProductNotFound
	}

	for attempt := 1; attempt <= addToCartAttempts; attempt++ {
		// Existing line: increment in place.
		res, err := s.users().UpdateOne(ctx,
			bson.M{"_id": userID, "cart_products.product_id": productID},
			bson.M{"$inc": bson.M{"cart_products.$.quantity": quantity}},
		)
		if err != nil {
			return s.cartFailure(err, userID, productID)
		}
		if res.MatchedCount == 1 {
			return nil
		}

		// No line yet: push one, unless a concurrent add pushed it first.
		res, err = s.users().UpdateOne(ctx,
			bson.M{"_id": userID, "cart_products.product_id": bson.M{"$ne": productID}},
			bson.M{"$push": bson.M{"cart_products": model.LineItemDocument{ProductID: productID, Quantity: quantity}}},
		)
		if err != nil {
			return s.cartFailure(err, userID, productID)
		}
		if res.MatchedCount == 1 {
			return nil
		}

		n, err := s.users().CountDocuments(ctx, bson.M{"_id": userID}, options.Count().SetLimit(1))
		if err != nil {
			return s.cartFailure(err, userID, productID)
		}
		if n == 0 {
			return repository.ErrUserNotFound
		}
		s.log.Debug("Cart line raced, retrying", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"attempt":    attempt,
		})
	}
	return fmt.Errorf("add to cart: line for user %d product %d kept changing", userID, productID)
}

func (s *Store) cartFailure(err error, userID, productID uint) error {
	s.log.Error("Failed to add cart line", err, map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return fmt.Errorf("add to cart: %w", err)
}

func lineProductIDs(items []model.LineItemDocument) []uint {
	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	return ids
}
