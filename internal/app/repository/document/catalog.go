package document

import (
	"context"
	"fmt"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var byID = bson.D{{Key: "_id", Value: 1}}

func (s *Store) ListProducts(ctx context.Context) ([]model.Product, error) {
	s.log.Debug("Listing products")

	categories, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}

	cur, err := s.products().Find(ctx, bson.M{}, options.Find().SetSort(byID))
	if err != nil {
		s.log.Error("Failed to list products", err)
		return nil, fmt.Errorf("list products: %w", err)
	}
	var docs []model.ProductDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]model.Product, 0, len(docs))
	for _, doc := range docs {
		p, err := productFromDocument(doc, categories)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", doc.ID, err)
		}
		products = append(products, p)
	}

	s.log.Debug("Products listed", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (s *Store) categoryIndex(ctx context.Context) (map[uint]model.Category, error) {
	cur, err := s.categories().Find(ctx, bson.M{})
	if err != nil {
		s.log.Error("Failed to list categories", err)
		return nil, fmt.Errorf("list categories: %w", err)
	}
	var docs []model.CategoryDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	index := make(map[uint]model.Category, len(docs))
	for _, doc := range docs {
		index[doc.ID] = categoryFromDocument(doc)
	}
	return index, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	s.log.Debug("Listing users")

	opts := options.Find().
		SetSort(byID).
		SetProjection(bson.M{"orders": 0, "cart_products": 0})
	cur, err := s.users().Find(ctx, bson.M{}, opts)
	if err != nil {
		s.log.Error("Failed to list users", err)
		return nil, fmt.Errorf("list users: %w", err)
	}
	var docs []model.UserDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]model.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, userFromDocument(doc))
	}

	s.log.Debug("Users listed", map[string]interface{}{
		"count": len(users),
	})
	return users, nil
}

// productIndex loads the products with the given ids.
func (s *Store) productIndex(ctx context.Context, ids []uint) (map[uint]model.ProductDocument, error) {
	cur, err := s.products().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	var docs []model.ProductDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	index := make(map[uint]model.ProductDocument, len(docs))
	for _, doc := range docs {
		index[doc.ID] = doc
	}
	return index, nil
}
