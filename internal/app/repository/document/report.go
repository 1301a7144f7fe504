package document

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SpendersOverThreshold is only offered by the relational backend.
func (s *Store) SpendersOverThreshold(context.Context, time.Time, decimal.Decimal) ([]repository.SpenderRow, error) {
	return nil, repository.ErrUnsupported
}

// repeatBuyersPipeline runs over the users collection. Distinct orders are counted with
// $addToSet so a product listed twice in one order still counts once.
func repeatBuyersPipeline(since time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$orders"}},
		{{Key: "$match", Value: bson.M{"orders.date_placed": bson.M{"$gte": since.UTC()}}}},
		{{Key: "$unwind", Value: "$orders.order_products"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "user", Value: "$_id"},
				{Key: "product", Value: "$orders.order_products.product_id"},
			}},
			{Key: "orders", Value: bson.M{"$addToSet": "$orders.order_id"}},
		}}},
		{{Key: "$match", Value: bson.M{"$expr": bson.M{"$gte": bson.A{bson.M{"$size": "$orders"}, 2}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$_id.product"},
			{Key: "buyer_count", Value: bson.M{"$sum": 1}},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: model.CollectionProducts},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "product"},
		}}},
		{{Key: "$unwind", Value: "$product"}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "product_id", Value: "$_id"},
			{Key: "product_name", Value: "$product.product_name"},
			{Key: "buyer_count", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "buyer_count", Value: -1},
			{Key: "product_id", Value: 1},
		}}},
	}
}

type repeatBuyerResult struct {
	ProductID   uint   `bson:"product_id"`
	ProductName string `bson:"product_name"`
	BuyerCount  int64  `bson:"buyer_count"`
}

func (s *Store) RepeatBuyerProducts(ctx context.Context, since time.Time) ([]repository.RepeatBuyerRow, error) {
	s.log.Debug("Running repeat buyers report", map[string]interface{}{
		"since": since,
	})

	cur, err := s.users().Aggregate(ctx, repeatBuyersPipeline(since))
	if err != nil {
		s.log.Error("Failed to run repeat buyers report", err)
		return nil, fmt.Errorf("repeat buyers report: %w", err)
	}
	var results []repeatBuyerResult
	if err := cur.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode repeat buyers report: %w", err)
	}

	rows := make([]repository.RepeatBuyerRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, repository.RepeatBuyerRow(r))
	}

	s.log.Debug("Repeat buyers report finished", map[string]interface{}{
		"rows": len(rows),
	})
	return rows, nil
}
