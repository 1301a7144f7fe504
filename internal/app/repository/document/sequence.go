package document

import (
	"context"
	"fmt"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repository.Sequence = (*CounterSequence)(nil)

// CounterSequence keeps one {_id: name, seq} document per sequence. Called with a session
// context it takes part in that transaction.
type CounterSequence struct {
	coll *mongo.Collection
}

func NewCounterSequence(database *mongo.Database) *CounterSequence {
	return &CounterSequence{coll: database.Collection(model.CollectionCounters)}
}

func (c *CounterSequence) Next(ctx context.Context, name string) (int64, error) {
	var doc model.CounterDocument
	err := c.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s: %w", name, err)
	}
	return doc.Seq, nil
}

func (c *CounterSequence) Seed(ctx context.Context, name string, floor int64) error {
	_, err := c.coll.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$max": bson.M{"seq": floor}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("seed %s: %w", name, err)
	}
	return nil
}
