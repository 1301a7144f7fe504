package db

import (
	"context"
	"fmt"

	"github.com/ikkim/dualstore-shop/config"
	appLogger "github.com/ikkim/dualstore-shop/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
)

// InitializeMongo connects to the document store and pings the primary.
func InitializeMongo(ctx context.Context, cfg *config.MongoConfig) error {
	appLogger.Info("Connecting to document store", map[string]interface{}{
		"database": cfg.Database,
		"timeout":  cfg.Timeout.String(),
	})

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetTimeout(cfg.Timeout))
	if err != nil {
		return fmt.Errorf("failed to connect to document store: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to ping document store: %w", err)
	}

	MongoClient = client
	MongoDB = client.Database(cfg.Database)

	appLogger.Info("Document store connection established successfully", map[string]interface{}{
		"database": cfg.Database,
	})
	return nil
}

// CloseMongo disconnects the document store client.
func CloseMongo(ctx context.Context) error {
	if MongoClient == nil {
		return nil
	}
	return MongoClient.Disconnect(ctx)
}

// GetMongoDB returns the document database handle
func GetMongoDB() *mongo.Database {
	return MongoDB
}
