// Package mongodb holds the connection bootstrap for the MongoDB driver.
package mongodb

import (
	"context"
	"os"

	"github.com/auctioncore/auction-engine/configuration/logger"
	mongo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	MONGODB_URI      = "MONGODB_URI"
	MONGODB_DATABASE = "MONGODB_DATABASE"
)

// NewMongoDBConnection connects to MongoDB and returns both the client
// (needed for session/transaction support) and the target database.
func NewMongoDBConnection(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
	mongoURI := os.Getenv(MONGODB_URI)
	mongoDatabase := os.Getenv(MONGODB_DATABASE)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Error("error connecting to MongoDB", err)
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		logger.Error("error pinging MongoDB", err)
		return nil, nil, err
	}

	return client, client.Database(mongoDatabase), nil
}
