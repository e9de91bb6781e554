package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/duynhne/form-service/config"
)

// ConnectMongo creates a MongoDB client and returns the forms collection.
//
// mongo.Connect does not wait for the server, so a bad URI fails here but an
// unreachable server only shows up as the ping error. In that case client and
// collection are still returned: the driver keeps reconnecting in the
// background and requests fail at the store call until it succeeds.
func ConnectMongo(ctx context.Context, cfg config.StoreConfig) (*mongo.Client, *mongo.Collection, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return client, coll, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return client, coll, nil
}
