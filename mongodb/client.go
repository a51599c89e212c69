package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"go.pavemaster.dev/integrations/log"
)

// Client owns a connected MongoDB client and the database the store lives in.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	logger log.Logger
}

// Connect dials uri, pings the primary and selects dbName.
func Connect(ctx context.Context, uri, dbName string, logger log.Logger) (*Client, error) {
	opts := options.Client().ApplyURI(uri)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB primary: %w", err)
	}

	logger.Info(ctx, "MongoDB client initialized", log.Fields{"database": dbName})
	return &Client{client: client, db: client.Database(dbName), logger: logger}, nil
}

// Database returns the selected database.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Ping is used by the health check.
func (c *Client) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.client.Ping(pingCtx, readpref.Primary())
}

// Close disconnects the client.
func (c *Client) Close(ctx context.Context) error {
	c.logger.Info(ctx, "Closing MongoDB connection")
	return c.client.Disconnect(ctx)
}
