package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/ArnavSingha/ApniSec/internal/domain/model"
)

const (
	usersCollection  = "users"
	issuesCollection = "issues"
	notesCollection  = "notes"
)

type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client and verifies it with a ping within timeout.
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo uri is empty")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetConnectTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Client{client: client, db: client.Database(database)}, nil
}

func (c *Client) Database() *mongo.Database {
	return c.db
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique email index and the owner lookups.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	if _, err := c.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}

	ownerIndex := mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}}
	if _, err := c.db.Collection(issuesCollection).Indexes().CreateOne(ctx, ownerIndex); err != nil {
		return fmt.Errorf("create issues owner index: %w", err)
	}
	if _, err := c.db.Collection(notesCollection).Indexes().CreateOne(ctx, ownerIndex); err != nil {
		return fmt.Errorf("create notes owner index: %w", err)
	}
	return nil
}

// parseID maps malformed hex ids to ErrInvalidID so callers can treat them as missing.
func parseID(raw string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		return bson.ObjectID{}, model.ErrInvalidID
	}
	return id, nil
}
