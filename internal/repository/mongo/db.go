package mongo

import (
	"alcyxob/training-manager/internal/repository"
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second
)

// Connection is an open document store on MongoDB. Backend is ready to hand
// to repository.NewStore; Close releases the client.
type Connection struct {
	Backend repository.Backend
	client  *mongo.Client
}

// Open connects to uri, verifies the primary answers and prepares the
// document collection. An index failure is logged, not returned: the
// store works without it.
func Open(ctx context.Context, uri, database, collection string) (*Connection, error) {
	if database == "" {
		return nil, fmt.Errorf("mongo: database name is empty")
	}
	if collection == "" {
		collection = DefaultCollectionName
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	// Connect does not talk to the server.
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = disconnect(client)
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	db := client.Database(database)
	indexCtx, cancelIndex := context.WithTimeout(ctx, indexTimeout)
	defer cancelIndex()
	if err := EnsureDocumentIndexes(indexCtx, db.Collection(collection)); err != nil {
		log.Printf("WARN: Could not ensure indexes on %s.%s: %v", database, collection, err)
	}
	log.Printf("INFO: Connected to MongoDB (%s.%s)", database, collection)

	return &Connection{
		Backend: NewMongoDocumentBackend(db, collection),
		client:  client,
	}, nil
}

// Close disconnects the client. It is safe to call on a nil Connection.
func (c *Connection) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return disconnect(c.client)
}

func disconnect(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}
