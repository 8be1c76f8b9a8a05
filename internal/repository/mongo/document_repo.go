package mongo

import (
	"alcyxob/training-manager/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultCollectionName is used when the configuration leaves it blank.
const DefaultCollectionName = "documents"

// storedDocument is one key of the store. The JSON payload is kept as a
// string so the adapter sees exactly the bytes it wrote.
type storedDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// mongoDocumentBackend implements repository.Backend on a single collection.
type mongoDocumentBackend struct {
	collection *mongo.Collection
}

// NewMongoDocumentBackend creates a Backend backed by the named collection.
func NewMongoDocumentBackend(db *mongo.Database, collectionName string) repository.Backend {
	if collectionName == "" {
		collectionName = DefaultCollectionName
	}
	return &mongoDocumentBackend{
		collection: db.Collection(collectionName),
	}
}

// Get retrieves the document stored under key.
func (r *mongoDocumentBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var doc storedDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrKeyNotFound
		}
		return nil, err
	}
	return []byte(doc.Value), nil
}

// Put replaces (or inserts) the document stored under key.
func (r *mongoDocumentBackend) Put(ctx context.Context, key string, data []byte) error {
	doc := storedDocument{
		Key:       key,
		Value:     string(data),
		UpdatedAt: time.Now().UTC(),
	}
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 && result.UpsertedCount == 0 {
		return repository.ErrWriteFailed
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *mongoDocumentBackend) Delete(ctx context.Context, key string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

// Clear removes every key in the collection.
func (r *mongoDocumentBackend) Clear(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}

// EnsureDocumentIndexes creates necessary indexes for the documents collection.
func EnsureDocumentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Lets operators find recently written keys.
			Keys:    bson.D{{Key: "updatedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
