package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ludmilpaulo/ClinicSystemMobile/internal/domain"
)

// MongoStorage keeps one basket document per user in the baskets
// collection, upserted wholesale on every save.
type MongoStorage struct {
	collection *mongo.Collection
}

type basketDocument struct {
	UserID    string            `bson:"user_id"`
	Lines     []domain.CartLine `bson:"lines"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{collection: db.Collection("baskets")}
}

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

func (m *MongoStorage) Load(ctx context.Context, userID string) (domain.Basket, error) {
	var doc basketDocument
	err := m.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Basket{}, ErrNotFound
	}
	if err != nil {
		return domain.Basket{}, fmt.Errorf("failed to load basket: %w", err)
	}
	return domain.Basket{Lines: doc.Lines}, nil
}

func (m *MongoStorage) Save(ctx context.Context, userID string, basket domain.Basket) error {
	doc := basketDocument{
		UserID:    userID,
		Lines:     basket.Lines,
		UpdatedAt: time.Now(),
	}

	filter := bson.M{"user_id": userID}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to save basket: %w", err)
	}
	return nil
}

func (m *MongoStorage) Delete(ctx context.Context, userID string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to delete basket: %w", err)
	}
	return nil
}

// CreateIndexes sets up the unique per-user index. Call once at startup.
func (m *MongoStorage) CreateIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := m.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
