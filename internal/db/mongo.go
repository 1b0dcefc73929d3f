package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectDB initializes and returns a MongoDB client and database instance.
// The handle is constructed once at process start and passed down explicitly;
// there is no lazily-initialized package-level connection.
func ConnectDB(uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping the primary node
	ctxPing, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(dbName)
	fmt.Println("Successfully connected to MongoDB!")

	return client, db, nil
}

// DisconnectDB closes the MongoDB client connection.
func DisconnectDB(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	fmt.Println("MongoDB connection closed.")
	return nil
}

// EnsureIndexes creates the indexes the workflows rely on. The unique index
// on appointments.email backs the one-active-appointment-per-email rule at
// the store level, underneath the workflow's own serialization.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	appointmentIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "date", Value: 1}, {Key: "slot", Value: 1}},
		},
	}
	if _, err := db.Collection("appointments").Indexes().CreateMany(ctx, appointmentIndexes); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}

	offerIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "candidateId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "expiresAt", Value: 1}}},
	}
	if _, err := db.Collection("offers").Indexes().CreateMany(ctx, offerIndexes); err != nil {
		return fmt.Errorf("failed to create offer indexes: %w", err)
	}

	return nil
}
