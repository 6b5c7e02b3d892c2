package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/harentsoaR/medicare-api/internal/repository"
)

// Connect opens a MongoDB client and verifies it with a ping.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetRegistry(Registry()))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return client, nil
}

// Indexes lists the indexes each collection needs.
func Indexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		repository.UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		repository.DoctorsCollection: {
			{Keys: bson.D{{Key: "specialty", Value: 1}, {Key: "active", Value: 1}}},
		},
		repository.AppointmentsCollection: {
			{Keys: bson.D{{Key: "doctorId", Value: 1}, {Key: "startTime", Value: 1}}},
			{Keys: bson.D{{Key: "patientId", Value: 1}, {Key: "startTime", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		repository.BillsCollection: {
			{Keys: bson.D{{Key: "patientId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		repository.NotificationsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "read", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		repository.ActivityCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "action", Value: 1}}},
		},
		repository.FeedbackCollection: {
			{Keys: bson.D{{Key: "doctorId", Value: 1}}},
		},
		repository.EngagementCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
		repository.SessionsCollection: {
			{Keys: bson.D{{Key: "appointmentId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "doctorId", Value: 1}}},
			{Keys: bson.D{{Key: "patientId", Value: 1}}},
		},
	}
}

// EnsureIndexes creates every index from Indexes. Existing indexes are left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	for coll, models := range Indexes() {
		names, err := db.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
		logger.Info("indexes ensured", zap.String("collection", coll), zap.Strings("indexes", names))
	}
	return nil
}
