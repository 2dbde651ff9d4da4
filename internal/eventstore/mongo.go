// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package eventstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tomtom215/crowdwatch/internal/config"
	"github.com/tomtom215/crowdwatch/internal/logging"
	"github.com/tomtom215/crowdwatch/internal/models"
)

// MongoBackend queries MongoDB collections that use the same names and
// document layout as the Firestore deployment.
type MongoBackend struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoBackend connects to store.MongoURI and verifies the connection.
func NewMongoBackend(ctx context.Context, store config.StoreConfig) (*MongoBackend, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(store.MongoURI).
		SetServerSelectionTimeout(store.QueryTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logging.Info().Str("database", store.MongoDatabase).Msg("MongoDB event store connected")

	return &MongoBackend{client: client, db: client.Database(store.MongoDatabase)}, nil
}

func (b *MongoBackend) Name() string { return config.StoreBackendMongo }

// Find runs find({}).sort({field: dir}).limit(n).
func (b *MongoBackend) Find(ctx context.Context, spec FindSpec) ([]models.Sample, error) {
	dir := 1
	if spec.Descending {
		dir = -1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: spec.OrderBy, Value: dir}}).
		SetLimit(int64(spec.Limit))

	cursor, err := b.db.Collection(spec.Collection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	samples := make([]models.Sample, 0, spec.Limit)
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		s, err := sampleFromFields(documentID(doc["_id"]), doc, spec.ValueField)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

func (b *MongoBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx, readpref.Primary())
}

func (b *MongoBackend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return b.client.Disconnect(ctx)
}

func documentID(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}
