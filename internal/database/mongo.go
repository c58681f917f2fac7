package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/smart-form-builder-api/internal/config"
	"github.com/smart-form-builder-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names shared by every store
const (
	CollectionUsers       = "users"
	CollectionForms       = "forms"
	CollectionSubmissions = "submissions"
)

// Mongo wraps a connected client and the application database
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
	log    zerolog.Logger
}

// NewMongo connects to MongoDB, pings the primary and ensures indexes
func NewMongo(cfg *config.StoreConfig, log zerolog.Logger) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().ApplyURI(cfg.MongoURL)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	m := &Mongo{
		Client: client,
		DB:     client.Database(cfg.MongoDatabase),
		log:    log.With().Str("component", "database").Str("driver", "mongo").Logger(),
	}

	if err := m.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	m.log.Info().
		Str("database", cfg.MongoDatabase).
		Msg("Database connection established")

	return m, nil
}

// EnsureIndexes creates the unique email index and the submission lookup indexes
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.DB.Collection(CollectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users.email index: %w", err)
	}

	_, err = m.DB.Collection(CollectionSubmissions).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "formId", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create submissions.formId index: %w", err)
	}

	_, err = m.DB.Collection(CollectionSubmissions).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "formId", Value: 1}, {Key: "data." + models.EmailKey, Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create submissions.data.email index: %w", err)
	}
	return nil
}

// HealthCheck pings the primary
func (m *Mongo) HealthCheck(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
