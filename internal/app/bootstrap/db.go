// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/remindhub/internal/app/store/docstore"
	"github.com/dalemusser/remindhub/internal/app/store/docstore/memdoc"
	"github.com/dalemusser/remindhub/internal/app/store/docstore/mongodoc"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB builds the document store selected by store_backend. For the
// mongo backend it connects and pings before returning; startup aborts on an
// unreachable database rather than limping along.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	if appCfg.StoreBackend == "memory" {
		logger.Info("using in-memory document store")
		return DBDeps{Docs: memdoc.New()}, nil
	}

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Docs:          mongodoc.New(db, logger),
	}, nil
}

// EnsureSchema creates the indexes the query patterns depend on. It is a
// no-op for the memory backend.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		return nil
	}

	indexes := map[string][]mongo.IndexModel{
		docstore.Reminders: {
			{Keys: bson.D{{Key: "creator_id", Value: 1}}},
			{Keys: bson.D{{Key: "student_ids", Value: 1}}},
			{Keys: bson.D{{Key: "group_ids", Value: 1}}},
		},
		docstore.Notifications: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		docstore.Groups: {
			{Keys: bson.D{{Key: "created_by", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := deps.MongoDatabase.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}

	logger.Info("schema indexes ensured")
	return nil
}
