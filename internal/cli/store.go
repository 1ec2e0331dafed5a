package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/klass-lk/blog"
	"github.com/klass-lk/blog/internal/config"
	"github.com/klass-lk/blog/internal/model"
	"github.com/klass-lk/blog/internal/repository"
)

// openStore connects the configured post store. The returned func releases
// its connections.
func openStore(ctx context.Context, cfg *config.Config) (repository.PostRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return repository.NewMemoryPostRepository(samplePosts(time.Now())...), func() {}, nil

	case config.DriverMongo:
		client, db, err := cfg.MongoConfig().Connect(ctx)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("connected to MongoDB", "database", db.Name())
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				slog.Error("failed to disconnect from MongoDB", "error", err)
			}
		}
		return repository.NewMongoPostRepository(db), closeFn, nil

	case config.DriverPostgres, config.DriverPgx:
		db, err := cfg.SQLConfig().Connect(ctx)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("connected to PostgreSQL", "driver", cfg.Store.Driver)
		closeFn := func() {
			if err := db.Close(); err != nil {
				slog.Error("failed to close database", "error", err)
			}
		}
		return repository.NewSQLPostRepository(db), closeFn, nil

	case config.DriverDynamoDB:
		dynamoCfg := cfg.DynamoDBConfig()
		client, err := blog.NewDynamoDBClient(ctx, dynamoCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		repo, err := repository.NewDynamoDBPostRepository(ctx, client, dynamoCfg)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("connected to DynamoDB", "table", dynamoCfg.TableName)
		return repo, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// samplePosts gives the in-memory store something to show: one published
// post and one draft.
func samplePosts(now time.Time) []model.Post {
	published := now.Add(-time.Hour)
	return []model.Post{
		{
			ID:            uuid.New().String(),
			Author:        "admin",
			Title:         "Hello, world",
			Text:          "This blog is running on the **in-memory** store.",
			CreatedDate:   published,
			PublishedDate: &published,
		},
		{
			ID:          uuid.New().String(),
			Author:      "admin",
			Title:       "Draft",
			Text:        "Not listed until it has a publication date.",
			CreatedDate: now,
		},
	}
}
