package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/klass-lk/blog"
	"github.com/klass-lk/blog/internal/model"
)

type MongoPostRepository struct {
	*blog.MongoRepository[model.Post]
}

func NewMongoPostRepository(database *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{
		MongoRepository: blog.NewMongoRepository[model.Post](database),
	}
}

func (r *MongoPostRepository) FindPublished(ctx context.Context, now time.Time) ([]model.Post, error) {
	posts, err := r.FindUpTo(ctx, "published_date", now, blog.Asc("published_date"), blog.Asc("_id"))
	if err != nil {
		return nil, unavailable(err)
	}
	return posts, nil
}

func (r *MongoPostRepository) FindById(ctx context.Context, id string) (model.Post, error) {
	post, err := r.MongoRepository.FindById(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Post{}, notFound(id)
	}
	if err != nil {
		return model.Post{}, unavailable(err)
	}
	return post, nil
}
