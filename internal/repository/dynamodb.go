package repository

import (
	"context"
	"errors"
	"time"

	"github.com/klass-lk/blog"
	"github.com/klass-lk/blog/internal/model"
)

// DynamoDBPostRepository reads the Post partition of the single table and
// filters it in memory; published_date lives inside the JSON payload.
type DynamoDBPostRepository struct {
	*blog.DynamoDBRepository[model.Post]
}

func NewDynamoDBPostRepository(ctx context.Context, client blog.DynamoDBAPI, cfg *blog.DynamoDBConfig) (*DynamoDBPostRepository, error) {
	repo, err := blog.NewDynamoDBRepository[model.Post](ctx, client, cfg)
	if err != nil {
		return nil, err
	}
	return &DynamoDBPostRepository{DynamoDBRepository: repo}, nil
}

func (r *DynamoDBPostRepository) FindPublished(ctx context.Context, now time.Time) ([]model.Post, error) {
	posts, err := r.FindAll(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	return publishedAt(posts, now), nil
}

func (r *DynamoDBPostRepository) FindById(ctx context.Context, id string) (model.Post, error) {
	post, err := r.DynamoDBRepository.FindById(ctx, id)
	if errors.Is(err, blog.ErrItemNotFound) {
		return model.Post{}, notFound(id)
	}
	if err != nil {
		return model.Post{}, unavailable(err)
	}
	return post, nil
}
