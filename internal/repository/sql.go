package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/klass-lk/blog"
	"github.com/klass-lk/blog/internal/model"
)

type SQLPostRepository struct {
	*blog.SQLRepository[model.Post]
}

func NewSQLPostRepository(db *sql.DB) *SQLPostRepository {
	return &SQLPostRepository{
		SQLRepository: blog.NewSQLRepository[model.Post](db),
	}
}

func (r *SQLPostRepository) FindPublished(ctx context.Context, now time.Time) ([]model.Post, error) {
	posts, err := r.FindUpTo(ctx, "published_date", now, blog.Asc("published_date"), blog.Asc("id"))
	if err != nil {
		return nil, unavailable(err)
	}
	return posts, nil
}

func (r *SQLPostRepository) FindById(ctx context.Context, id string) (model.Post, error) {
	post, err := r.SQLRepository.FindById(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, notFound(id)
	}
	if err != nil {
		return model.Post{}, unavailable(err)
	}
	return post, nil
}
