package service

import (
	"context"
	"time"

	"github.com/klass-lk/blog/internal/model"
	"github.com/klass-lk/blog/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
	now      func() time.Time
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		now:      time.Now,
	}
}

// WithClock replaces the time source. The clock is read on every call.
func (s *PostService) WithClock(now func() time.Time) *PostService {
	s.now = now
	return s
}

// ListPublished lists the posts published as of the moment of the call.
func (s *PostService) ListPublished(ctx context.Context) ([]model.Post, error) {
	return s.ListPublishedAt(ctx, s.now())
}

func (s *PostService) ListPublishedAt(ctx context.Context, now time.Time) ([]model.Post, error) {
	return s.postRepo.FindPublished(ctx, now)
}

// GetPost returns repository.ErrNotFound when id does not resolve.
func (s *PostService) GetPost(ctx context.Context, id string) (model.Post, error) {
	if id == "" {
		return model.Post{}, repository.ErrNotFound
	}
	return s.postRepo.FindById(ctx, id)
}
