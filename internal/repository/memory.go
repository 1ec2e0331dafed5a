package repository

import (
	"context"
	"sync"
	"time"

	"github.com/klass-lk/blog/internal/model"
)

// MemoryPostRepository keeps posts in a slice and answers every query with a
// full scan. It backs local development and tests.
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts []model.Post
}

func NewMemoryPostRepository(posts ...model.Post) *MemoryPostRepository {
	r := &MemoryPostRepository{}
	for _, post := range posts {
		r.Save(post)
	}
	return r
}

// Save inserts post or replaces the post with the same id.
func (r *MemoryPostRepository) Save(post model.Post) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post = clonePost(post)
	for i := range r.posts {
		if r.posts[i].ID == post.ID {
			r.posts[i] = post
			return
		}
	}
	r.posts = append(r.posts, post)
}

func (r *MemoryPostRepository) FindPublished(ctx context.Context, now time.Time) ([]model.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := publishedAt(r.posts, now)
	for i := range posts {
		posts[i] = clonePost(posts[i])
	}
	return posts, nil
}

func (r *MemoryPostRepository) FindById(ctx context.Context, id string) (model.Post, error) {
	if err := ctx.Err(); err != nil {
		return model.Post{}, unavailable(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, post := range r.posts {
		if post.ID == id {
			return clonePost(post), nil
		}
	}
	return model.Post{}, notFound(id)
}

func clonePost(post model.Post) model.Post {
	if post.PublishedDate != nil {
		published := *post.PublishedDate
		post.PublishedDate = &published
	}
	return post
}
