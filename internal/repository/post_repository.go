package repository

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/klass-lk/blog/internal/model"
)

var (
	// ErrNotFound means no post has the requested identifier.
	ErrNotFound = errors.New("post not found")
	// ErrStoreUnavailable wraps every other failure of the underlying store.
	ErrStoreUnavailable = errors.New("post store unavailable")
)

// PostRepository is the read side of a post store.
type PostRepository interface {
	// FindPublished returns every post published at or before now, ascending
	// by publication date with ties broken by id.
	FindPublished(ctx context.Context, now time.Time) ([]model.Post, error)
	FindById(ctx context.Context, id string) (model.Post, error)
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

func notFound(id string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, id)
}

// publishedAt keeps the posts visible at now and orders them the way
// FindPublished promises. Stores that cannot filter server side use it.
func publishedAt(posts []model.Post, now time.Time) []model.Post {
	result := make([]model.Post, 0, len(posts))
	for _, post := range posts {
		if post.IsPublished(now) {
			result = append(result, post)
		}
	}
	slices.SortStableFunc(result, comparePublished)
	return result
}

func comparePublished(a, b model.Post) int {
	if c := a.PublishedDate.Compare(*b.PublishedDate); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
