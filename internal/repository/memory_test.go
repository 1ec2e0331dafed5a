package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klass-lk/blog/internal/model"
)

func TestMemoryPostRepository(t *testing.T) {
	runPostRepositoryContract(t, NewMemoryPostRepository(fixturePosts()...))
}

func TestMemoryPostRepository_SaveReplacesById(t *testing.T) {
	repo := NewMemoryPostRepository(model.Post{ID: "1", Title: "old"})
	repo.Save(model.Post{ID: "1", Title: "new"})

	post, err := repo.FindById(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "new", post.Title)
}

func TestMemoryPostRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryPostRepository(fixturePosts()...)
	now := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)

	posts, err := repo.FindPublished(context.Background(), now)
	require.NoError(t, err)
	*posts[0].PublishedDate = time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)
	posts[0].Title = "changed"

	again, err := repo.FindPublished(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, "First", again[0].Title)
	assert.Equal(t, 2023, again[0].PublishedDate.Year())
}

func TestMemoryPostRepository_CancelledContext(t *testing.T) {
	repo := NewMemoryPostRepository(fixturePosts()...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FindPublished(ctx, time.Now())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = repo.FindById(ctx, "1")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestMemoryPostRepository_ConcurrentReaders(t *testing.T) {
	repo := NewMemoryPostRepository(fixturePosts()...)
	now := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			posts, err := repo.FindPublished(context.Background(), now)
			assert.NoError(t, err)
			assert.Equal(t, []string{"1", "5", "6", "2"}, ids(posts))
		}()
	}
	wg.Wait()
}
