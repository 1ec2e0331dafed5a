package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klass-lk/blog/internal/model"
)

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

// fixturePosts mixes past, future and draft posts, plus two posts sharing a
// publication date to pin down the id tie-break.
func fixturePosts() []model.Post {
	created := time.Date(2022, 12, 1, 0, 0, 0, 0, time.UTC)
	return []model.Post{
		{ID: "4", Author: "ann", Title: "Fourth", Text: "next year", CreatedDate: created, PublishedDate: date(2024, 1, 1)},
		{ID: "2", Author: "ann", Title: "Second", Text: "summer", CreatedDate: created, PublishedDate: date(2023, 6, 1)},
		{ID: "6", Author: "bob", Title: "Sixth", Text: "tie b", CreatedDate: created, PublishedDate: date(2023, 3, 1)},
		{ID: "3", Author: "bob", Title: "Third", Text: "draft", CreatedDate: created},
		{ID: "1", Author: "ann", Title: "First", Text: "new year", CreatedDate: created, PublishedDate: date(2023, 1, 1)},
		{ID: "5", Author: "bob", Title: "Fifth", Text: "tie a", CreatedDate: created, PublishedDate: date(2023, 3, 1)},
	}
}

func ids(posts []model.Post) []string {
	result := make([]string, len(posts))
	for i, post := range posts {
		result[i] = post.ID
	}
	return result
}

// runPostRepositoryContract checks a repository already seeded with
// fixturePosts.
func runPostRepositoryContract(t *testing.T, repo PostRepository) {
	ctx := context.Background()
	now := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)

	t.Run("lists published posts in order", func(t *testing.T) {
		posts, err := repo.FindPublished(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "5", "6", "2"}, ids(posts))

		for i, post := range posts {
			require.NotNil(t, post.PublishedDate)
			assert.False(t, post.PublishedDate.After(now))
			if i > 0 {
				assert.False(t, posts[i-1].PublishedDate.After(*post.PublishedDate))
			}
		}
	})

	t.Run("includes posts published exactly at now", func(t *testing.T) {
		posts, err := repo.FindPublished(ctx, *date(2023, 6, 1))
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "5", "6", "2"}, ids(posts))
	})

	t.Run("is idempotent", func(t *testing.T) {
		first, err := repo.FindPublished(ctx, now)
		require.NoError(t, err)
		second, err := repo.FindPublished(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, ids(first), ids(second))
	})

	t.Run("returns an empty list before the first post", func(t *testing.T) {
		posts, err := repo.FindPublished(ctx, *date(2000, 1, 1))
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("finds a post by id", func(t *testing.T) {
		post, err := repo.FindById(ctx, "2")
		require.NoError(t, err)
		assert.Equal(t, "2", post.ID)
		assert.Equal(t, "Second", post.Title)
		assert.Equal(t, "ann", post.Author)
		require.NotNil(t, post.PublishedDate)
		assert.True(t, post.PublishedDate.Equal(*date(2023, 6, 1)))
	})

	t.Run("finds drafts by id", func(t *testing.T) {
		post, err := repo.FindById(ctx, "3")
		require.NoError(t, err)
		assert.Nil(t, post.PublishedDate)
	})

	t.Run("reports a missing id as not found", func(t *testing.T) {
		_, err := repo.FindById(ctx, "999")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrStoreUnavailable)
	})
}
