package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPost_IsPublished(t *testing.T) {
	now := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Nanosecond)

	tests := []struct {
		name      string
		published *time.Time
		want      bool
	}{
		{name: "draft", published: nil, want: false},
		{name: "published earlier", published: &past, want: true},
		{name: "published exactly now", published: &now, want: true},
		{name: "scheduled", published: &future, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := Post{ID: "1", PublishedDate: tt.published}
			assert.Equal(t, tt.want, post.IsPublished(now))
		})
	}
}

func TestPost_GetTableName(t *testing.T) {
	assert.Equal(t, "posts", Post{}.GetTableName())
}
