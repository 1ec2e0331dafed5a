package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klass-lk/blog"
	"github.com/klass-lk/blog/internal/model"
	"github.com/klass-lk/blog/internal/render"
	"github.com/klass-lk/blog/internal/repository"
	"github.com/klass-lk/blog/internal/service"
)

type failingRepository struct{}

func (failingRepository) FindPublished(ctx context.Context, now time.Time) ([]model.Post, error) {
	return nil, errors.Join(repository.ErrStoreUnavailable, errors.New("connection reset"))
}

func (failingRepository) FindById(ctx context.Context, id string) (model.Post, error) {
	return model.Post{}, errors.Join(repository.ErrStoreUnavailable, errors.New("connection reset"))
}

func day(year int, month time.Month, d int) *time.Time {
	t := time.Date(year, month, d, 9, 30, 0, 0, time.UTC)
	return &t
}

func setupRouter(t *testing.T, repo repository.PostRepository) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpl, err := render.Templates()
	require.NoError(t, err)

	server := blog.NewWithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	server.SetHTMLTemplate(tmpl)

	svc := service.NewPostService(repo).WithClock(func() time.Time {
		return *day(2023, 12, 31)
	})
	server.RegisterControllers(NewPostController(svc))
	return server.Engine()
}

func memoryStore() repository.PostRepository {
	return repository.NewMemoryPostRepository(
		model.Post{ID: "june", Title: "Summer post", Text: "It is *warm*.", PublishedDate: day(2023, 6, 1)},
		model.Post{ID: "jan", Title: "New year post", Text: "Hello", PublishedDate: day(2023, 1, 1)},
		model.Post{ID: "draft", Title: "Unfinished", Text: "tbd"},
		model.Post{ID: "future", Title: "Next year", Text: "soon", PublishedDate: day(2024, 1, 1)},
	)
}

func get(router http.Handler, path, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPostList(t *testing.T) {
	router := setupRouter(t, memoryStore())

	w := get(router, "/", "text/html")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	jan := strings.Index(body, `id="post-jan"`)
	june := strings.Index(body, `id="post-june"`)
	require.NotEqual(t, -1, jan)
	require.NotEqual(t, -1, june)
	assert.Less(t, jan, june)
	assert.NotContains(t, body, "Unfinished")
	assert.NotContains(t, body, "Next year")
	assert.Contains(t, body, `href="/post/jan"`)
	assert.Contains(t, body, "<em>warm</em>")
}

func TestPostList_JSON(t *testing.T) {
	router := setupRouter(t, memoryStore())

	w := get(router, "/", "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Posts []model.Post `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Len(t, payload.Posts, 2)
	assert.Equal(t, "jan", payload.Posts[0].ID)
	assert.Equal(t, "june", payload.Posts[1].ID)
}

func TestPostList_Empty(t *testing.T) {
	router := setupRouter(t, repository.NewMemoryPostRepository())

	w := get(router, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No posts yet.")
}

func TestPostDetail(t *testing.T) {
	router := setupRouter(t, memoryStore())

	w := get(router, "/post/june", "text/html")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<title>Summer post · Blog</title>")
	assert.Contains(t, w.Body.String(), "June 1, 2023, 09:30")
}

func TestPostDetail_JSON(t *testing.T) {
	router := setupRouter(t, memoryStore())

	w := get(router, "/post/draft", "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Post model.Post `json:"post"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "Unfinished", payload.Post.Title)
	assert.Nil(t, payload.Post.PublishedDate)
}

func TestPostDetail_NotFound(t *testing.T) {
	router := setupRouter(t, memoryStore())

	t.Run("html", func(t *testing.T) {
		w := get(router, "/post/999", "text/html")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "post not found")
	})

	t.Run("json", func(t *testing.T) {
		w := get(router, "/post/999", "application/json")
		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp blog.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "NOT_FOUND", resp.ErrorCode)
		assert.Equal(t, "post not found", resp.Message)
	})
}

func TestStoreUnavailable(t *testing.T) {
	router := setupRouter(t, failingRepository{})

	for _, path := range []string{"/", "/post/1"} {
		t.Run(path, func(t *testing.T) {
			w := get(router, path, "application/json")
			assert.Equal(t, http.StatusInternalServerError, w.Code)

			var resp blog.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "INTERNAL_SERVER_ERROR", resp.ErrorCode)
			assert.NotContains(t, w.Body.String(), "connection reset")
		})
	}
}

func TestErrors_UnsupportedAccept(t *testing.T) {
	t.Run("missing post keeps its 404", func(t *testing.T) {
		router := setupRouter(t, memoryStore())

		w := get(router, "/post/999", "text/plain")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "post not found")
	})

	t.Run("store failure keeps its 500", func(t *testing.T) {
		router := setupRouter(t, failingRepository{})

		for _, path := range []string{"/", "/post/1"} {
			w := get(router, path, "text/plain")
			assert.Equal(t, http.StatusInternalServerError, w.Code, path)
			assert.Contains(t, w.Body.String(), "An unknown error occurred", path)
			assert.NotContains(t, w.Body.String(), "connection reset", path)
		}
	})
}
