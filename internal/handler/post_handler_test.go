package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NeiltonSeguins/blog-school/internal/models"
	"github.com/NeiltonSeguins/blog-school/internal/service"
)

type fakePostRepo struct {
	posts      []models.Post
	total      int
	lastFilter models.PostFilter
}

func (f *fakePostRepo) List(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error) {
	f.lastFilter = filter
	return f.posts, f.total, nil
}

func (f *fakePostRepo) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	for _, p := range f.posts {
		if p.ID == id {
			copied := p
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakePostRepo) Create(ctx context.Context, post *models.Post) error {
	post.ID = 42
	return nil
}

func (f *fakePostRepo) Update(ctx context.Context, post *models.Post) error {
	if _, err := f.FindByID(ctx, post.ID); err != nil {
		return err
	}
	return nil
}

func (f *fakePostRepo) Delete(ctx context.Context, id int64) error {
	if _, err := f.FindByID(ctx, id); err != nil {
		return err
	}
	return nil
}

func newPostRouter(repo *fakePostRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewPostService(repo, nil, 0, validator.New(), zap.NewNop())
	h := NewPostHandler(svc)

	r := gin.New()
	r.GET("/posts", h.List)
	r.GET("/posts/search", h.Search)
	r.GET("/posts/:id", h.Get)
	r.POST("/posts", h.Create)
	r.PUT("/posts/:id", h.Update)
	r.DELETE("/posts/:id", h.Delete)
	return r
}

func fixturePosts() []models.Post {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return []models.Post{
		{ID: 1, Title: "Frações", Content: "Conteúdo", Author: "Ana", Category: "Matemática", CreatedAt: now, UpdatedAt: now},
		{ID: 2, Title: "Verbos", Content: "Conteúdo", Author: "Bia", Category: "Português", CreatedAt: now, UpdatedAt: now},
	}
}

func TestPostHandlerListBareArray(t *testing.T) {
	r := newPostRouter(&fakePostRepo{posts: fixturePosts(), total: 2})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts", nil))

	require.Equal(t, http.StatusOK, w.Code)
	// No pagination params: the body is a plain JSON array.
	assert.True(t, strings.HasPrefix(strings.TrimSpace(w.Body.String()), "["))

	var posts []models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	assert.Len(t, posts, 2)
}

func TestPostHandlerListPaginatedEnvelope(t *testing.T) {
	repo := &fakePostRepo{posts: fixturePosts()[:1], total: 7}
	r := newPostRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts?page=1&limit=1", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Total int           `json:"total"`
		Items []models.Post `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 7, envelope.Total)
	assert.Len(t, envelope.Items, 1)
	assert.Equal(t, 1, repo.lastFilter.Page)
	assert.Equal(t, 1, repo.lastFilter.Limit)
}

func TestPostHandlerSearchPassesQuery(t *testing.T) {
	repo := &fakePostRepo{posts: fixturePosts()[:1], total: 1}
	r := newPostRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts/search?q=fra", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fra", repo.lastFilter.Query)
}

func TestPostHandlerGetNotFound(t *testing.T) {
	r := newPostRouter(&fakePostRepo{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts/99", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostHandlerGetInvalidID(t *testing.T) {
	r := newPostRouter(&fakePostRepo{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts/abc", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostHandlerCreateReturns201(t *testing.T) {
	r := newPostRouter(&fakePostRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"title":"Novo","content":"Texto","teacherId":3}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	assert.Equal(t, int64(42), post.ID)
	require.NotNil(t, post.TeacherID)
	assert.Equal(t, int64(3), *post.TeacherID)
}

func TestPostHandlerUpdateReturnsRecord(t *testing.T) {
	r := newPostRouter(&fakePostRepo{posts: fixturePosts(), total: 2})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/posts/1", strings.NewReader(`{"title":"Editado","content":"Texto"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	assert.Equal(t, "Editado", post.Title)
}

func TestPostHandlerDeleteReturns204(t *testing.T) {
	r := newPostRouter(&fakePostRepo{posts: fixturePosts(), total: 2})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/posts/1", nil))

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
