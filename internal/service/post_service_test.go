package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NeiltonSeguins/blog-school/internal/models"
	appErrors "github.com/NeiltonSeguins/blog-school/pkg/errors"
)

type mockPostRepo struct {
	posts     []models.Post
	total     int
	listCalls int
	listErr   error
	byID      *models.Post
	findErr   error
	createErr error
	updateErr error
	deleteErr error
}

func (m *mockPostRepo) List(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.posts, m.total, nil
}

func (m *mockPostRepo) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.byID == nil || m.byID.ID != id {
		return nil, sql.ErrNoRows
	}
	copied := *m.byID
	return &copied, nil
}

func (m *mockPostRepo) Create(ctx context.Context, post *models.Post) error {
	if m.createErr != nil {
		return m.createErr
	}
	post.ID = 42
	return nil
}

func (m *mockPostRepo) Update(ctx context.Context, post *models.Post) error {
	return m.updateErr
}

func (m *mockPostRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteErr
}

type stubListCache struct {
	store   map[string][]byte
	deletes []string
}

func (s *stubListCache) Get(_ context.Context, key string, dest interface{}) error {
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubListCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubListCache) DeleteByPattern(_ context.Context, pattern string) error {
	s.deletes = append(s.deletes, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range s.store {
		if strings.HasPrefix(key, prefix) {
			delete(s.store, key)
		}
	}
	return nil
}

func TestPostServiceListCachesResults(t *testing.T) {
	repo := &mockPostRepo{posts: []models.Post{{ID: 1, Title: "Frações"}}, total: 1}
	cache := &stubListCache{}
	svc := NewPostService(repo, cache, time.Minute, validator.New(), zap.NewNop())

	posts, total, err := svc.List(context.Background(), models.PostFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, 1, repo.listCalls)

	// Second read is served from cache.
	_, _, err = svc.List(context.Background(), models.PostFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
}

func TestPostServiceListDistinctFiltersDistinctKeys(t *testing.T) {
	repo := &mockPostRepo{posts: []models.Post{{ID: 1}}, total: 1}
	cache := &stubListCache{}
	svc := NewPostService(repo, cache, time.Minute, validator.New(), zap.NewNop())

	_, _, err := svc.List(context.Background(), models.PostFilter{})
	require.NoError(t, err)
	_, _, err = svc.List(context.Background(), models.PostFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestPostServiceCreateInvalidatesCache(t *testing.T) {
	repo := &mockPostRepo{posts: []models.Post{}, total: 0}
	cache := &stubListCache{}
	svc := NewPostService(repo, cache, time.Minute, validator.New(), zap.NewNop())

	_, _, err := svc.List(context.Background(), models.PostFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, cache.store)

	post, err := svc.Create(context.Background(), CreatePostRequest{Title: "Novo post", Content: "Conteúdo"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), post.ID)
	assert.Contains(t, cache.deletes, "posts:*")
	assert.Empty(t, cache.store)
}

func TestPostServiceCreateRequiresTitleAndContent(t *testing.T) {
	svc := NewPostService(&mockPostRepo{}, nil, 0, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreatePostRequest{Title: "Sem conteúdo"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestPostServiceGetNotFound(t *testing.T) {
	svc := NewPostService(&mockPostRepo{}, nil, 0, validator.New(), zap.NewNop())

	_, err := svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestPostServiceUpdateNotFound(t *testing.T) {
	svc := NewPostService(&mockPostRepo{}, nil, 0, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), 99, UpdatePostRequest{Title: "T", Content: "C"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestPostServiceDeleteNotFound(t *testing.T) {
	svc := NewPostService(&mockPostRepo{deleteErr: sql.ErrNoRows}, nil, 0, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestPostServiceWorksWithoutCache(t *testing.T) {
	repo := &mockPostRepo{posts: []models.Post{{ID: 1}}, total: 1}
	svc := NewPostService(repo, nil, 0, validator.New(), zap.NewNop())

	_, _, err := svc.List(context.Background(), models.PostFilter{})
	require.NoError(t, err)
	_, _, err = svc.List(context.Background(), models.PostFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}
