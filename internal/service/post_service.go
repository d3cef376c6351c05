package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/NeiltonSeguins/blog-school/internal/models"
	appErrors "github.com/NeiltonSeguins/blog-school/pkg/errors"
)

type postRepository interface {
	List(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error)
	FindByID(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int64) error
}

// ListCache is the subset of the cache repository the services consume.
type ListCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

const postCachePrefix = "posts:"

// CreatePostRequest carries the client payload verbatim; the server stamps the
// id and timestamps. Either the display names or the id references may be set.
type CreatePostRequest struct {
	Title       string `json:"title" validate:"required"`
	Content     string `json:"content" validate:"required"`
	Description string `json:"description"`
	Author      string `json:"author"`
	TeacherID   *int64 `json:"teacherId"`
	CategoryID  *int64 `json:"categoryId"`
	Category    string `json:"category"`
}

// UpdatePostRequest mirrors CreatePostRequest for full-record updates.
type UpdatePostRequest = CreatePostRequest

type cachedPostList struct {
	Items []models.Post `json:"items"`
	Total int           `json:"total"`
}

// PostService handles blog post workflows with optional Redis list caching.
type PostService struct {
	repo      postRepository
	cache     ListCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
}

// WithMetrics attaches cache hit/miss accounting.
func (s *PostService) WithMetrics(m *MetricsService) *PostService {
	s.metrics = m
	return s
}

// NewPostService creates an instance of PostService. A nil cache disables
// caching entirely.
func NewPostService(repo postRepository, cache ListCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PostService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns posts matching the filter and the unpaginated total.
func (s *PostService) List(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error) {
	key := fmt.Sprintf("%slist:q=%s:p=%d:l=%d:s=%s:o=%s", postCachePrefix, filter.Query, filter.Page, filter.Limit, filter.Sort, filter.Order)

	if s.cache != nil {
		var cached cachedPostList
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			if s.metrics != nil {
				s.metrics.RecordCacheOperation(true)
			}
			return cached.Items, cached.Total, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("post list cache read failed", zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(false)
		}
	}

	posts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list posts failed", zap.Error(err))
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list posts")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, cachedPostList{Items: posts, Total: total}, s.cacheTTL); err != nil {
			s.logger.Warn("post list cache write failed", zap.Error(err))
		}
	}

	return posts, total, nil
}

// Search returns posts whose title or content matches the query.
func (s *PostService) Search(ctx context.Context, query string) ([]models.Post, error) {
	posts, _, err := s.List(ctx, models.PostFilter{Query: query})
	return posts, err
}

// Get returns a post by id with display names resolved.
func (s *PostService) Get(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		s.logger.Error("find post failed", zap.Int64("id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch post")
	}
	return post, nil
}

// Create stores a new post and invalidates cached lists.
func (s *PostService) Create(ctx context.Context, req CreatePostRequest) (*models.Post, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid post payload")
	}

	post := &models.Post{
		Title:       req.Title,
		Content:     req.Content,
		Description: req.Description,
		Author:      req.Author,
		TeacherID:   req.TeacherID,
		CategoryID:  req.CategoryID,
		Category:    req.Category,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		s.logger.Error("create post failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create post")
	}

	s.invalidateLists(ctx)
	return post, nil
}

// Update overwrites an existing post and invalidates cached lists.
func (s *PostService) Update(ctx context.Context, id int64, req UpdatePostRequest) (*models.Post, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid post payload")
	}

	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Title = req.Title
	post.Content = req.Content
	post.Description = req.Description
	post.Author = req.Author
	post.TeacherID = req.TeacherID
	post.CategoryID = req.CategoryID
	post.Category = req.Category

	if err := s.repo.Update(ctx, post); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		s.logger.Error("update post failed", zap.Int64("id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update post")
	}

	s.invalidateLists(ctx)
	return post, nil
}

// Delete removes a post and invalidates cached lists.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		s.logger.Error("delete post failed", zap.Int64("id", id), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete post")
	}

	s.invalidateLists(ctx)
	return nil
}

func (s *PostService) invalidateLists(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, postCachePrefix+"*"); err != nil {
		s.logger.Warn("post cache invalidation failed", zap.Error(err))
	}
}
