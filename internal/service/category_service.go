package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/NeiltonSeguins/blog-school/internal/models"
	appErrors "github.com/NeiltonSeguins/blog-school/pkg/errors"
)

const categoryCacheKey = "categories:all"

type categoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
}

// CategoryRequest is the create/update payload for categories.
type CategoryRequest struct {
	Label     string `json:"label" validate:"required"`
	SortOrder int    `json:"order"`
	IsActive  *bool  `json:"isActive"`
}

// CategoryService handles category workflows with optional Redis list caching.
type CategoryService struct {
	repo      categoryRepository
	cache     ListCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// WithCache enables caching of the category list.
func (s *CategoryService) WithCache(cache ListCache, ttl time.Duration) *CategoryService {
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

// NewCategoryService creates an instance of CategoryService.
func NewCategoryService(repo categoryRepository, validate *validator.Validate, logger *zap.Logger) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CategoryService{repo: repo, validator: validate, logger: logger}
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	if s.cache != nil {
		var cached []models.Category
		if err := s.cache.Get(ctx, categoryCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("category list cache read failed", zap.Error(err))
		}
	}

	categories, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("list categories failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, categoryCacheKey, categories, s.cacheTTL); err != nil {
			s.logger.Warn("category list cache write failed", zap.Error(err))
		}
	}

	return categories, nil
}

// Get returns a category by id.
func (s *CategoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		s.logger.Error("find category failed", zap.Int64("id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch category")
	}
	return category, nil
}

// Create stores a new category.
func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*models.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid category payload")
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	category := &models.Category{Label: req.Label, SortOrder: req.SortOrder, IsActive: active}

	if err := s.repo.Create(ctx, category); err != nil {
		s.logger.Error("create category failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create category")
	}

	s.invalidateList(ctx)
	return category, nil
}

// Update overwrites an existing category.
func (s *CategoryService) Update(ctx context.Context, id int64, req CategoryRequest) (*models.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid category payload")
	}

	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Label = req.Label
	category.SortOrder = req.SortOrder
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		s.logger.Error("update category failed", zap.Int64("id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update category")
	}

	s.invalidateList(ctx)
	return category, nil
}

// Delete removes a category.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		s.logger.Error("delete category failed", zap.Int64("id", id), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete category")
	}

	s.invalidateList(ctx)
	return nil
}

func (s *CategoryService) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, categoryCacheKey); err != nil {
		s.logger.Warn("category cache invalidation failed", zap.Error(err))
	}
}
