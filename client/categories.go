package client

import (
	"context"
	"fmt"
	"net/http"
)

// Category is a post category with a unified Name regardless of which wire
// shape it came from: the collection serves records with "label", the item
// endpoint serves `{id, name}`.
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"-"`
	Order    int    `json:"order,omitempty"`
	IsActive bool   `json:"isActive,omitempty"`
}

// categoryRecord matches both wire shapes; exactly one of Label/Name is set.
type categoryRecord struct {
	ID       int64  `json:"id"`
	Label    string `json:"label"`
	Name     string `json:"name"`
	Order    int    `json:"order"`
	IsActive bool   `json:"isActive"`
}

func (r categoryRecord) toCategory() Category {
	name := r.Label
	if name == "" {
		name = r.Name
	}
	return Category{ID: r.ID, Name: name, Order: r.Order, IsActive: r.IsActive}
}

// CategoryDraft is the payload for creating or updating a category.
type CategoryDraft struct {
	Label    string `json:"label"`
	Order    int    `json:"order,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// CategoriesService accesses the /categories endpoints.
type CategoriesService struct {
	client *Client
}

// List fetches all categories, remapping "label" to Name.
func (s *CategoriesService) List(ctx context.Context) ([]Category, error) {
	var records []categoryRecord
	if err := s.client.do(ctx, http.MethodGet, "/categories", nil, &records); err != nil {
		return nil, err
	}

	categories := make([]Category, len(records))
	for i, r := range records {
		categories[i] = r.toCategory()
	}
	return categories, nil
}

// Get fetches one category; the API serves it as `{id, name}`.
func (s *CategoriesService) Get(ctx context.Context, id int64) (*Category, error) {
	var record categoryRecord
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/categories/%d", id), nil, &record); err != nil {
		return nil, err
	}
	category := record.toCategory()
	return &category, nil
}

// Create adds a category.
func (s *CategoriesService) Create(ctx context.Context, draft CategoryDraft) (*Category, error) {
	var record categoryRecord
	if err := s.client.do(ctx, http.MethodPost, "/categories", draft, &record); err != nil {
		return nil, err
	}
	category := record.toCategory()
	return &category, nil
}

// Update replaces a category.
func (s *CategoriesService) Update(ctx context.Context, id int64, draft CategoryDraft) (*Category, error) {
	var record categoryRecord
	if err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("/categories/%d", id), draft, &record); err != nil {
		return nil, err
	}
	category := record.toCategory()
	return &category, nil
}

// Delete removes a category.
func (s *CategoriesService) Delete(ctx context.Context, id int64) error {
	return s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil)
}
