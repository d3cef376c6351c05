package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Post is a blog post as served by the API. Author and Category may be empty
// when the record only carries teacherId/categoryId references.
type Post struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Description string    `json:"description,omitempty"`
	Author      string    `json:"author,omitempty"`
	TeacherID   *int64    `json:"teacherId,omitempty"`
	CategoryID  *int64    `json:"categoryId,omitempty"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// PostDraft is the payload for creating or updating a post.
type PostDraft struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	TeacherID   *int64 `json:"teacherId,omitempty"`
	CategoryID  *int64 `json:"categoryId,omitempty"`
	Category    string `json:"category,omitempty"`
}

// PostView is a post with its author and category resolved to display names.
type PostView struct {
	Post
	AuthorName   string
	CategoryName string
}

// ListPostsOptions narrows and paginates a post listing.
type ListPostsOptions struct {
	Query string
	Page  int
	Limit int
	Sort  string
	Order string
}

// PostsService accesses the /posts endpoints.
type PostsService struct {
	client *Client
}

// List fetches posts. The API answers with a bare array on plain listings and
// a `{total, items}` envelope on paginated ones; both are normalized to a
// slice plus total.
func (s *PostsService) List(ctx context.Context, opts ListPostsOptions) ([]Post, int, error) {
	q := url.Values{}
	if opts.Query != "" {
		q.Set("q", opts.Query)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}
	if opts.Order != "" {
		q.Set("order", opts.Order)
	}

	path := "/posts"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var raw json.RawMessage
	if err := s.client.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, 0, err
	}
	return normalizePostList(raw)
}

// Search fetches posts matching the query via /posts/search.
func (s *PostsService) Search(ctx context.Context, query string) ([]Post, error) {
	path := "/posts/search"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}

	var posts []Post
	if err := s.client.do(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Get fetches a single post by id.
func (s *PostsService) Get(ctx context.Context, id int64) (*Post, error) {
	var post Post
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d", id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// GetView fetches a post and resolves its author and category display names.
// Embedded names win; otherwise the referenced teacher and category records
// are fetched. Dangling references degrade to empty names rather than errors.
func (s *PostsService) GetView(ctx context.Context, id int64) (*PostView, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &PostView{Post: *post, AuthorName: post.Author, CategoryName: post.Category}

	if view.AuthorName == "" && post.TeacherID != nil {
		teacher, err := s.client.Users().GetTeacher(ctx, *post.TeacherID)
		if err == nil {
			view.AuthorName = teacher.Name
		} else if !IsNotFound(err) {
			return nil, err
		}
	}

	if view.CategoryName == "" && post.CategoryID != nil {
		category, err := s.client.Categories().Get(ctx, *post.CategoryID)
		if err == nil {
			view.CategoryName = category.Name
		} else if !IsNotFound(err) {
			return nil, err
		}
	}

	return view, nil
}

// Create publishes a new post.
func (s *PostsService) Create(ctx context.Context, draft PostDraft) (*Post, error) {
	var post Post
	if err := s.client.do(ctx, http.MethodPost, "/posts", draft, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Update replaces a post.
func (s *PostsService) Update(ctx context.Context, id int64, draft PostDraft) (*Post, error) {
	var post Post
	if err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("/posts/%d", id), draft, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete removes a post.
func (s *PostsService) Delete(ctx context.Context, id int64) error {
	return s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil, nil)
}

func normalizePostList(raw json.RawMessage) ([]Post, int, error) {
	var posts []Post
	if err := json.Unmarshal(raw, &posts); err == nil {
		return posts, len(posts), nil
	}

	var envelope struct {
		Total int    `json:"total"`
		Items []Post `json:"items"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, 0, fmt.Errorf("unexpected post list shape: %w", err)
	}
	return envelope.Items, envelope.Total, nil
}
