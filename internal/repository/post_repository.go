package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/NeiltonSeguins/blog-school/internal/models"
)

// PostRepository provides database access for blog posts.
type PostRepository struct {
	db *sqlx.DB
}

// NewPostRepository creates a new instance of PostRepository.
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

// postSelect resolves author and category display names at read time: posts
// written by older clients carry only the id reference, newer ones only the
// denormalized name. COALESCE bridges both generations.
const postSelect = `SELECT p.id, p.title, p.content, p.description,
        COALESCE(NULLIF(p.author, ''), u.name, '') AS author,
        p.teacher_id, p.category_id,
        COALESCE(NULLIF(p.category, ''), c.label, '') AS category,
        p.created_at, p.updated_at
        FROM posts p
        LEFT JOIN users u ON u.id = p.teacher_id
        LEFT JOIN categories c ON c.id = p.category_id`

// List returns posts matching the filter along with the unpaginated total.
func (r *PostRepository) List(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error) {
	where := ""
	var args []interface{}
	if filter.Query != "" {
		where = " WHERE (LOWER(p.title) LIKE $1 OR LOWER(p.content) LIKE $1)"
		args = append(args, "%"+strings.ToLower(filter.Query)+"%")
	}

	sortBy := map[string]string{
		"createdAt": "p.created_at",
		"updatedAt": "p.updated_at",
		"title":     "p.title",
	}[filter.Sort]
	if sortBy == "" {
		sortBy = "p.created_at"
	}
	sortOrder := strings.ToUpper(filter.Order)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	query := fmt.Sprintf("%s%s ORDER BY %s %s", postSelect, where, sortBy, sortOrder)

	if filter.Paginated() {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		limit := filter.Limit
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, (page-1)*limit)
	}

	posts := []models.Post{}
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	countQuery := "SELECT COUNT(*) FROM posts p" + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	return posts, total, nil
}

// FindByID returns a post by identifier with display names resolved.
func (r *PostRepository) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	query := postSelect + " WHERE p.id = $1 LIMIT 1"
	var post models.Post
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return &post, nil
}

// Create inserts a new post; the database owns the id and timestamps.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	const query = `INSERT INTO posts (title, content, description, author, teacher_id, category_id, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		post.Title, post.Content, post.Description, post.Author, post.TeacherID, post.CategoryID, post.Category, post.CreatedAt, post.UpdatedAt,
	).Scan(&post.ID); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of a post.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now().UTC()
	const query = `UPDATE posts SET title = :title, content = :content, description = :description,
		author = :author, teacher_id = :teacher_id, category_id = :category_id, category = :category,
		updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the post record.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM posts WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
