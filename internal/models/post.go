package models

import "time"

// Post is a blog entry. Author and category exist both as denormalized display
// names and as id references; older clients wrote one or the other, so reads
// must resolve whichever is present.
type Post struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Content     string    `db:"content" json:"content"`
	Description string    `db:"description" json:"description,omitempty"`
	Author      string    `db:"author" json:"author"`
	TeacherID   *int64    `db:"teacher_id" json:"teacherId,omitempty"`
	CategoryID  *int64    `db:"category_id" json:"categoryId,omitempty"`
	Category    string    `db:"category" json:"category,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// PostFilter captures list parameters for posts.
type PostFilter struct {
	Query string
	Page  int
	Limit int
	Sort  string
	Order string
}

// Paginated reports whether the caller asked for the `{total, items}` shape.
func (f PostFilter) Paginated() bool {
	return f.Page > 0 || f.Limit > 0
}
