package models

import "time"

// Category keeps the backend field name `label`; clients remap it to `name`.
type Category struct {
	ID        int64     `db:"id" json:"id"`
	Label     string    `db:"label" json:"label"`
	SortOrder int       `db:"sort_order" json:"order"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// CategoryName is the by-id response shape, which exposes `name` instead of
// `label`. The mismatch is historical and the clients depend on it.
type CategoryName struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
