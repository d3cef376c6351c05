package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/NeiltonSeguins/blog-school/internal/models"
)

func categoryRows(categories ...models.Category) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "label", "sort_order", "is_active", "created_at", "updated_at"})
	for _, c := range categories {
		rows.AddRow(c.ID, c.Label, c.SortOrder, c.IsActive, c.CreatedAt, c.UpdatedAt)
	}
	return rows
}

func TestCategoryRepositoryListOrdersBySortOrder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCategoryRepository(db)
	mock.ExpectQuery("SELECT .+ FROM categories ORDER BY sort_order ASC").
		WillReturnRows(categoryRows(
			models.Category{ID: 1, Label: "Matemática", SortOrder: 1, IsActive: true, CreatedAt: time.Now(), UpdatedAt: time.Now()},
			models.Category{ID: 2, Label: "Português", SortOrder: 2, IsActive: true, CreatedAt: time.Now(), UpdatedAt: time.Now()},
		))

	categories, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	require.Equal(t, "Matemática", categories[0].Label)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCategoryRepository(db)
	mock.ExpectQuery("SELECT .+ FROM categories WHERE id").
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 9)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCategoryRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCategoryRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO categories")).
		WithArgs("Ciências", 3, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	category := &models.Category{Label: "Ciências", SortOrder: 3, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), category))
	require.Equal(t, int64(3), category.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositoryCount(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCategoryRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM categories")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, total)
}
