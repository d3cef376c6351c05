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

func postRows(posts ...models.Post) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "title", "content", "description", "author", "teacher_id", "category_id", "category", "created_at", "updated_at"})
	for _, p := range posts {
		rows.AddRow(p.ID, p.Title, p.Content, p.Description, p.Author, p.TeacherID, p.CategoryID, p.Category, p.CreatedAt, p.UpdatedAt)
	}
	return rows
}

func TestPostRepositoryListUnpaginated(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewPostRepository(db)
	mock.ExpectQuery("SELECT p.id, p.title, .+ FROM posts p").
		WillReturnRows(postRows(models.Post{ID: 1, Title: "Frações", Content: "...", Author: "Ana", Category: "Matemática", CreatedAt: time.Now(), UpdatedAt: time.Now()}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM posts p")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	posts, total, err := repo.List(context.Background(), models.PostFilter{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryListPaginatedAppliesLimitOffset(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewPostRepository(db)
	mock.ExpectQuery("SELECT p.id, .+ ORDER BY p.created_at DESC LIMIT 5 OFFSET 5").
		WillReturnRows(postRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM posts p")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	posts, total, err := repo.List(context.Background(), models.PostFilter{Page: 2, Limit: 5})
	require.NoError(t, err)
	require.Empty(t, posts)
	require.Equal(t, 12, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryListSearchFiltersBothQueries(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewPostRepository(db)
	mock.ExpectQuery(`SELECT p.id, .+ WHERE \(LOWER\(p.title\) LIKE \$1 OR LOWER\(p.content\) LIKE \$1\)`).
		WithArgs("%frações%").
		WillReturnRows(postRows(models.Post{ID: 1, Title: "Frações", CreatedAt: time.Now(), UpdatedAt: time.Now()}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM posts p")).
		WithArgs("%frações%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	posts, _, err := repo.List(context.Background(), models.PostFilter{Query: "Frações"})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryListIgnoresUnknownSortColumn(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewPostRepository(db)
	// "views; DROP TABLE" is not in the whitelist, so the default order applies.
	mock.ExpectQuery("ORDER BY p.created_at DESC").
		WillReturnRows(postRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM posts p")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err := repo.List(context.Background(), models.PostFilter{Sort: "views; DROP TABLE posts", Order: "sideways"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewPostRepository(db)
	mock.ExpectQuery("SELECT p.id, .+ WHERE p.id").
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 42)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPostRepositoryCreateStampsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewPostRepository(db)
	teacherID := int64(3)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO posts")).
		WithArgs("Frações", "Conteúdo", "", "", &teacherID, nil, "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	post := &models.Post{Title: "Frações", Content: "Conteúdo", TeacherID: &teacherID}
	require.NoError(t, repo.Create(context.Background(), post))
	require.Equal(t, int64(9), post.ID)
	require.False(t, post.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryDeleteMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewPostRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM posts WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, repo.Delete(context.Background(), 42), sql.ErrNoRows)
}
