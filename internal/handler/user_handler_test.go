package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NeiltonSeguins/blog-school/internal/models"
	"github.com/NeiltonSeguins/blog-school/internal/service"
)

type fakeUserRepo struct {
	users []models.User
}

func (f *fakeUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	if filter.Role == nil {
		return f.users, nil
	}
	var out []models.User
	for _, u := range f.users {
		if u.Role == *filter.Role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			copied := u
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = int64(len(f.users) + 1)
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

func newUserRouter(repo *fakeUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewUserService(repo, validator.New(), zap.NewNop())
	h := NewUserHandler(svc)

	r := gin.New()
	r.GET("/users", h.List)
	for prefix, role := range map[string]models.UserRole{
		"/teachers": models.RoleTeacher,
		"/students": models.RoleStudent,
	} {
		g := r.Group(prefix)
		g.GET("", h.ListByRole(role))
		g.GET("/:id", h.GetByRole(role))
		g.POST("", h.CreateByRole(role))
		g.PUT("/:id", h.UpdateByRole(role))
		g.DELETE("/:id", h.DeleteByRole(role))
	}
	return r
}

func rosterRepo() *fakeUserRepo {
	return &fakeUserRepo{users: []models.User{
		{ID: 1, Name: "Ana", Email: "ana@blog.com", Role: models.RoleTeacher, Subject: "Matemática"},
		{ID: 2, Name: "Bia", Email: "bia@blog.com", Role: models.RoleStudent},
	}}
}

func TestUserHandlerRolePartitionedCollections(t *testing.T) {
	r := newUserRouter(rosterRepo())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teachers", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var teachers []models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &teachers))
	require.Len(t, teachers, 1)
	assert.Equal(t, "Ana", teachers[0].Name)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var students []models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &students))
	require.Len(t, students, 1)
	assert.Equal(t, "Bia", students[0].Name)
}

func TestUserHandlerRoleQueryFilter(t *testing.T) {
	r := newUserRouter(rosterRepo())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users?role=professor", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var users []models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, models.RoleTeacher, users[0].Role)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users?role=alien", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandlerCrossRoleLookupIsNotFound(t *testing.T) {
	r := newUserRouter(rosterRepo())

	// User 2 is a student; the teacher item endpoint must not expose them.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teachers/2", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students/2", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUserHandlerCreateTeacherNeverLeaksPassword(t *testing.T) {
	r := newUserRouter(&fakeUserRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/teachers", strings.NewReader(`{"name":"Ana","email":"ana@blog.com","password":"123","subject":"Matemática"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, models.RoleTeacher, user.Role)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "hash")
}

func TestUserHandlerDeleteRespectsRole(t *testing.T) {
	r := newUserRouter(rosterRepo())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/students/1", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/students/2", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
}
