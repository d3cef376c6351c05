package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// User is a teacher or student account.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Bio       string    `json:"bio,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// UserDraft is the payload for creating or updating a teacher or student.
// Password may be left empty on updates to keep the current one.
type UserDraft struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Subject  string `json:"subject,omitempty"`
}

// UsersService accesses the /users, /teachers and /students endpoints.
type UsersService struct {
	client *Client
}

// List fetches all users, optionally filtered by role ("teacher" or
// "student").
func (s *UsersService) List(ctx context.Context, role string) ([]User, error) {
	path := "/users"
	if role != "" {
		path += "?role=" + url.QueryEscape(role)
	}

	var users []User
	if err := s.client.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListTeachers fetches the teacher collection.
func (s *UsersService) ListTeachers(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.client.do(ctx, http.MethodGet, "/teachers", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListStudents fetches the student collection.
func (s *UsersService) ListStudents(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.client.do(ctx, http.MethodGet, "/students", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetTeacher fetches one teacher by id.
func (s *UsersService) GetTeacher(ctx context.Context, id int64) (*User, error) {
	return s.get(ctx, "/teachers", id)
}

// GetStudent fetches one student by id.
func (s *UsersService) GetStudent(ctx context.Context, id int64) (*User, error) {
	return s.get(ctx, "/students", id)
}

// CreateTeacher adds a teacher account.
func (s *UsersService) CreateTeacher(ctx context.Context, draft UserDraft) (*User, error) {
	return s.create(ctx, "/teachers", draft)
}

// CreateStudent adds a student account.
func (s *UsersService) CreateStudent(ctx context.Context, draft UserDraft) (*User, error) {
	return s.create(ctx, "/students", draft)
}

// UpdateTeacher replaces a teacher's profile.
func (s *UsersService) UpdateTeacher(ctx context.Context, id int64, draft UserDraft) (*User, error) {
	return s.update(ctx, "/teachers", id, draft)
}

// UpdateStudent replaces a student's profile.
func (s *UsersService) UpdateStudent(ctx context.Context, id int64, draft UserDraft) (*User, error) {
	return s.update(ctx, "/students", id, draft)
}

// DeleteTeacher removes a teacher account.
func (s *UsersService) DeleteTeacher(ctx context.Context, id int64) error {
	return s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/teachers/%d", id), nil, nil)
}

// DeleteStudent removes a student account.
func (s *UsersService) DeleteStudent(ctx context.Context, id int64) error {
	return s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/students/%d", id), nil, nil)
}

func (s *UsersService) get(ctx context.Context, prefix string, id int64) (*User, error) {
	var user User
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", prefix, id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UsersService) create(ctx context.Context, prefix string, draft UserDraft) (*User, error) {
	var user User
	if err := s.client.do(ctx, http.MethodPost, prefix, draft, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UsersService) update(ctx context.Context, prefix string, id int64, draft UserDraft) (*User, error) {
	var user User
	if err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", prefix, id), draft, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
