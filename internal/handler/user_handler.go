package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NeiltonSeguins/blog-school/internal/models"
	"github.com/NeiltonSeguins/blog-school/internal/service"
	appErrors "github.com/NeiltonSeguins/blog-school/pkg/errors"
	"github.com/NeiltonSeguins/blog-school/pkg/response"
)

// UserHandler serves both the flat /users collection and the role-partitioned
// /teachers and /students collections that share the same storage.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Param role query string false "Filter by role (teacher, student)"
// @Param q query string false "Search by name or email"
// @Success 200 {array} models.User
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter models.UserFilter
	filter.Search = strings.TrimSpace(c.Query("q"))

	if raw := c.Query("role"); raw != "" {
		role, ok := models.ParseRole(raw)
		if !ok {
			response.Error(c, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid role"))
			return
		}
		filter.Role = &role
	}

	users, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users)
}

// ListByRole returns the collection handler for a fixed role, backing the
// /teachers and /students routes.
func (h *UserHandler) ListByRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := h.service.ListByRole(c.Request.Context(), role)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, users)
	}
}

// GetByRole returns the item handler for a fixed role. A user stored under a
// different role is reported as not found rather than leaked across
// collections.
func (h *UserHandler) GetByRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		user, err := h.service.GetByRole(c.Request.Context(), role, id)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, user)
	}
}

// CreateByRole returns the creation handler for a fixed role.
func (h *UserHandler) CreateByRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid user payload"))
			return
		}

		user, err := h.service.CreateWithRole(c.Request.Context(), role, req)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, user)
	}
}

// UpdateByRole returns the update handler for a fixed role.
func (h *UserHandler) UpdateByRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		var req service.UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid user payload"))
			return
		}

		user, err := h.service.UpdateWithRole(c.Request.Context(), role, id, req)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, user)
	}
}

// DeleteByRole returns the delete handler for a fixed role.
func (h *UserHandler) DeleteByRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		if err := h.service.DeleteWithRole(c.Request.Context(), role, id); err != nil {
			response.Error(c, err)
			return
		}
		response.NoContent(c)
	}
}
