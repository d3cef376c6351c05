package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NeiltonSeguins/blog-school/internal/models"
	"github.com/NeiltonSeguins/blog-school/internal/service"
	appErrors "github.com/NeiltonSeguins/blog-school/pkg/errors"
	"github.com/NeiltonSeguins/blog-school/pkg/response"
)

// PostHandler exposes the post CRUD and search endpoints.
type PostHandler struct {
	service *service.PostService
}

// NewPostHandler creates a new handler.
func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{service: svc}
}

// List godoc
// @Summary List posts
// @Description List posts, optionally filtered by q and paginated by page/limit.
// @Description Without page/limit the body is a bare array; with either, `{total, items}`.
// @Tags Posts
// @Produce json
// @Param q query string false "Search term"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field (createdAt, updatedAt, title)"
// @Param order query string false "Sort order (asc, desc)"
// @Success 200 {array} models.Post
// @Router /posts [get]
func (h *PostHandler) List(c *gin.Context) {
	filter := models.PostFilter{
		Query: strings.TrimSpace(c.Query("q")),
		Sort:  c.Query("sort"),
		Order: c.Query("order"),
	}
	filter.Page, _ = strconv.Atoi(c.Query("page"))
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))

	posts, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	if filter.Paginated() {
		response.Paginated(c, total, posts)
		return
	}
	response.JSON(c, http.StatusOK, posts)
}

// Search godoc
// @Summary Search posts
// @Tags Posts
// @Produce json
// @Param q query string false "Search term"
// @Success 200 {array} models.Post
// @Router /posts/search [get]
func (h *PostHandler) Search(c *gin.Context) {
	posts, err := h.service.Search(c.Request.Context(), strings.TrimSpace(c.Query("q")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, posts)
}

// Get godoc
// @Summary Get post by id
// @Tags Posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} map[string]string
// @Router /posts/{id} [get]
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	post, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, post)
}

// Create godoc
// @Summary Create post
// @Tags Posts
// @Accept json
// @Produce json
// @Param payload body service.CreatePostRequest true "Post payload"
// @Success 201 {object} models.Post
// @Failure 400 {object} map[string]string
// @Router /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req service.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid post payload"))
		return
	}

	post, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, post)
}

// Update godoc
// @Summary Update post
// @Tags Posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param payload body service.UpdatePostRequest true "Post payload"
// @Success 200 {object} models.Post
// @Failure 404 {object} map[string]string
// @Router /posts/{id} [put]
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid post payload"))
		return
	}

	post, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, post)
}

// Delete godoc
// @Summary Delete post
// @Tags Posts
// @Param id path int true "Post ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /posts/{id} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
