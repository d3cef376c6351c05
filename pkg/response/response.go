package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/NeiltonSeguins/blog-school/pkg/errors"
)

// The EducaBlog clients predate any response envelope: success bodies are the
// bare resource (or array), and every error body is `{"message": ...}`.

// ListEnvelope is the paginated shape of GET /posts when paging params are set.
type ListEnvelope struct {
	Total int         `json:"total"`
	Items interface{} `json:"items"`
}

// JSON sends a success payload as-is.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Paginated responds with the `{total, items}` list envelope.
func Paginated(c *gin.Context, total int, items interface{}) {
	JSON(c, http.StatusOK, ListEnvelope{Total: total, Items: items})
}

// Error converts any error into the `{"message": ...}` contract shape.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, gin.H{"message": appErr.Message})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
