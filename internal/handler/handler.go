package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/NeiltonSeguins/blog-school/pkg/errors"
	"github.com/NeiltonSeguins/blog-school/pkg/response"
)

// pathID parses the numeric :id route parameter. On failure it writes the
// error response and returns false so callers can bail out early.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid id"))
		return 0, false
	}
	return id, true
}
