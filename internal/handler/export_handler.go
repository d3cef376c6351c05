package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/NeiltonSeguins/blog-school/internal/service"
	"github.com/NeiltonSeguins/blog-school/pkg/response"
)

// ExportHandler serves post exports as downloadable files.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Posts godoc
// @Summary Export posts
// @Description Export all posts as CSV (default) or PDF
// @Tags Posts
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "Export format (csv, pdf)" default(csv)
// @Success 200 {file} file
// @Security BearerAuth
// @Router /posts/export [get]
func (h *ExportHandler) Posts(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportCSV)))

	result, err := h.service.Posts(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(200, result.ContentType, result.Content)
}
