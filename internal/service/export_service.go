package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/NeiltonSeguins/blog-school/internal/models"
	appErrors "github.com/NeiltonSeguins/blog-school/pkg/errors"
	"github.com/NeiltonSeguins/blog-school/pkg/export"
)

// ExportFormat names a supported export encoding.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportResult carries rendered bytes plus response metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders the post catalog as CSV or PDF for admin download.
type ExportService struct {
	posts  postRepository
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService builds an ExportService.
func NewExportService(posts postRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		posts:  posts,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// Posts renders every post into the requested format.
func (s *ExportService) Posts(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	posts, _, err := s.posts.List(ctx, models.PostFilter{})
	if err != nil {
		s.logger.Error("export post listing failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list posts for export")
	}

	dataset := postDataset(posts)

	switch format {
	case ExportCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: "posts.csv"}, nil
	case ExportPDF:
		content, err := s.pdf.Render(dataset, "Posts")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: "posts.pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func postDataset(posts []models.Post) export.Dataset {
	headers := []string{"ID", "Title", "Author", "Category", "Created At"}
	rows := make([]map[string]string, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, map[string]string{
			"ID":         strconv.FormatInt(p.ID, 10),
			"Title":      p.Title,
			"Author":     p.Author,
			"Category":   p.Category,
			"Created At": p.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
