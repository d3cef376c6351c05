package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NeiltonSeguins/blog-school/internal/models"
	appErrors "github.com/NeiltonSeguins/blog-school/pkg/errors"
)

func TestExportServicePostsCSV(t *testing.T) {
	repo := &mockPostRepo{posts: []models.Post{
		{ID: 1, Title: "Frações", Author: "Ana", Category: "Matemática", CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
	}, total: 1}
	svc := NewExportService(repo, zap.NewNop())

	result, err := svc.Posts(context.Background(), ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "posts.csv", result.Filename)

	content := string(result.Content)
	assert.True(t, strings.HasPrefix(content, "ID,Title,Author,Category,Created At"))
	assert.Contains(t, content, "1,Frações,Ana,Matemática,2024-03-01 10:00")
}

func TestExportServicePostsPDF(t *testing.T) {
	repo := &mockPostRepo{posts: []models.Post{{ID: 1, Title: "Frações"}}, total: 1}
	svc := NewExportService(repo, zap.NewNop())

	result, err := svc.Posts(context.Background(), ExportPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.NotEmpty(t, result.Content)
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(&mockPostRepo{}, zap.NewNop())

	_, err := svc.Posts(context.Background(), ExportFormat("xml"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
