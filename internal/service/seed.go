package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/NeiltonSeguins/blog-school/internal/models"
	"github.com/NeiltonSeguins/blog-school/pkg/config"
)

type seedUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type seedCategoryRepository interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, category *models.Category) error
}

// defaultCategories mirrors the starter data the mock db shipped with.
var defaultCategories = []string{"Matemática", "Português", "Ciências", "História", "Geografia"}

// Seed provisions the default admin teacher and starter categories on first
// boot. Passwords must be bcrypt-hashed, which SQL migrations cannot do, so
// seeding lives here instead.
func Seed(ctx context.Context, cfg config.SeedConfig, users seedUserRepository, categories seedCategoryRepository, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := users.FindByEmail(ctx, cfg.AdminEmail); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := &models.User{
			Name:         cfg.AdminName,
			Email:        cfg.AdminEmail,
			PasswordHash: string(hash),
			Role:         models.RoleTeacher,
		}
		if err := users.Create(ctx, admin); err != nil {
			return err
		}
		logger.Info("seeded admin account", zap.String("email", cfg.AdminEmail))
	}

	total, err := categories.Count(ctx)
	if err != nil {
		return err
	}
	if total == 0 {
		for i, label := range defaultCategories {
			category := &models.Category{Label: label, SortOrder: i + 1, IsActive: true}
			if err := categories.Create(ctx, category); err != nil {
				return err
			}
		}
		logger.Info("seeded categories", zap.Int("count", len(defaultCategories)))
	}

	return nil
}
