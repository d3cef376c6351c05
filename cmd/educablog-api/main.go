package main

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "github.com/NeiltonSeguins/blog-school/api/swagger"
	"github.com/NeiltonSeguins/blog-school/internal/repository"
	"github.com/NeiltonSeguins/blog-school/internal/server"
	"github.com/NeiltonSeguins/blog-school/internal/service"
	"github.com/NeiltonSeguins/blog-school/pkg/cache"
	"github.com/NeiltonSeguins/blog-school/pkg/config"
	"github.com/NeiltonSeguins/blog-school/pkg/database"
	"github.com/NeiltonSeguins/blog-school/pkg/logger"
)

// @title EducaBlog API
// @version 0.1.0
// @description REST backend for the school blog: posts, users, categories and auth
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logr.Sugar().Fatalw("failed to run migrations", "error", err)
	}

	rdb, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Caching is an optimization; the API stays up without it.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		rdb = nil
	} else {
		defer rdb.Close()
	}

	if cfg.Seed.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		userRepo := repository.NewUserRepository(db)
		categoryRepo := repository.NewCategoryRepository(db)
		if err := service.Seed(ctx, cfg.Seed, userRepo, categoryRepo, logr); err != nil {
			logr.Sugar().Fatalw("failed to seed database", "error", err)
		}
		cancel()
	}

	srv := server.New(cfg, db, rdb, logr)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := srv.Engine.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
