package server

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/NeiltonSeguins/blog-school/internal/handler"
	"github.com/NeiltonSeguins/blog-school/internal/middleware"
	"github.com/NeiltonSeguins/blog-school/internal/models"
	"github.com/NeiltonSeguins/blog-school/internal/repository"
	"github.com/NeiltonSeguins/blog-school/internal/service"
	"github.com/NeiltonSeguins/blog-school/pkg/config"
	"github.com/NeiltonSeguins/blog-school/pkg/logger"
	corsmiddleware "github.com/NeiltonSeguins/blog-school/pkg/middleware/cors"
	reqidmiddleware "github.com/NeiltonSeguins/blog-school/pkg/middleware/requestid"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Server bundles the gin engine with the services the routes depend on.
type Server struct {
	Engine *gin.Engine

	Auth       *service.AuthService
	Posts      *service.PostService
	Users      *service.UserService
	Categories *service.CategoryService
	Export     *service.ExportService
	Metrics    *service.MetricsService
}

// New builds the full router: repositories, services, handlers and routes.
func New(cfg *config.Config, db *sqlx.DB, rdb *redis.Client, logr *zap.Logger) *Server {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	var cacheRepo service.ListCache
	if cfg.Cache.Enabled && rdb != nil {
		cacheRepo = repository.NewCacheRepository(rdb, logr)
	}

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	postSvc := service.NewPostService(postRepo, cacheRepo, cfg.Cache.TTL, validate, logr).WithMetrics(metricsSvc)
	userSvc := service.NewUserService(userRepo, validate, logr)
	categorySvc := service.NewCategoryService(categoryRepo, validate, logr).WithCache(cacheRepo, cfg.Cache.TTL)
	exportSvc := service.NewExportService(postRepo, logr)

	s := &Server{
		Auth:       authSvc,
		Posts:      postSvc,
		Users:      userSvc,
		Categories: categorySvc,
		Export:     exportSvc,
		Metrics:    metricsSvc,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	s.Engine = r
	s.registerRoutes(cfg, db, rdb)
	return s
}

func (s *Server) registerRoutes(cfg *config.Config, db *sqlx.DB, rdb *redis.Client) {
	r := s.Engine

	authHandler := handler.NewAuthHandler(s.Auth)
	postHandler := handler.NewPostHandler(s.Posts)
	userHandler := handler.NewUserHandler(s.Users)
	categoryHandler := handler.NewCategoryHandler(s.Categories)
	exportHandler := handler.NewExportHandler(s.Export)
	healthHandler := handler.NewHealthHandler(db, rdb, Version)

	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.POST("/login", authHandler.Login)
	r.POST("/register", authHandler.Register)
	r.POST("/auth/login", authHandler.RoleLogin)

	// Post reads are public so the feed renders before sign-in.
	r.GET("/posts", postHandler.List)
	r.GET("/posts/search", postHandler.Search)
	r.GET("/posts/:id", postHandler.Get)

	auth := middleware.RequireBearer(s.Auth)

	r.POST("/posts", auth, postHandler.Create)
	r.PUT("/posts/:id", auth, postHandler.Update)
	r.DELETE("/posts/:id", auth, postHandler.Delete)
	r.GET("/posts/export", auth, exportHandler.Posts)

	r.GET("/users", auth, userHandler.List)

	s.registerRoleRoutes(r, "/teachers", models.RoleTeacher, userHandler, auth)
	s.registerRoleRoutes(r, "/students", models.RoleStudent, userHandler, auth)

	r.GET("/categories", auth, categoryHandler.List)
	r.GET("/categories/:id", auth, categoryHandler.Get)
	r.POST("/categories", auth, categoryHandler.Create)
	r.PUT("/categories/:id", auth, categoryHandler.Update)
	r.DELETE("/categories/:id", auth, categoryHandler.Delete)
}

func (s *Server) registerRoleRoutes(r *gin.Engine, prefix string, role models.UserRole, h *handler.UserHandler, auth gin.HandlerFunc) {
	g := r.Group(prefix, auth)
	g.GET("", h.ListByRole(role))
	g.GET("/:id", h.GetByRole(role))
	g.POST("", h.CreateByRole(role))
	g.PUT("/:id", h.UpdateByRole(role))
	g.DELETE("/:id", h.DeleteByRole(role))
}
