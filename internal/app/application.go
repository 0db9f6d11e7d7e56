package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"storefront-cms-backend/internal/background"
	"storefront-cms-backend/internal/config"
	"storefront-cms-backend/internal/handlers"
	"storefront-cms-backend/internal/middleware"
	"storefront-cms-backend/internal/models"
	"storefront-cms-backend/internal/repository"
	"storefront-cms-backend/internal/seed"
	"storefront-cms-backend/internal/service"
	"storefront-cms-backend/internal/storage"
	"storefront-cms-backend/pkg/cache"
	"storefront-cms-backend/pkg/logger"
)

type Application struct {
	cfg *config.Config

	db        *gorm.DB
	cache     *cache.Cache
	store     storage.Storage
	scheduler *background.Scheduler
	limits    *middleware.RateLimitManager

	repositories repositoryContainer
	services     serviceContainer
	handlers     handlerContainer

	router *gin.Engine
	server *http.Server

	cancel context.CancelFunc
}

type repositoryContainer struct {
	Category repository.CategoryRepository
	Product  repository.ProductRepository
	Page     repository.PageRepository
}

type serviceContainer struct {
	Category *service.CategoryService
	Product  *service.ProductService
	Upload   *service.UploadService
	Page     *service.PageService
	Landing  *service.LandingPageService
}

type handlerContainer struct {
	Catalog *handlers.CatalogHandler
	Upload  *handlers.UploadHandler
	Page    *handlers.PageHandler
	Landing *handlers.LandingPageHandler
}

func New(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &Application{
		cfg:    cfg,
		cancel: cancel,
	}

	if err := app.init(ctx); err != nil {
		cancel()
		app.closeResources()
		return nil, err
	}

	app.server = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        app.router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

func (a *Application) init(ctx context.Context) error {
	if err := a.initDatabase(); err != nil {
		return err
	}
	if err := a.runMigrations(); err != nil {
		return err
	}
	if err := a.createIndexes(); err != nil {
		return err
	}
	if err := a.initCache(); err != nil {
		return err
	}
	if err := a.initStorage(ctx); err != nil {
		return err
	}

	a.initRepositories()
	a.initScheduler(ctx)
	a.initServices()

	if a.cfg.SeedDefaults {
		a.seedDefaults(ctx)
	}

	if err := a.scheduleJobs(); err != nil {
		return err
	}

	a.initHandlers()
	a.limits = middleware.NewRateLimitManager(ctx)
	a.initRouter()
	return nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
		"storage":     a.cfg.StorageDriver,
	})

	return a.server.ListenAndServe()
}

// Shutdown stops accepting requests, then drains background jobs before
// closing the cache and database.
func (a *Application) Shutdown(ctx context.Context) error {
	var errs []error

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server: %w", err))
		}
	}

	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("scheduler: %w", err))
		}
	}

	if a.cancel != nil {
		a.cancel()
	}

	a.closeResources()
	return errors.Join(errs...)
}

func (a *Application) closeResources() {
	if a.limits != nil {
		a.limits.Shutdown()
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) initDatabase() error {
	logger.Info("Connecting to database", map[string]interface{}{
		"host": a.cfg.DBHost,
		"name": a.cfg.DBName,
	})

	db, err := gorm.Open(postgres.Open(a.cfg.DatabaseURL), &gorm.Config{
		Logger:         logger.NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	a.db = db
	return nil
}

func (a *Application) runMigrations() error {
	logger.Info("Running database migrations", nil)

	if err := a.db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Page{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migration completed", nil)
	return nil
}

func (a *Application) createIndexes() error {
	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_pages_published ON pages(published) WHERE published = true",
		"CREATE INDEX IF NOT EXISTS idx_pages_order ON pages(\"order\" ASC)",
		"CREATE INDEX IF NOT EXISTS idx_pages_sections ON pages USING GIN (sections)",
		"CREATE INDEX IF NOT EXISTS idx_categories_active ON categories(is_active) WHERE is_active = true",
		"CREATE INDEX IF NOT EXISTS idx_products_active ON products(is_active) WHERE is_active = true",
	}

	for _, stmt := range statements {
		if err := a.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func (a *Application) initCache() error {
	c, err := cache.NewCache(a.cfg.RedisURL, a.cfg.EnableCache)
	if err != nil {
		if !a.cfg.IsDevelopment() {
			return err
		}
		logger.Warn("Redis unavailable, running without cache", map[string]interface{}{"error": err.Error()})
		c, _ = cache.NewCache("", false)
	}
	a.cache = c
	return nil
}

func (a *Application) initStorage(ctx context.Context) error {
	store, err := storage.New(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.store = store
	return nil
}

func (a *Application) initRepositories() {
	a.repositories = repositoryContainer{
		Category: repository.NewCategoryRepository(a.db),
		Product:  repository.NewProductRepository(a.db),
		Page:     repository.NewPageRepository(a.db),
	}
}

func (a *Application) initScheduler(ctx context.Context) {
	a.scheduler = background.NewScheduler(background.SchedulerConfig{WorkerCount: a.cfg.SchedulerWorkers})
	a.scheduler.Start(ctx)
}

func (a *Application) initServices() {
	categories := service.NewCategoryService(a.repositories.Category, a.cache, a.cfg.ListingCacheTTL)
	products := service.NewProductService(a.repositories.Product, a.cache, a.cfg.ListingCacheTTL)
	uploads := service.NewUploadService(a.store, a.cfg.MaxUploadSize)
	pages := service.NewPageService(a.repositories.Page, a.cache)

	a.services = serviceContainer{
		Category: categories,
		Product:  products,
		Upload:   uploads,
		Page:     pages,
		Landing:  service.NewLandingPageService(pages, categories, products, uploads, a.scheduler),
	}
}

func (a *Application) seedDefaults(ctx context.Context) {
	seed.EnsureDefaultCatalog(ctx, a.services.Category, a.services.Product)
	seed.PageSeeder{
		Pages:      a.services.Page,
		Landing:    a.services.Landing,
		Categories: a.services.Category,
		Products:   a.services.Product,
	}.EnsureDefaultPages(ctx)
}

func (a *Application) scheduleJobs() error {
	interval := a.cfg.ListingCacheTTL
	if interval <= 0 || !a.cache.Enabled() {
		return nil
	}
	if err := a.scheduler.Every(interval, a.services.Landing.ListingWarmupJob()); err != nil {
		return fmt.Errorf("failed to schedule listing warm-up: %w", err)
	}
	return nil
}

func (a *Application) initHandlers() {
	a.handlers = handlerContainer{
		Catalog: handlers.NewCatalogHandler(a.services.Category, a.services.Product),
		Upload:  handlers.NewUploadHandler(a.services.Upload),
		Page:    handlers.NewPageHandler(a.services.Page),
		Landing: handlers.NewLandingPageHandler(a.services.Landing),
	}
}

func (a *Application) imageOrigins() []string {
	if a.cfg.StorageDriver != "s3" {
		return nil
	}
	return []string{strings.TrimSuffix(a.cfg.S3PublicBaseURL, "/")}
}

func (a *Application) initRouter() {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(logger.GinLogger())
	router.Use(middleware.SecurityHeadersMiddleware(a.imageOrigins()...))
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}
	router.Use(a.limits.RateLimitMiddleware(a.cfg.RateLimitRequests, a.cfg.RateLimitWindow, a.cfg.RateLimitBurst))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	if a.cfg.StorageDriver == "local" {
		uploads := router.Group(a.cfg.UploadURL)
		uploads.Use(middleware.UploadsProtection())
		uploads.Static("/", a.cfg.UploadDir)
	}

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		{
			public.GET("/categories", a.handlers.Catalog.ListCategories)
			public.GET("/categories/:id", a.handlers.Catalog.GetCategory)
			public.GET("/products", a.handlers.Catalog.ListProducts)

			public.GET("/pages", a.handlers.Page.GetAll)
			public.GET("/pages/:id", a.handlers.Page.GetByID)
			public.GET("/pages/slug/:slug", a.handlers.Page.GetBySlug)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(a.cfg.JWTSecret))
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("/pages", a.handlers.Page.GetAllAdmin)
			admin.GET("/pages/slug/:slug", a.handlers.Page.GetBySlugAdmin)
			admin.POST("/pages", a.handlers.Page.Create)
			admin.PUT("/pages/:id", a.handlers.Page.Update)
			admin.DELETE("/pages/:id", a.handlers.Page.Delete)
			admin.PUT("/pages/:id/publish", a.handlers.Page.PublishPage)
			admin.PUT("/pages/:id/unpublish", a.handlers.Page.UnpublishPage)

			uploadLimit := a.limits.UploadRateLimit(a.cfg.RateLimitRequests/4+1, a.cfg.RateLimitWindow)

			landing := admin.Group("/landing-pages")
			{
				landing.GET("/sections/new", a.handlers.Landing.NewSection)
				landing.GET("/:id/editor", a.handlers.Landing.Editor)
				landing.POST("/validate", a.handlers.Landing.Validate)
				landing.POST("", uploadLimit, a.handlers.Landing.Create)
				landing.PUT("/:id", uploadLimit, a.handlers.Landing.Update)
			}

			admin.POST("/upload", uploadLimit, a.handlers.Upload.Upload)

			admin.GET("/stats", handlers.GetStatistics(a.db))
			admin.DELETE("/cache", handlers.ClearCache(a.cache))
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Route not found",
			"path":  c.Request.URL.Path,
		})
	})

	a.router = router
}
