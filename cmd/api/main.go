package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/syllabus-api/api/swagger"
	"github.com/noah-isme/syllabus-api/internal/handler"
	"github.com/noah-isme/syllabus-api/internal/middleware"
	"github.com/noah-isme/syllabus-api/internal/repository"
	"github.com/noah-isme/syllabus-api/internal/service"
	"github.com/noah-isme/syllabus-api/pkg/cache"
	"github.com/noah-isme/syllabus-api/pkg/config"
	"github.com/noah-isme/syllabus-api/pkg/database"
	"github.com/noah-isme/syllabus-api/pkg/jobs"
	"github.com/noah-isme/syllabus-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/syllabus-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/syllabus-api/pkg/middleware/requestid"
	"github.com/noah-isme/syllabus-api/pkg/storage"
)

// @title Syllabus API
// @version 1.0.0
// @description Course-plan management backend
// @BasePath /api/v1
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

	db, err := database.New(cfg.Database, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to open database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	if err := database.Migrate(context.Background(), db, logr); err != nil {
		logr.Sugar().Fatalw("failed to run migrations", "error", err)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, catalog cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db, logr)
	syllabusRepo := repository.NewSyllabusRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	catalogSvc := service.NewCatalogService(catalogRepo, cacheRepo, validate, logr, metricsSvc, cfg.Catalog.CacheTTL)
	syllabusSvc := service.NewSyllabusService(syllabusRepo, validate, logr)
	requestSvc := service.NewRequestService(requestRepo, validate, logr)
	importSvc := service.NewCatalogImportService(catalogRepo, cacheRepo, logr, metricsSvc, cfg.Catalog.ProgramsFile, cfg.Catalog.DisciplinesFile)

	store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(syllabusRepo, store, signer, logr)

	importQueue := jobs.NewQueue("catalog-import", func(ctx context.Context, job jobs.Job) error {
		return importSvc.Run(ctx)
	}, jobs.QueueConfig{Workers: 1, Logger: logr})
	importQueue.Start(context.Background())
	defer importQueue.Stop()

	// The import waits a beat so the store is up before the batch runs; it
	// shares no locks with request handling.
	go func() {
		time.Sleep(cfg.Catalog.ImportDelay)
		if err := importQueue.Enqueue(jobs.Job{ID: "startup", Type: "catalog-import"}); err != nil {
			logr.Sugar().Errorw("failed to enqueue catalog import", "error", err)
		}
	}()

	r := buildRouter(cfg, logr,
		handler.NewAuthHandler(authSvc),
		handler.NewCatalogHandler(catalogSvc),
		handler.NewSyllabusHandler(syllabusSvc),
		handler.NewRequestHandler(requestSvc),
		handler.NewExportHandler(exportSvc),
		handler.NewMetricsHandler(metricsSvc),
		authSvc, metricsSvc,
	)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func buildRouter(
	cfg *config.Config,
	logr *zap.Logger,
	authHandler *handler.AuthHandler,
	catalogHandler *handler.CatalogHandler,
	syllabusHandler *handler.SyllabusHandler,
	requestHandler *handler.RequestHandler,
	exportHandler *handler.ExportHandler,
	metricsHandler *handler.MetricsHandler,
	authSvc *service.AuthService,
	metricsSvc *service.MetricsService,
) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Scrape)
	r.GET("/downloads", exportHandler.Download)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	auth := middleware.JWT(authSvc)

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", auth, authHandler.Me)

	api.GET("/programs", catalogHandler.ListPrograms)
	api.GET("/disciplines", catalogHandler.ListDisciplines)
	api.POST("/disciplines", auth, catalogHandler.CreateDiscipline)

	syllabi := api.Group("/syllabi", auth)
	syllabi.GET("", syllabusHandler.List)
	syllabi.POST("", syllabusHandler.Create)
	syllabi.POST("/claim-orphans", syllabusHandler.ClaimOrphans)
	syllabi.GET("/export/csv", exportHandler.ExportCSV)
	syllabi.GET("/:id", syllabusHandler.Get)
	syllabi.PUT("/:id", syllabusHandler.Update)
	syllabi.DELETE("/:id", syllabusHandler.Delete)
	syllabi.GET("/:id/export/pdf", exportHandler.ExportPDF)

	requests := api.Group("/requests", auth)
	requests.GET("", requestHandler.ListPending)
	requests.POST("", requestHandler.Submit)
	requests.POST("/:id/accept", requestHandler.Accept)

	return r
}
