package router

import (
	"time"

	"kantocollect/internal/config"
	"kantocollect/internal/handler"
	"kantocollect/internal/middleware"
	"kantocollect/internal/repository"
	"kantocollect/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB
func New(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	txRepo := repository.NewTransactionRepository(db)
	allocRepo := repository.NewAllocationRepository(db)
	imgRepo := repository.NewProductImageRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	ingestSvc := service.NewIngestService(txRepo)
	reportSvc := service.NewReportService(txRepo, imgRepo)
	allocSvc := service.NewAllocationService(allocRepo, imgRepo, reportSvc)
	adminSvc := service.NewAdminService(txRepo, imgRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	ingestH := handler.NewIngestHandler(ingestSvc)
	itemsH := handler.NewItemsHandler(reportSvc, adminSvc)
	allocationsH := handler.NewAllocationsHandler(allocSvc)
	metadataH := handler.NewMetadataHandler(adminSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db))

	v1 := r.Group("/v1")
	{
		v1.POST("/ingest", ingestH.Ingest)

		v1.GET("/items", itemsH.List)
		v1.POST("/items", itemsH.Add)
		v1.PUT("/items/quantity", itemsH.UpdateQuantity)
		v1.DELETE("/items", itemsH.Delete)

		alloc := v1.Group("/allocations")
		{
			alloc.GET("", allocationsH.Summary)
			alloc.POST("/assign", allocationsH.Assign)
			alloc.PUT("/quantity", allocationsH.UpdateQuantity)
			alloc.POST("/move", allocationsH.Move)
			alloc.POST("/remove", allocationsH.Remove)
			alloc.POST("/import", allocationsH.Import)
		}

		meta := v1.Group("/metadata")
		{
			meta.PUT("/image", metadataH.UpdateImage)
			meta.PUT("/name", metadataH.UpdateName)
			meta.PUT("/price", metadataH.UpdatePrice)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
