package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"curator/internal/api/handlers"
	"curator/internal/api/middleware"
	"curator/internal/config"
	"curator/internal/database"
	"curator/internal/events"
	"curator/internal/logger"
	"curator/internal/services/attributes"
	"curator/internal/services/variants"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config    *config.Config
	logger    *logger.Logger
	db        *database.Database
	router    *gin.Engine
	publisher *events.Publisher
	server    *http.Server
}

func New(cfg *config.Config, log *logger.Logger, db *database.Database) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())

	// Events are optional: without brokers the publisher stays nil and drops.
	var publisher *events.Publisher
	if cfg.KafkaBrokers != "" {
		publisher = events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
	}

	// Services
	attrService := attributes.NewService(db.DB, log)
	generator := variants.NewGenerator(db.DB, log, attrService, publisher)

	// Initialize handlers
	brandHandler := handlers.NewBrandHandler(db.DB, log)
	catalogHandler := handlers.NewCatalogHandler(db.DB, log)
	productHandler := handlers.NewProductHandler(db.DB, log)
	attributeHandler := handlers.NewAttributeHandler(attrService, log)
	variantHandler := handlers.NewVariantHandler(db.DB, log, attrService, generator)

	// Routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.JWTSecret, log))
	{
		// Brands
		brands := v1.Group("/brands")
		{
			brands.GET("", brandHandler.List)
			brands.GET("/:id", brandHandler.Get)
			brands.POST("", brandHandler.Create)
			brands.PUT("/:id", brandHandler.Update)
			brands.DELETE("/:id", brandHandler.Delete)
		}

		// Catalogs
		catalogs := v1.Group("/catalogs")
		{
			catalogs.GET("", catalogHandler.List)
			catalogs.GET("/:id", catalogHandler.Get)
			catalogs.POST("", catalogHandler.Create)
			catalogs.PUT("/:id", catalogHandler.Update)
			catalogs.DELETE("/:id", catalogHandler.Delete)
		}

		// Products
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.POST("", productHandler.Create)
			products.PUT("/:id", productHandler.Update)
			products.DELETE("/:id", productHandler.Delete)

			// Attribute schemas
			products.GET("/:id/attributes", attributeHandler.List)
			products.POST("/:id/attributes", attributeHandler.Create)
			products.GET("/:id/combinable-options", attributeHandler.CombinableOptions)
			products.GET("/:id/combinations", attributeHandler.Combinations)
			products.GET("/:id/attribute-schema", attributeHandler.ProductSchema)
			products.POST("/:id/validate-values", attributeHandler.ValidateValues)

			// Variants
			products.GET("/:id/variants", variantHandler.List)
			products.POST("/:id/variants", variantHandler.Create)
			products.POST("/:id/variants/generate", variantHandler.Generate)
		}

		// Attribute schemas addressed by their own id
		attrs := v1.Group("/attributes")
		{
			attrs.POST("/reorder", attributeHandler.Reorder)
			attrs.GET("/:id", attributeHandler.Get)
			attrs.PUT("/:id", attributeHandler.Update)
			attrs.DELETE("/:id", attributeHandler.Delete)
			attrs.POST("/:id/options", attributeHandler.AddOption)
			attrs.DELETE("/:id/options/:value", attributeHandler.RemoveOption)
		}

		// Variants addressed by their own id
		variantRoutes := v1.Group("/variants")
		{
			variantRoutes.PUT("/:id", variantHandler.Update)
			variantRoutes.DELETE("/:id", variantHandler.Delete)
		}
	}

	return &Server{
		config:    cfg,
		logger:    log,
		db:        db,
		router:    router,
		publisher: publisher,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on %s", addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if err := s.publisher.Close(); err != nil {
		s.logger.Error("closing event publisher: %v", err)
	}
	return s.server.Shutdown(ctx)
}

// GetRouter exposes the router for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
