package main

import (
	"fmt"
	"net/http"
	"os"

	"arbor/internal/config"
	"arbor/internal/database"
	"arbor/internal/handlers"
	"arbor/internal/kv"
	"arbor/internal/logger"
	"arbor/internal/middleware"
	"arbor/internal/services"
	"arbor/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "arbor/internal/docs" // Import swagger docs
)

// @title           Arbor API
// @version         1.0
// @description     Arbor is a personal activity logger built around hierarchical category trees: navigate areas and categories, log events against leaf categories, and filter history by selection, date, and text.

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	areaService := services.NewAreaService(db)
	categoryService := services.NewCategoryService(db)
	attributeService := services.NewAttributeService(db)
	eventService := services.NewEventService(db, categoryService, attributeService)
	presetService := services.NewPresetService(db)
	treeLoader := services.NewCategoryTreeLoader(db)

	// Filter-state store: Redis when reachable, in-memory otherwise.
	// Memory loses sessions on restart but keeps the API fully usable.
	var filterStore kv.Store
	redisClient, err := kv.Connect(appConfig.RedisHost, appConfig.RedisPort, appConfig.RedisPassword)
	if err != nil {
		log.Warnf("Redis unavailable (%v), falling back to in-memory filter store", err)
		filterStore = kv.NewMemory()
	} else {
		filterStore = kv.NewRedis(redisClient, appConfig.SessionTTL)
	}

	// Initialize handlers
	areaHandler := handlers.NewAreaHandler(areaService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	attributeHandler := handlers.NewAttributeHandler(attributeService)
	eventHandler := handlers.NewEventHandler(eventService)
	presetHandler := handlers.NewPresetHandler(presetService)
	filterHandler := handlers.NewFilterHandler(treeLoader, filterStore)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.SessionHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", middleware.SessionHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Every request carries a session; new visitors get one issued.
	router.Use(middleware.Session())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Area routes
	areas := v1.Group("/areas")
	areas.POST("", areaHandler.CreateArea)
	areas.GET("", areaHandler.GetAreas)
	areas.GET("/:id", areaHandler.GetAreaByID)
	areas.PUT("/:id", areaHandler.UpdateArea)
	areas.DELETE("/:id", areaHandler.DeleteArea)
	areas.GET("/:id/categories", categoryHandler.GetTopLevelCategories)

	// Category routes
	categories := v1.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.GET("/:id/children", categoryHandler.GetChildren)
	categories.GET("/:id/leaf", categoryHandler.GetIsLeaf)
	categories.GET("/:id/path", categoryHandler.GetAncestorPath)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)
	categories.POST("/:id/attributes", attributeHandler.CreateAttribute)
	categories.GET("/:id/attributes", attributeHandler.GetCategoryAttributes)

	// Attribute routes
	attributes := v1.Group("/attributes")
	attributes.POST("/resolve-options", attributeHandler.ResolveOptions)
	attributes.PUT("/:id", attributeHandler.UpdateAttribute)
	attributes.DELETE("/:id", attributeHandler.DeleteAttribute)

	// Lookup routes
	v1.GET("/lookups/:name", attributeHandler.GetLookupValues)

	// Event routes
	events := v1.Group("/events")
	events.POST("", eventHandler.CreateEvent)
	events.GET("", eventHandler.GetEvents)
	events.GET("/:id", eventHandler.GetEventByID)
	events.PUT("/:id", eventHandler.UpdateEvent)
	events.DELETE("/:id", eventHandler.DeleteEvent)

	// Preset routes
	presets := v1.Group("/presets")
	presets.POST("", presetHandler.CreatePreset)
	presets.GET("", presetHandler.GetPresets)
	presets.POST("/:id/use", presetHandler.UsePreset)
	presets.DELETE("/:id", presetHandler.DeletePreset)

	// Filter navigation routes (session-scoped state machine)
	filter := v1.Group("/filter")
	filter.GET("", filterHandler.GetState)
	filter.PUT("/area", filterHandler.SelectArea)
	filter.PUT("/category", filterHandler.SelectCategory)
	filter.POST("/back", filterHandler.Back)
	filter.POST("/up", filterHandler.NavigateUp)
	filter.PUT("/path", filterHandler.NavigateToPath)
	filter.POST("/reset", filterHandler.Reset)
	filter.PUT("/dates", filterHandler.SetDateRange)
	filter.PUT("/search", filterHandler.SetSearch)
	filter.PUT("/shortcut", filterHandler.SelectShortcut)
	filter.GET("/debug", filterHandler.GetDebugLog)

	log.Infof("Starting Arbor backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
