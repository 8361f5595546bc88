package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"arbor/internal/handlers"
	"arbor/internal/kv"
	"arbor/internal/logger"
	"arbor/internal/middleware"
	"arbor/internal/models"
	"arbor/internal/services"
	"arbor/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Store  kv.Store
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Area{},
		&models.Category{},
		&models.AttributeDefinition{},
		&models.Event{},
		&models.EventAttribute{},
		&models.LookupValue{},
		&models.ActivityPreset{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	store := kv.NewMemory()

	// Services
	areaService := services.NewAreaService(db)
	categoryService := services.NewCategoryService(db)
	attributeService := services.NewAttributeService(db)
	eventService := services.NewEventService(db, categoryService, attributeService)
	presetService := services.NewPresetService(db)
	treeLoader := services.NewCategoryTreeLoader(db)

	// Handlers
	areaHandler := handlers.NewAreaHandler(areaService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	attributeHandler := handlers.NewAttributeHandler(attributeService)
	eventHandler := handlers.NewEventHandler(eventService)
	presetHandler := handlers.NewPresetHandler(presetService)
	filterHandler := handlers.NewFilterHandler(treeLoader, store)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Session())

	v1 := router.Group("/api/v1")

	areas := v1.Group("/areas")
	areas.POST("", areaHandler.CreateArea)
	areas.GET("", areaHandler.GetAreas)
	areas.GET("/:id", areaHandler.GetAreaByID)
	areas.PUT("/:id", areaHandler.UpdateArea)
	areas.DELETE("/:id", areaHandler.DeleteArea)
	areas.GET("/:id/categories", categoryHandler.GetTopLevelCategories)

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

	attributes := v1.Group("/attributes")
	attributes.POST("/resolve-options", attributeHandler.ResolveOptions)
	attributes.PUT("/:id", attributeHandler.UpdateAttribute)
	attributes.DELETE("/:id", attributeHandler.DeleteAttribute)

	v1.GET("/lookups/:name", attributeHandler.GetLookupValues)

	events := v1.Group("/events")
	events.POST("", eventHandler.CreateEvent)
	events.GET("", eventHandler.GetEvents)
	events.GET("/:id", eventHandler.GetEventByID)
	events.PUT("/:id", eventHandler.UpdateEvent)
	events.DELETE("/:id", eventHandler.DeleteEvent)

	presets := v1.Group("/presets")
	presets.POST("", presetHandler.CreatePreset)
	presets.GET("", presetHandler.GetPresets)
	presets.POST("/:id/use", presetHandler.UsePreset)
	presets.DELETE("/:id", presetHandler.DeletePreset)

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

	return &testApp{DB: db, Store: store, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
// An empty session means the server issues one; read it from the response header.
func (app *testApp) request(method, path, body, session string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set(middleware.SessionHeader, session)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// createArea creates an area and returns its ID.
func (app *testApp) createArea(t *testing.T, name string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/areas", fmt.Sprintf(`{"name":%q}`, name), "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create area failed: %d %s", rec.Code, rec.Body.String())
	}
	area := parseJSON(t, rec)["area"].(map[string]interface{})
	return area["id"].(string)
}

// createCategory creates a top-level category in an area and returns its ID.
func (app *testApp) createCategory(t *testing.T, areaID, name string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/categories",
		fmt.Sprintf(`{"area_id":%q,"name":%q}`, areaID, name), "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	category := parseJSON(t, rec)["category"].(map[string]interface{})
	return category["id"].(string)
}

// createChildCategory creates a category under a parent and returns its ID.
func (app *testApp) createChildCategory(t *testing.T, parentID, name string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/categories",
		fmt.Sprintf(`{"parent_id":%q,"name":%q}`, parentID, name), "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create child category failed: %d %s", rec.Code, rec.Body.String())
	}
	category := parseJSON(t, rec)["category"].(map[string]interface{})
	return category["id"].(string)
}
