package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "arbor/internal/errors"
	"arbor/internal/models"
	"arbor/internal/services"
)

// --- mock category service ---

type mockCategoryService struct {
	createCategoryFn        func(areaID, parentID *string, name, slug, description string, sortOrder int) (*models.Category, error)
	getCategoryByIDFn       func(categoryID string) (*models.Category, error)
	getTopLevelCategoriesFn func(areaID string) ([]models.Category, error)
	getChildrenFn           func(parentID string) ([]models.Category, error)
	isLeafFn                func(categoryID string) (bool, error)
	getAncestorPathFn       func(categoryID string) ([]models.Category, error)
	getDescendantIDsFn      func(categoryID string) ([]string, error)
	updateCategoryFn        func(categoryID, name, description string, sortOrder *int, parentID *string) (*models.Category, error)
	deleteCategoryFn        func(categoryID string) error
}

func (m *mockCategoryService) CreateCategory(areaID, parentID *string, name, slug, description string, sortOrder int) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(areaID, parentID, name, slug, description, sortOrder)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) GetCategoryByID(categoryID string) (*models.Category, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(categoryID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) GetTopLevelCategories(areaID string) ([]models.Category, error) {
	if m.getTopLevelCategoriesFn != nil {
		return m.getTopLevelCategoriesFn(areaID)
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) GetChildren(parentID string) ([]models.Category, error) {
	if m.getChildrenFn != nil {
		return m.getChildrenFn(parentID)
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) IsLeaf(categoryID string) (bool, error) {
	if m.isLeafFn != nil {
		return m.isLeafFn(categoryID)
	}
	return true, nil
}

func (m *mockCategoryService) GetAncestorPath(categoryID string) ([]models.Category, error) {
	if m.getAncestorPathFn != nil {
		return m.getAncestorPathFn(categoryID)
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) GetDescendantIDs(categoryID string) ([]string, error) {
	if m.getDescendantIDsFn != nil {
		return m.getDescendantIDsFn(categoryID)
	}
	return []string{categoryID}, nil
}

func (m *mockCategoryService) UpdateCategory(categoryID, name, description string, sortOrder *int, parentID *string) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(categoryID, name, description, sortOrder, parentID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(categoryID string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(categoryID)
	}
	return nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

const testUUID = "01890a5d-ac96-774b-bcce-b302099a8057"

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	r.POST("/categories", handler.CreateCategory)
	r.GET("/categories/:id", handler.GetCategoryByID)
	r.GET("/categories/:id/children", handler.GetChildren)
	r.GET("/categories/:id/path", handler.GetAncestorPath)
	r.PUT("/categories/:id", handler.UpdateCategory)
	r.DELETE("/categories/:id", handler.DeleteCategory)
	r.GET("/areas/:id/categories", handler.GetTopLevelCategories)
	return r
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockCategoryService{
			createCategoryFn: func(areaID, parentID *string, name, slug, description string, sortOrder int) (*models.Category, error) {
				return &models.Category{
					Base:   models.Base{ID: testUUID},
					AreaID: areaID,
					Name:   name,
					Level:  1,
				}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "POST", "/categories",
			`{"area_id":"`+testUUID+`","name":"Strength"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		category := result["category"].(map[string]interface{})
		if category["name"] != "Strength" {
			t.Errorf("expected Strength, got %v", category["name"])
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doRequest(r, "POST", "/categories", `{"area_id":"`+testUUID+`"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("maps service errors", func(t *testing.T) {
		svc := &mockCategoryService{
			createCategoryFn: func(_, _ *string, _, _, _ string, _ int) (*models.Category, error) {
				return nil, apperrors.ErrAreaNotFound
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "POST", "/categories",
			`{"area_id":"`+testUUID+`","name":"Strength"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "AREA_NOT_FOUND")
	})
}

func TestCategoryHandler_GetChildren(t *testing.T) {
	t.Run("reports leaf when no children", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doRequest(r, "GET", "/categories/"+testUUID+"/children", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["is_leaf"] != true {
			t.Errorf("expected is_leaf true, got %v", result["is_leaf"])
		}
	})

	t.Run("returns 400 on malformed ID", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doRequest(r, "GET", "/categories/abc/children", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	t.Run("returns 409 when category has children", func(t *testing.T) {
		svc := &mockCategoryService{
			deleteCategoryFn: func(string) error { return apperrors.ErrCategoryHasChildren },
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "DELETE", "/categories/"+testUUID, "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_HAS_CHILDREN")
	})
}
