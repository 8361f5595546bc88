package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "arbor/internal/errors"
	"arbor/internal/services"
)

// CategoryHandler handles category-tree requests.
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents the request payload for creating a category.
// Exactly one of area_id (for level-1 categories) or parent_id must be set.
type CreateCategoryRequest struct {
	AreaID      *string `json:"area_id"`
	ParentID    *string `json:"parent_id"`
	Name        string  `json:"name" binding:"required,min=1,max=100"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	SortOrder   int     `json:"sort_order"`
}

// UpdateCategoryRequest represents the request payload for updating a category.
type UpdateCategoryRequest struct {
	Name        string  `json:"name" binding:"omitempty,min=1,max=100"`
	Description string  `json:"description"`
	SortOrder   *int    `json:"sort_order"`
	ParentID    *string `json:"parent_id"`
}

// CreateCategory handles the creation of a new category.
// @Summary     Create a category
// @Description Create a new category under an area or parent category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} models.Category "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Area or parent not found"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(
		req.AreaID, req.ParentID, req.Name, req.Slug, req.Description, req.SortOrder,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// GetTopLevelCategories handles listing an area's first two levels.
// @Summary     Get top-level categories
// @Description Get the level-1 and level-2 categories of an area
// @Tags        categories
// @Produce     json
// @Param       id path string true "Area ID"
// @Success     200 {array} models.Category "Top-level categories"
// @Failure     400 {object} ErrorResponse "Invalid area ID"
// @Router      /areas/{id}/categories [get]
func (h *CategoryHandler) GetTopLevelCategories(c *gin.Context) {
	areaID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.GetTopLevelCategories(areaID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategoryByID handles retrieving a single category.
// @Summary     Get category by ID
// @Description Get a specific category by ID
// @Tags        categories
// @Produce     json
// @Param       id path string true "Category ID"
// @Success     200 {object} models.Category "Category details"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	categoryID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// GetChildren handles listing a category's immediate children.
// @Summary     Get child categories
// @Description Get the immediate children of a category
// @Tags        categories
// @Produce     json
// @Param       id path string true "Category ID"
// @Success     200 {array} models.Category "Child categories"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Router      /categories/{id}/children [get]
func (h *CategoryHandler) GetChildren(c *gin.Context) {
	categoryID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	children, err := h.categoryService.GetChildren(categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	leaf := len(children) == 0
	c.JSON(http.StatusOK, gin.H{"categories": children, "is_leaf": leaf})
}

// GetIsLeaf handles the leaf probe for a category.
// @Summary     Check leaf status
// @Description Report whether a category has no children
// @Tags        categories
// @Produce     json
// @Param       id path string true "Category ID"
// @Success     200 {object} map[string]bool "Leaf flag"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Router      /categories/{id}/leaf [get]
func (h *CategoryHandler) GetIsLeaf(c *gin.Context) {
	categoryID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	leaf, err := h.categoryService.IsLeaf(categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_leaf": leaf})
}

// GetAncestorPath handles retrieving the root-first path to a category.
// @Summary     Get category path
// @Description Get the full path from the root category down to this one
// @Tags        categories
// @Produce     json
// @Param       id path string true "Category ID"
// @Success     200 {array} models.Category "Root-first path"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id}/path [get]
func (h *CategoryHandler) GetAncestorPath(c *gin.Context) {
	categoryID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	path, err := h.categoryService.GetAncestorPath(categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

// UpdateCategory handles updating a category.
// @Summary     Update category
// @Description Update or reparent an existing category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id path string true "Category ID"
// @Param       request body UpdateCategoryRequest true "Updated category details"
// @Success     200 {object} models.Category "Updated category"
// @Failure     400 {object} ErrorResponse "Invalid input or cycle"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.UpdateCategory(categoryID, req.Name, req.Description, req.SortOrder, req.ParentID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory handles deleting a category.
// @Summary     Delete category
// @Description Delete a category that has no children
// @Tags        categories
// @Produce     json
// @Param       id path string true "Category ID"
// @Success     200 {object} MessageResponse "Category deleted"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Category has children"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(categoryID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
