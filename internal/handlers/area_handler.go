package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "arbor/internal/errors"
	"arbor/internal/services"
)

// AreaHandler handles area-related requests.
type AreaHandler struct {
	areaService services.AreaServicer
}

// NewAreaHandler creates a new AreaHandler.
func NewAreaHandler(areaService services.AreaServicer) *AreaHandler {
	return &AreaHandler{areaService: areaService}
}

// CreateAreaRequest represents the request payload for creating an area.
type CreateAreaRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color" binding:"omitempty,hex_color"`
	SortOrder   int    `json:"sort_order"`
}

// UpdateAreaRequest represents the request payload for updating an area.
type UpdateAreaRequest struct {
	Name        string `json:"name" binding:"omitempty,min=1,max=100"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color" binding:"omitempty,hex_color"`
	SortOrder   *int   `json:"sort_order"`
}

// CreateArea handles the creation of a new area.
// @Summary     Create an area
// @Description Create a new top-level activity area
// @Tags        areas
// @Accept      json
// @Produce     json
// @Param       request body CreateAreaRequest true "Area details"
// @Success     201 {object} models.Area "Area created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /areas [post]
func (h *AreaHandler) CreateArea(c *gin.Context) {
	var req CreateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	area, err := h.areaService.CreateArea(req.Name, req.Description, req.Icon, req.Color, req.SortOrder)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"area": area})
}

// GetAreas handles listing all areas.
// @Summary     Get areas
// @Description Get all activity areas in display order
// @Tags        areas
// @Produce     json
// @Success     200 {array} models.Area "List of areas"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /areas [get]
func (h *AreaHandler) GetAreas(c *gin.Context) {
	areas, err := h.areaService.GetAreas()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"areas": areas})
}

// GetAreaByID handles retrieving a single area.
// @Summary     Get area by ID
// @Description Get a specific area by ID
// @Tags        areas
// @Produce     json
// @Param       id path string true "Area ID"
// @Success     200 {object} models.Area "Area details"
// @Failure     400 {object} ErrorResponse "Invalid area ID"
// @Failure     404 {object} ErrorResponse "Area not found"
// @Router      /areas/{id} [get]
func (h *AreaHandler) GetAreaByID(c *gin.Context) {
	areaID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	area, err := h.areaService.GetAreaByID(areaID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"area": area})
}

// UpdateArea handles updating an area.
// @Summary     Update area
// @Description Update an existing area
// @Tags        areas
// @Accept      json
// @Produce     json
// @Param       id path string true "Area ID"
// @Param       request body UpdateAreaRequest true "Updated area details"
// @Success     200 {object} models.Area "Updated area"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Area not found"
// @Router      /areas/{id} [put]
func (h *AreaHandler) UpdateArea(c *gin.Context) {
	areaID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	area, err := h.areaService.UpdateArea(areaID, req.Name, req.Description, req.Icon, req.Color, req.SortOrder)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"area": area})
}

// DeleteArea handles deleting an area.
// @Summary     Delete area
// @Description Delete an area that has no categories
// @Tags        areas
// @Produce     json
// @Param       id path string true "Area ID"
// @Success     200 {object} MessageResponse "Area deleted"
// @Failure     400 {object} ErrorResponse "Invalid area ID"
// @Failure     404 {object} ErrorResponse "Area not found"
// @Failure     409 {object} ErrorResponse "Area still has categories"
// @Router      /areas/{id} [delete]
func (h *AreaHandler) DeleteArea(c *gin.Context) {
	areaID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.areaService.DeleteArea(areaID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Area deleted successfully"})
}
