package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "arbor/internal/errors"
	"arbor/internal/services"
)

// PresetHandler handles activity-preset requests.
type PresetHandler struct {
	presetService services.PresetServicer
}

// NewPresetHandler creates a new PresetHandler.
func NewPresetHandler(presetService services.PresetServicer) *PresetHandler {
	return &PresetHandler{presetService: presetService}
}

// CreatePresetRequest represents the request payload for saving a preset.
type CreatePresetRequest struct {
	Name       string  `json:"name" binding:"required,min=1,max=100"`
	AreaID     *string `json:"area_id" binding:"omitempty,uuid"`
	CategoryID *string `json:"category_id" binding:"omitempty,uuid"`
}

// CreatePreset handles saving a navigation shortcut.
// @Summary     Create a preset
// @Description Save a shortcut to an area/category navigation target
// @Tags        presets
// @Accept      json
// @Produce     json
// @Param       request body CreatePresetRequest true "Preset details"
// @Success     201 {object} models.ActivityPreset "Preset created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Area or category not found"
// @Router      /presets [post]
func (h *PresetHandler) CreatePreset(c *gin.Context) {
	var req CreatePresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	preset, err := h.presetService.CreatePreset(req.Name, req.AreaID, req.CategoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"preset": preset})
}

// GetPresets handles listing presets.
// @Summary     Get presets
// @Description Get all saved presets, most used first
// @Tags        presets
// @Produce     json
// @Success     200 {array} models.ActivityPreset "Presets"
// @Router      /presets [get]
func (h *PresetHandler) GetPresets(c *gin.Context) {
	presets, err := h.presetService.GetPresets()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"presets": presets})
}

// UsePreset handles recording a preset use.
// @Summary     Use preset
// @Description Record a use of the preset and return its navigation target
// @Tags        presets
// @Produce     json
// @Param       id path string true "Preset ID"
// @Success     200 {object} models.ActivityPreset "Used preset"
// @Failure     400 {object} ErrorResponse "Invalid preset ID"
// @Failure     404 {object} ErrorResponse "Preset not found"
// @Router      /presets/{id}/use [post]
func (h *PresetHandler) UsePreset(c *gin.Context) {
	presetID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	preset, err := h.presetService.UsePreset(presetID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preset": preset})
}

// DeletePreset handles deleting a preset.
// @Summary     Delete preset
// @Description Delete a saved preset
// @Tags        presets
// @Produce     json
// @Param       id path string true "Preset ID"
// @Success     200 {object} MessageResponse "Preset deleted"
// @Failure     400 {object} ErrorResponse "Invalid preset ID"
// @Failure     404 {object} ErrorResponse "Preset not found"
// @Router      /presets/{id} [delete]
func (h *PresetHandler) DeletePreset(c *gin.Context) {
	presetID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.presetService.DeletePreset(presetID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Preset deleted successfully"})
}
