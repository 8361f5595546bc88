package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "arbor/internal/errors"
	"arbor/internal/models"
	"arbor/internal/services"
)

// AttributeHandler handles attribute-definition requests.
type AttributeHandler struct {
	attributeService services.AttributeServicer
}

// NewAttributeHandler creates a new AttributeHandler.
func NewAttributeHandler(attributeService services.AttributeServicer) *AttributeHandler {
	return &AttributeHandler{attributeService: attributeService}
}

// CreateAttributeRequest represents the request payload for creating an
// attribute definition.
type CreateAttributeRequest struct {
	Name            string          `json:"name" binding:"required,min=1,max=100"`
	Slug            string          `json:"slug"`
	DataType        models.DataType `json:"data_type" binding:"required,data_type"`
	Unit            string          `json:"unit"`
	IsRequired      bool            `json:"is_required"`
	DefaultValue    *string         `json:"default_value"`
	ValidationRules string          `json:"validation_rules"`
	SortOrder       int             `json:"sort_order"`
}

// UpdateAttributeRequest represents the request payload for updating an
// attribute definition.
type UpdateAttributeRequest struct {
	Name            string  `json:"name" binding:"omitempty,min=1,max=100"`
	Unit            string  `json:"unit"`
	IsRequired      *bool   `json:"is_required"`
	DefaultValue    *string `json:"default_value"`
	ValidationRules *string `json:"validation_rules"`
	SortOrder       *int    `json:"sort_order"`
}

// ResolveOptionsRequest represents the request payload for resolving an
// attribute's effective options on a selection path.
type ResolveOptionsRequest struct {
	CategoryIDs   []string          `json:"category_ids" binding:"required,min=1"`
	Slug          string            `json:"slug" binding:"required"`
	SiblingValues map[string]string `json:"sibling_values"`
}

// CreateAttribute handles attaching an attribute definition to a category.
// @Summary     Create an attribute
// @Description Attach a typed attribute definition to a category
// @Tags        attributes
// @Accept      json
// @Produce     json
// @Param       id path string true "Category ID"
// @Param       request body CreateAttributeRequest true "Attribute details"
// @Success     201 {object} models.AttributeDefinition "Attribute created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id}/attributes [post]
func (h *AttributeHandler) CreateAttribute(c *gin.Context) {
	categoryID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	def, err := h.attributeService.CreateAttribute(
		categoryID, req.Name, req.Slug, req.DataType, req.Unit,
		req.IsRequired, req.DefaultValue, req.ValidationRules, req.SortOrder,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"attribute": def})
}

// GetCategoryAttributes handles listing a category's own attributes.
// @Summary     Get category attributes
// @Description Get the attribute definitions attached to a category
// @Tags        attributes
// @Produce     json
// @Param       id path string true "Category ID"
// @Success     200 {array} models.AttributeDefinition "Attribute definitions"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Router      /categories/{id}/attributes [get]
func (h *AttributeHandler) GetCategoryAttributes(c *gin.Context) {
	categoryID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	defs, err := h.attributeService.GetCategoryAttributes(categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attributes": defs})
}

// ResolveOptions handles computing an attribute's effective options.
// @Summary     Resolve attribute options
// @Description Resolve the effective option list for an attribute on a selection path, honoring sibling dependencies
// @Tags        attributes
// @Accept      json
// @Produce     json
// @Param       request body ResolveOptionsRequest true "Resolution parameters"
// @Success     200 {object} services.ResolvedOptions "Effective options"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Attribute not found on path"
// @Router      /attributes/resolve-options [post]
func (h *AttributeHandler) ResolveOptions(c *gin.Context) {
	var req ResolveOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	resolved, err := h.attributeService.ResolveOptions(req.CategoryIDs, req.Slug, req.SiblingValues)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": resolved})
}

// GetLookupValues handles retrieving a named lookup list.
// @Summary     Get lookup values
// @Description Get a named lookup list, optionally scoped by parent key
// @Tags        attributes
// @Produce     json
// @Param       name path string true "Lookup name"
// @Param       parent_key query string false "Parent key for dependent lookups"
// @Success     200 {array} models.LookupValue "Lookup values"
// @Router      /lookups/{name} [get]
func (h *AttributeHandler) GetLookupValues(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "lookup name is required"))
		return
	}

	var parentKey *string
	if v, ok := c.GetQuery("parent_key"); ok {
		parentKey = &v
	}

	values, err := h.attributeService.GetLookupValues(name, parentKey)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"values": values})
}

// UpdateAttribute handles updating an attribute definition.
// @Summary     Update attribute
// @Description Update an existing attribute definition
// @Tags        attributes
// @Accept      json
// @Produce     json
// @Param       id path string true "Attribute ID"
// @Param       request body UpdateAttributeRequest true "Updated attribute details"
// @Success     200 {object} models.AttributeDefinition "Updated attribute"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Attribute not found"
// @Router      /attributes/{id} [put]
func (h *AttributeHandler) UpdateAttribute(c *gin.Context) {
	attributeID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	def, err := h.attributeService.UpdateAttribute(
		attributeID, req.Name, req.Unit, req.IsRequired,
		req.DefaultValue, req.ValidationRules, req.SortOrder,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attribute": def})
}

// DeleteAttribute handles deleting an attribute definition.
// @Summary     Delete attribute
// @Description Delete an attribute definition
// @Tags        attributes
// @Produce     json
// @Param       id path string true "Attribute ID"
// @Success     200 {object} MessageResponse "Attribute deleted"
// @Failure     400 {object} ErrorResponse "Invalid attribute ID"
// @Failure     404 {object} ErrorResponse "Attribute not found"
// @Router      /attributes/{id} [delete]
func (h *AttributeHandler) DeleteAttribute(c *gin.Context) {
	attributeID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.attributeService.DeleteAttribute(attributeID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attribute deleted successfully"})
}
