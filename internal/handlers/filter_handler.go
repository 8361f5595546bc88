package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "arbor/internal/errors"
	"arbor/internal/kv"
	"arbor/internal/middleware"
	"arbor/internal/selection"
)

// sessionIdleTimeout bounds how long an untouched navigator stays in
// memory. Eviction loses nothing durable: the snapshot lives in the
// key-value store and a returning session restores from it.
const sessionIdleTimeout = 24 * time.Hour

// FilterHandler exposes the navigation state machine over HTTP. Each
// session gets its own selection.Context and Selector, restored from
// the key-value store on first touch and kept in memory afterwards, so
// state survives both requests and process restarts.
type FilterHandler struct {
	loader selection.TreeLoader
	store  kv.Store

	idleTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]*sessionNav
}

type sessionNav struct {
	fc       *selection.Context
	sel      *selection.Selector
	log      *selection.RingLog
	lastSeen time.Time
}

// NewFilterHandler creates a new FilterHandler.
func NewFilterHandler(loader selection.TreeLoader, store kv.Store) *FilterHandler {
	return &FilterHandler{
		loader:      loader,
		store:       store,
		idleTimeout: sessionIdleTimeout,
		sessions:    make(map[string]*sessionNav),
	}
}

// navigator returns the session's navigator, creating and restoring it
// on first use. Each touch also sweeps navigators idle past the
// timeout so the registry cannot grow without bound.
func (h *FilterHandler) navigator(c *gin.Context) *sessionNav {
	sessionID := middleware.SessionID(c)
	now := time.Now()

	h.mu.Lock()
	for id, nav := range h.sessions {
		if now.Sub(nav.lastSeen) > h.idleTimeout {
			delete(h.sessions, id)
		}
	}
	nav, ok := h.sessions[sessionID]
	if !ok {
		ring := selection.NewRingLog(0)
		fc := selection.NewContext(h.loader, selection.NewFilterStore(h.store, sessionID), ring)
		nav = &sessionNav{
			fc:  fc,
			sel: selection.NewSelector(fc, h.loader, nil),
			log: ring,
		}
		h.sessions[sessionID] = nav
	}
	nav.lastSeen = now
	h.mu.Unlock()

	// Restore runs at most once per context; safe to call every time.
	nav.fc.Restore(c.Request.Context())
	return nav
}

func (h *FilterHandler) respondState(c *gin.Context, nav *sessionNav) {
	c.JSON(http.StatusOK, gin.H{
		"state":                nav.sel.State(),
		"filter":               nav.fc.State(),
		"selection_chain":      nav.fc.SelectionChain(),
		"dropdown_options":     nav.fc.DropdownOptions(),
		"is_leaf_category":     nav.fc.IsLeafCategory(),
		"full_path_display":    nav.fc.FullPathDisplay(),
		"has_active_filter":    nav.fc.HasActiveFilter(),
		"is_filtered":          nav.fc.IsFiltered(),
		"selected_shortcut_id": nav.fc.SelectedShortcutID(),
	})
}

// SelectAreaRequest represents the request payload for picking an area.
type SelectAreaRequest struct {
	AreaID *string `json:"area_id" binding:"omitempty,uuid"`
}

// SelectCategoryRequest represents the request payload for a category
// dropdown pick. An empty value means "go back one level".
type SelectCategoryRequest struct {
	Value string `json:"value" binding:"omitempty,uuid"`
}

// NavigatePathRequest represents a breadcrumb click.
type NavigatePathRequest struct {
	Path []selection.BreadcrumbItem `json:"path" binding:"required"`
}

// DateRangeRequest represents the request payload for setting the date
// filter.
type DateRangeRequest struct {
	DateFrom *string `json:"date_from" binding:"omitempty,iso_date"`
	DateTo   *string `json:"date_to" binding:"omitempty,iso_date"`
}

// SearchRequest represents the request payload for the free-text filter.
type SearchRequest struct {
	Query string `json:"query"`
}

// ShortcutRequest represents the request payload for marking the active
// preset.
type ShortcutRequest struct {
	PresetID *string `json:"preset_id" binding:"omitempty,uuid"`
}

// GetState handles reading the current navigation state.
// @Summary     Get navigation state
// @Description Get the session's current filter state, selection chain, and dropdown options
// @Tags        filter
// @Produce     json
// @Param       X-Session-ID header string false "Session ID"
// @Success     200 {object} map[string]any "Navigation state"
// @Router      /filter [get]
func (h *FilterHandler) GetState(c *gin.Context) {
	nav := h.navigator(c)
	nav.sel.EnsureOptions(c.Request.Context())
	h.respondState(c, nav)
}

// SelectArea handles picking (or clearing) the area.
// @Summary     Select area
// @Description Pick an area; clears category state and loads top-level options
// @Tags        filter
// @Accept      json
// @Produce     json
// @Param       X-Session-ID header string false "Session ID"
// @Param       request body SelectAreaRequest true "Area pick"
// @Success     200 {object} map[string]any "Navigation state"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /filter/area [put]
func (h *FilterHandler) SelectArea(c *gin.Context) {
	var req SelectAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	nav := h.navigator(c)
	nav.sel.OnAreaChange(c.Request.Context(), req.AreaID)
	h.respondState(c, nav)
}

// SelectCategory handles a category dropdown pick.
// @Summary     Select category
// @Description Pick a category from the offered options, or go back with an empty value
// @Tags        filter
// @Accept      json
// @Produce     json
// @Param       X-Session-ID header string false "Session ID"
// @Param       request body SelectCategoryRequest true "Category pick"
// @Success     200 {object} map[string]any "Navigation state"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /filter/category [put]
func (h *FilterHandler) SelectCategory(c *gin.Context) {
	var req SelectCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	nav := h.navigator(c)
	nav.sel.OnCategorySelect(c.Request.Context(), req.Value)
	h.respondState(c, nav)
}

// Back handles popping one level off the selection chain.
// @Summary     Navigate back
// @Description Pop one level off the selection chain
// @Tags        filter
// @Produce     json
// @Param       X-Session-ID header string false "Session ID"
// @Success     200 {object} map[string]any "Navigation state"
// @Router      /filter/back [post]
func (h *FilterHandler) Back(c *gin.Context) {
	nav := h.navigator(c)
	nav.sel.Back(c.Request.Context())
	h.respondState(c, nav)
}

// NavigateUp handles the coarse up-navigation ladder.
// @Summary     Navigate up
// @Description Walk one step up: category path, then area, then nothing
// @Tags        filter
// @Produce     json
// @Param       X-Session-ID header string false "Session ID"
// @Success     200 {object} map[string]any "Navigation state"
// @Router      /filter/up [post]
func (h *FilterHandler) NavigateUp(c *gin.Context) {
	nav := h.navigator(c)
	nav.fc.NavigateUp(c.Request.Context())
	nav.sel.EnsureOptions(c.Request.Context())
	h.respondState(c, nav)
}

// NavigateToPath handles a breadcrumb click.
// @Summary     Navigate to breadcrumb
// @Description Jump to a position described by a breadcrumb path
// @Tags        filter
// @Accept      json
// @Produce     json
// @Param       X-Session-ID header string false "Session ID"
// @Param       request body NavigatePathRequest true "Breadcrumb path"
// @Success     200 {object} map[string]any "Navigation state"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /filter/path [put]
func (h *FilterHandler) NavigateToPath(c *gin.Context) {
	var req NavigatePathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	nav := h.navigator(c)
	nav.fc.NavigateToPath(c.Request.Context(), req.Path)
	nav.sel.EnsureOptions(c.Request.Context())
	h.respondState(c, nav)
}

// Reset handles clearing all navigation state.
// @Summary     Reset filters
// @Description Clear all filter state and the persisted snapshot
// @Tags        filter
// @Produce     json
// @Param       X-Session-ID header string false "Session ID"
// @Success     200 {object} map[string]any "Navigation state"
// @Router      /filter/reset [post]
func (h *FilterHandler) Reset(c *gin.Context) {
	nav := h.navigator(c)
	nav.sel.Reset(c.Request.Context())
	h.respondState(c, nav)
}

// SetDateRange handles setting the date filter.
// @Summary     Set date range
// @Description Set the date filter independently of category navigation
// @Tags        filter
// @Accept      json
// @Produce     json
// @Param       X-Session-ID header string false "Session ID"
// @Param       request body DateRangeRequest true "Date range"
// @Success     200 {object} map[string]any "Navigation state"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /filter/dates [put]
func (h *FilterHandler) SetDateRange(c *gin.Context) {
	var req DateRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	nav := h.navigator(c)
	nav.fc.SetDateRange(c.Request.Context(), req.DateFrom, req.DateTo)
	h.respondState(c, nav)
}

// SetSearch handles setting the free-text filter.
// @Summary     Set search query
// @Description Set the free-text event filter
// @Tags        filter
// @Accept      json
// @Produce     json
// @Param       X-Session-ID header string false "Session ID"
// @Param       request body SearchRequest true "Search query"
// @Success     200 {object} map[string]any "Navigation state"
// @Router      /filter/search [put]
func (h *FilterHandler) SetSearch(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	nav := h.navigator(c)
	nav.fc.SetSearchQuery(c.Request.Context(), req.Query)
	h.respondState(c, nav)
}

// SelectShortcut handles marking the active preset.
// @Summary     Select shortcut
// @Description Mark which activity preset the session is using
// @Tags        filter
// @Accept      json
// @Produce     json
// @Param       X-Session-ID header string false "Session ID"
// @Param       request body ShortcutRequest true "Preset reference"
// @Success     200 {object} map[string]any "Navigation state"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /filter/shortcut [put]
func (h *FilterHandler) SelectShortcut(c *gin.Context) {
	var req ShortcutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	nav := h.navigator(c)
	nav.fc.SelectShortcut(c.Request.Context(), req.PresetID)
	h.respondState(c, nav)
}

// GetDebugLog handles reading the session's navigation event log.
// @Summary     Get navigation debug log
// @Description Get the most recent navigation events for the session
// @Tags        filter
// @Produce     json
// @Param       X-Session-ID header string false "Session ID"
// @Success     200 {array} selection.DebugEvent "Navigation events"
// @Router      /filter/debug [get]
func (h *FilterHandler) GetDebugLog(c *gin.Context) {
	nav := h.navigator(c)
	c.JSON(http.StatusOK, gin.H{"events": nav.log.Events()})
}
