package handlers

import (
	"fmt"
	"net/http"

	"rental-search/internal/validators"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	cache       CacheInvalidator
	search      Searcher
	suggestions Suggester
}

func NewAdminHandler(cache CacheInvalidator, search Searcher, suggestions Suggester) *AdminHandler {
	return &AdminHandler{cache: cache, search: search, suggestions: suggestions}
}

type InvalidateRequest struct {
	Pattern string `json:"pattern" binding:"required"`
}

type InvalidateResponse struct {
	Deleted int `json:"deleted"`
}

// InvalidatePattern godoc
// @Summary Evict cache entries by pattern
// @Description Deletes every cache key matching a prefix pattern such as search:*
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body InvalidateRequest true "Key pattern"
// @Security BearerAuth
// @Success 200 {object} InvalidateResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/admin/cache/invalidate [post]
func (h *AdminHandler) InvalidatePattern(c *gin.Context) {
	var req InvalidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(fmt.Errorf("%w: %v", validators.ErrInvalidQuery, err))
		return
	}

	deleted, err := h.cache.Invalidate(c.Request.Context(), req.Pattern)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, InvalidateResponse{Deleted: deleted})
}

// InvalidateListings godoc
// @Summary Evict cached search results and featured lists
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} InvalidateResponse
// @Router /api/admin/cache/listings [delete]
func (h *AdminHandler) InvalidateListings(c *gin.Context) {
	deleted, err := h.search.InvalidateListings(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, InvalidateResponse{Deleted: deleted})
}

// InvalidateSuggestions godoc
// @Summary Evict cached suggestions and the popular searches list
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} InvalidateResponse
// @Router /api/admin/cache/suggestions [delete]
func (h *AdminHandler) InvalidateSuggestions(c *gin.Context) {
	deleted, err := h.suggestions.InvalidateSuggestions(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, InvalidateResponse{Deleted: deleted})
}
