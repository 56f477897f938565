package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"rental-search/internal/models"
	"rental-search/internal/validators"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	search    Searcher
	validator validators.SearchValidator
	timeout   time.Duration
}

func NewSearchHandler(search Searcher, validator validators.SearchValidator, timeout time.Duration) *SearchHandler {
	return &SearchHandler{search: search, validator: validator, timeout: timeout}
}

// Search godoc
// @Summary Search rental listings
// @Description Free-text and filtered listing search, served from cache when possible
// @Tags Search
// @Produce json
// @Param q query string false "Free text"
// @Param lat query number false "Latitude"
// @Param lng query number false "Longitude"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Param sort query string false "relevance, price_asc, price_desc, date_desc or distance"
// @Param types query string false "Comma separated property types"
// @Param priceMin query number false "Minimum price"
// @Param priceMax query number false "Maximum price"
// @Success 200 {object} models.SearchResults
// @Failure 400 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	q, err := h.queryFromParams(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.run(c, q)
}

// SearchPost godoc
// @Summary Search rental listings
// @Description Same as GET /api/search with the query sent as JSON
// @Tags Search
// @Accept json
// @Produce json
// @Param query body models.SearchQuery true "Search query"
// @Success 200 {object} models.SearchResults
// @Failure 400 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/search [post]
func (h *SearchHandler) SearchPost(c *gin.Context) {
	var q models.SearchQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		_ = c.Error(fmt.Errorf("%w: %v", validators.ErrInvalidQuery, err))
		return
	}
	h.run(c, q)
}

func (h *SearchHandler) queryFromParams(c *gin.Context) (models.SearchQuery, error) {
	var (
		q   models.SearchQuery
		err error
	)
	q.Text = c.Query("q")
	q.SortBy = models.SortOrder(c.Query("sort"))
	if q.Page, err = queryInt(c, "page"); err != nil {
		return q, err
	}
	if q.Limit, err = queryInt(c, "limit"); err != nil {
		return q, err
	}
	if q.Location, err = parseLocation(c); err != nil {
		return q, err
	}
	if q.Filters, err = parseFilters(c); err != nil {
		return q, err
	}
	return q, nil
}

func (h *SearchHandler) run(c *gin.Context, q models.SearchQuery) {
	q = q.WithDefaults()
	if err := h.validator.ValidateSearch(&q); err != nil {
		_ = c.Error(err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	results, err := h.search.Search(ctx, q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// Featured godoc
// @Summary Featured listings
// @Description Featured listings, nearest first when a location is sent
// @Tags Properties
// @Produce json
// @Param lat query number false "Latitude"
// @Param lng query number false "Longitude"
// @Param limit query int false "Number of listings" default(6)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/properties/featured [get]
func (h *SearchHandler) Featured(c *gin.Context) {
	location, err := parseLocation(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.validator.ValidateLocation(location); err != nil {
		_ = c.Error(err)
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		_ = c.Error(err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	properties, err := h.search.Featured(ctx, location, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if properties == nil {
		properties = []models.Property{}
	}
	c.JSON(http.StatusOK, gin.H{"properties": properties})
}
