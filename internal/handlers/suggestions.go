package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"rental-search/internal/validators"
	"rental-search/pkg/logger"

	"github.com/gin-gonic/gin"
)

const maxSuggestionQueryRunes = 100

type SuggestionHandler struct {
	suggestions Suggester
	validator   validators.SearchValidator
	timeout     time.Duration
}

func NewSuggestionHandler(suggestions Suggester, validator validators.SearchValidator, timeout time.Duration) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions, validator: validator, timeout: timeout}
}

// GetSuggestions godoc
// @Summary Autocomplete suggestions
// @Description Ranked suggestions for a partial query. Always answers 200; degraded answers carry success=false.
// @Tags Search
// @Produce json
// @Param q query string false "Partial query"
// @Param lat query number false "Latitude"
// @Param lng query number false "Longitude"
// @Param limit query int false "Number of suggestions" default(8)
// @Success 200 {object} models.SuggestionsResponse
// @Failure 429 {object} map[string]interface{}
// @Router /api/search/suggestions [get]
func (h *SuggestionHandler) GetSuggestions(c *gin.Context) {
	query := c.Query("q")
	if err := h.validator.ValidateSuggestionQuery(query); err != nil {
		query = string([]rune(query)[:maxSuggestionQueryRunes])
	}

	// Malformed optional parameters are dropped rather than rejected.
	location, err := parseLocation(c)
	if err == nil {
		err = h.validator.ValidateLocation(location)
	}
	if err != nil {
		logger.GlobalLogger.Debugf("suggestions: ignoring location: %v", err)
		location = nil
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	c.JSON(http.StatusOK, h.suggestions.GetSuggestions(ctx, query, location, limit))
}
