package validators

import (
	"rental-search/internal/models"
)

type SearchValidator interface {
	ValidateSearch(q *models.SearchQuery) error
	ValidateLocation(loc *models.Location) error
	ValidateSuggestionQuery(query string) error
}
