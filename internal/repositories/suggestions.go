package repositories

import "rental-search/internal/models"

const (
	locationWeight = 0.9
	locationIcon   = "map-pin"
)

// neighborhood is one row of the neighborhoods collection/table.
type neighborhood struct {
	ID            string              `bson:"_id"`
	Name          string              `bson:"name"`
	Coordinates   *models.Coordinates `bson:"coordinates,omitempty"`
	PropertyCount int                 `bson:"propertyCount"`
}

func (n neighborhood) suggestion() models.Suggestion {
	weight := locationWeight
	count := n.PropertyCount
	return models.Suggestion{
		ID:   "neighborhood-" + n.ID,
		Text: n.Name,
		Type: models.SuggestionTypeLocation,
		Icon: locationIcon,
		Metadata: models.SuggestionMetadata{
			PropertyCount: &count,
			Coordinates:   n.Coordinates,
			Weight:        &weight,
		},
	}
}

func pageOffset(q models.SearchQuery) int64 {
	return int64((q.Page - 1) * q.Limit)
}

func buildResults(properties []models.Property, total int64, q models.SearchQuery) *models.SearchResults {
	if properties == nil {
		properties = []models.Property{}
	}
	return &models.SearchResults{
		Properties: properties,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		HasMore:    pageOffset(q)+int64(len(properties)) < total,
	}
}

// farAway stands in for missing coordinates so unlocated listings sort last by distance.
const farAway = 1000.0
