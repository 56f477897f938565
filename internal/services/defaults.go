package services

import (
	"strings"

	"rental-search/internal/models"
)

func weightPtr(w float64) *float64 { return &w }

// defaultSuggestions is served for queries too short to fan out on. A
// caller location adds a nearby entry.
func defaultSuggestions(location *models.Location) []models.Suggestion {
	list := make([]models.Suggestion, 0, 8)
	if location != nil {
		list = append(list, models.Suggestion{
			ID:   "nearby",
			Text: "Rentals near you",
			Type: models.SuggestionTypeLocation,
			Icon: locationIcon,
			Metadata: models.SuggestionMetadata{
				Coordinates: &models.Coordinates{Lat: location.Lat, Lng: location.Lng},
				Weight:      weightPtr(0.8),
			},
		})
	}
	for _, t := range []models.PropertyType{models.PropertyTypeApartment, models.PropertyTypeHouse, models.PropertyTypeRoom} {
		list = append(list, propertyTypeSuggestion(t, "default-"))
	}
	for _, l := range landmarks {
		coords := l.coords
		list = append(list, models.Suggestion{
			ID:   "landmark-" + slug(l.name),
			Text: l.name,
			Type: models.SuggestionTypeLandmark,
			Icon: landmarkIcon,
			Metadata: models.SuggestionMetadata{
				Coordinates: &coords,
				Weight:      weightPtr(0.7),
			},
		})
	}
	return list
}

var landmarks = []struct {
	name   string
	coords models.Coordinates
}{
	{"Colonia Palmira", models.Coordinates{Lat: 14.0931, Lng: -87.1903}},
	{"Lomas del Guijarro", models.Coordinates{Lat: 14.1012, Lng: -87.1756}},
	{"Boulevard Morazán", models.Coordinates{Lat: 14.0967, Lng: -87.1870}},
	{"Centro Histórico", models.Coordinates{Lat: 14.1058, Lng: -87.2043}},
}

// literalSuggestion offers to run the caller's text as a plain search.
func literalSuggestion(query string) models.Suggestion {
	return models.Suggestion{
		ID:       "search-" + slug(query),
		Text:     strings.TrimSpace(query),
		Type:     models.SuggestionTypeProperty,
		Icon:     searchIcon,
		Metadata: models.SuggestionMetadata{Weight: weightPtr(1)},
	}
}

func slug(s string) string {
	return strings.ReplaceAll(models.NormalizeText(s), " ", "-")
}
