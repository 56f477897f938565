package models

type SuggestionType string

const (
	SuggestionTypeLocation SuggestionType = "location"
	SuggestionTypeProperty SuggestionType = "property"
	SuggestionTypeLandmark SuggestionType = "landmark"
	SuggestionTypeRecent   SuggestionType = "recent"
)

type SuggestionMetadata struct {
	PropertyCount   *int         `json:"propertyCount,omitempty"`
	Coordinates     *Coordinates `json:"coordinates,omitempty"`
	PopularityScore *float64     `json:"popularityScore,omitempty"`
	Weight          *float64     `json:"weight,omitempty"`
}

// Suggestion is one autocomplete candidate. ID records provenance only;
// deduplication keys on the normalized Text.
type Suggestion struct {
	ID       string             `json:"id"`
	Text     string             `json:"text"`
	Type     SuggestionType     `json:"type"`
	Icon     string             `json:"icon"`
	Metadata SuggestionMetadata `json:"metadata"`
	Score    *float64           `json:"score,omitempty"`
}

type SuggestionsResponse struct {
	Success bool         `json:"success"`
	Data    []Suggestion `json:"data"`
	Query   string       `json:"query"`
	Error   string       `json:"error,omitempty"`
}

// PopularSearch is one aggregated past query.
type PopularSearch struct {
	Query string `json:"query" bson:"query"`
	Count int64  `json:"count" bson:"count"`
}
