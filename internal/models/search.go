package models

import (
	"sort"
	"strings"
	"time"
)

type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeRoom       PropertyType = "room"
	PropertyTypeStudio     PropertyType = "studio"
	PropertyTypeOffice     PropertyType = "office"
	PropertyTypeCommercial PropertyType = "commercial"
)

type SortOrder string

const (
	SortRelevance SortOrder = "relevance"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortDateDesc  SortOrder = "date_desc"
	SortDistance  SortOrder = "distance"
)

const (
	DefaultPage        = 1
	DefaultSearchLimit = 20
	MaxSearchLimit     = 50
)

// SearchFilters holds the optional listing filters. Nil pointers and empty
// slices mean "not filtered".
type SearchFilters struct {
	PriceMin      *float64       `json:"priceMin,omitempty" validate:"omitempty,gte=0"`
	PriceMax      *float64       `json:"priceMax,omitempty" validate:"omitempty,gte=0"`
	PropertyTypes []PropertyType `json:"propertyTypes,omitempty" validate:"omitempty,dive,oneof=apartment house room studio office commercial"`
	Bedrooms      []int          `json:"bedrooms,omitempty" validate:"omitempty,dive,gte=0,lte=20"`
	Bathrooms     []int          `json:"bathrooms,omitempty" validate:"omitempty,dive,gte=0,lte=20"`
	Amenities     []string       `json:"amenities,omitempty" validate:"omitempty,dive,max=64"`
	Furnished     *bool          `json:"furnished,omitempty"`
	PetFriendly   *bool          `json:"petFriendly,omitempty"`
	Parking       *bool          `json:"parking,omitempty"`
	AvailableFrom *time.Time     `json:"availableFrom,omitempty"`
}

// Normalized returns an order-independent copy: sets sorted and deduplicated,
// amenities case-folded, the availability date truncated to a UTC day.
func (f SearchFilters) Normalized() SearchFilters {
	out := f

	if len(f.PropertyTypes) > 0 {
		seen := make(map[PropertyType]struct{}, len(f.PropertyTypes))
		types := make([]PropertyType, 0, len(f.PropertyTypes))
		for _, t := range f.PropertyTypes {
			t = PropertyType(strings.ToLower(strings.TrimSpace(string(t))))
			if _, ok := seen[t]; ok || t == "" {
				continue
			}
			seen[t] = struct{}{}
			types = append(types, t)
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
		out.PropertyTypes = types
	}
	out.Bedrooms = uniqueSortedInts(f.Bedrooms)
	out.Bathrooms = uniqueSortedInts(f.Bathrooms)
	out.Amenities = uniqueSortedTokens(f.Amenities)

	if f.AvailableFrom != nil {
		day := f.AvailableFrom.UTC().Truncate(24 * time.Hour)
		out.AvailableFrom = &day
	}
	if len(out.PropertyTypes) == 0 {
		out.PropertyTypes = nil
	}
	return out
}

// IsZero reports whether no filter is set.
func (f SearchFilters) IsZero() bool {
	return f.PriceMin == nil && f.PriceMax == nil &&
		len(f.PropertyTypes) == 0 && len(f.Bedrooms) == 0 && len(f.Bathrooms) == 0 &&
		len(f.Amenities) == 0 && f.Furnished == nil && f.PetFriendly == nil &&
		f.Parking == nil && f.AvailableFrom == nil
}

func uniqueSortedInts(in []int) []int {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func uniqueSortedTokens(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.ToLower(strings.TrimSpace(v))
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

type SearchQuery struct {
	Text     string         `json:"text,omitempty" validate:"max=200"`
	Location *Location      `json:"location,omitempty"`
	Filters  *SearchFilters `json:"filters,omitempty"`
	Page     int            `json:"page" validate:"gte=1"`
	Limit    int            `json:"limit" validate:"gte=1,lte=50"`
	SortBy   SortOrder      `json:"sortBy" validate:"oneof=relevance price_asc price_desc date_desc distance"`
}

// WithDefaults fills page, limit and sort order when the caller left them out.
func (q SearchQuery) WithDefaults() SearchQuery {
	if q.Page <= 0 {
		q.Page = DefaultPage
	}
	if q.Limit <= 0 {
		q.Limit = DefaultSearchLimit
	}
	if q.SortBy == "" {
		q.SortBy = SortRelevance
	}
	return q
}

// NormalizeText case-folds and collapses whitespace in free-text queries.
func NormalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

type SearchResults struct {
	Properties []Property `json:"properties"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	HasMore    bool       `json:"hasMore"`
	FromCache  bool       `json:"fromCache"`
}
