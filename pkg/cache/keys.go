package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"rental-search/internal/models"

	"golang.org/x/crypto/blake2b"
)

const (
	SearchPrefix      = "search:"
	SuggestionsPrefix = "suggestions:"
	FeaturedPrefix    = "featured:"
	RateLimitPrefix   = "ratelimit:"

	SearchPattern      = SearchPrefix + "*"
	SuggestionsPattern = SuggestionsPrefix + "*"
	FeaturedPattern    = FeaturedPrefix + "*"

	// PopularSearchesKey holds the cached popular-query list.
	PopularSearchesKey = "popular:searches"

	globalBucket = "global"
)

// canonicalSearch fixes field order and defaults so equal queries encode to
// equal bytes. Floats and dates are pre-formatted so encoding cannot fail.
type canonicalSearch struct {
	Text     string           `json:"text"`
	Location *string          `json:"location"`
	Filters  canonicalFilter  `json:"filters"`
	SortBy   models.SortOrder `json:"sortBy"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

type canonicalFilter struct {
	PriceMin      *string               `json:"priceMin,omitempty"`
	PriceMax      *string               `json:"priceMax,omitempty"`
	PropertyTypes []models.PropertyType `json:"propertyTypes,omitempty"`
	Bedrooms      []int                 `json:"bedrooms,omitempty"`
	Bathrooms     []int                 `json:"bathrooms,omitempty"`
	Amenities     []string              `json:"amenities,omitempty"`
	Furnished     *bool                 `json:"furnished,omitempty"`
	PetFriendly   *bool                 `json:"petFriendly,omitempty"`
	Parking       *bool                 `json:"parking,omitempty"`
	AvailableFrom string                `json:"availableFrom,omitempty"`
}

func canonicalFilters(f *models.SearchFilters) canonicalFilter {
	if f == nil {
		return canonicalFilter{}
	}
	n := f.Normalized()
	out := canonicalFilter{
		PriceMin:      formatPrice(n.PriceMin),
		PriceMax:      formatPrice(n.PriceMax),
		PropertyTypes: n.PropertyTypes,
		Bedrooms:      n.Bedrooms,
		Bathrooms:     n.Bathrooms,
		Amenities:     n.Amenities,
		Furnished:     n.Furnished,
		PetFriendly:   n.PetFriendly,
		Parking:       n.Parking,
	}
	if n.AvailableFrom != nil {
		out.AvailableFrom = n.AvailableFrom.Format("2006-01-02")
	}
	return out
}

func formatPrice(p *float64) *string {
	if p == nil {
		return nil
	}
	s := strconv.FormatFloat(*p, 'g', -1, 64)
	return &s
}

// SearchKey derives the results-cache key: a hex BLAKE2b-256 digest of the
// canonical JSON form of q.
func SearchKey(q models.SearchQuery) string {
	q = q.WithDefaults()

	c := canonicalSearch{
		Text:   models.NormalizeText(q.Text),
		SortBy: q.SortBy,
		Page:   q.Page,
		Limit:  q.Limit,
	}
	if q.Location != nil {
		bucket := LocationBucket(*q.Location)
		c.Location = &bucket
	}
	c.Filters = canonicalFilters(q.Filters)

	data, err := json.Marshal(c)
	if err != nil {
		panic(fmt.Sprintf("cache: encoding canonical search query: %v", err))
	}
	sum := blake2b.Sum256(data)
	return SearchPrefix + hex.EncodeToString(sum[:])
}

// LocationBucket rounds each coordinate to 3 decimals (about 110 m) and joins them with '_'.
func LocationBucket(loc models.Location) string {
	return formatCoord(loc.Lat) + "_" + formatCoord(loc.Lng)
}

func formatCoord(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(r, 'f', 3, 64)
}

func bucketOrGlobal(loc *models.Location) string {
	if loc == nil {
		return globalBucket
	}
	return LocationBucket(*loc)
}

// SuggestionKey partitions suggestion responses by normalized query, limit and location bucket.
func SuggestionKey(query string, loc *models.Location, limit int) string {
	key := fmt.Sprintf("%s%s:%d", SuggestionsPrefix, models.NormalizeText(query), limit)
	if loc != nil {
		key += ":" + LocationBucket(*loc)
	}
	return key
}

func FeaturedKey(loc *models.Location, limit int) string {
	return fmt.Sprintf("%s%s:%d", FeaturedPrefix, bucketOrGlobal(loc), limit)
}

// RateLimitKey names the fixed-window counter for one (scope, identity) pair.
func RateLimitKey(scope, identity string) string {
	return RateLimitPrefix + scope + ":" + identity
}
