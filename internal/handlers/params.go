package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"rental-search/internal/models"
	"rental-search/internal/validators"

	"github.com/gin-gonic/gin"
)

func invalidParam(name, value string) error {
	return fmt.Errorf("%w: %s=%q is not valid", validators.ErrInvalidQuery, name, value)
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParam(name, raw)
	}
	return v, nil
}

func queryFloat(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, invalidParam(name, raw)
	}
	return &v, nil
}

func queryBool(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, invalidParam(name, raw)
	}
	return &v, nil
}

// queryList splits a comma separated parameter, dropping empty items.
func queryList(c *gin.Context, name string) []string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func queryInts(c *gin.Context, name string) ([]int, error) {
	items := queryList(c, name)
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		v, err := strconv.Atoi(item)
		if err != nil {
			return nil, invalidParam(name, item)
		}
		out = append(out, v)
	}
	return out, nil
}

// parseLocation reads lat/lng (plus optional accuracy and source). Both
// coordinates must be present or both absent.
func parseLocation(c *gin.Context) (*models.Location, error) {
	lat, err := queryFloat(c, "lat")
	if err != nil {
		return nil, err
	}
	lng, err := queryFloat(c, "lng")
	if err != nil {
		return nil, err
	}
	if lat == nil && lng == nil {
		return nil, nil
	}
	if lat == nil || lng == nil {
		return nil, fmt.Errorf("%w: lat and lng must be sent together", validators.ErrInvalidQuery)
	}
	accuracy, err := queryFloat(c, "accuracy")
	if err != nil {
		return nil, err
	}
	return &models.Location{
		Lat:      *lat,
		Lng:      *lng,
		Accuracy: accuracy,
		Source:   models.LocationSource(c.Query("source")),
	}, nil
}

// parseFilters reads the listing filters from query parameters. It returns
// nil when no filter was sent.
func parseFilters(c *gin.Context) (*models.SearchFilters, error) {
	var (
		f   models.SearchFilters
		err error
	)
	if f.PriceMin, err = queryFloat(c, "priceMin"); err != nil {
		return nil, err
	}
	if f.PriceMax, err = queryFloat(c, "priceMax"); err != nil {
		return nil, err
	}
	for _, t := range queryList(c, "types") {
		f.PropertyTypes = append(f.PropertyTypes, models.PropertyType(t))
	}
	if f.Bedrooms, err = queryInts(c, "bedrooms"); err != nil {
		return nil, err
	}
	if f.Bathrooms, err = queryInts(c, "bathrooms"); err != nil {
		return nil, err
	}
	f.Amenities = queryList(c, "amenities")
	if f.Furnished, err = queryBool(c, "furnished"); err != nil {
		return nil, err
	}
	if f.PetFriendly, err = queryBool(c, "petFriendly"); err != nil {
		return nil, err
	}
	if f.Parking, err = queryBool(c, "parking"); err != nil {
		return nil, err
	}
	if raw := c.Query("availableFrom"); raw != "" {
		day, perr := time.Parse("2006-01-02", raw)
		if perr != nil {
			return nil, invalidParam("availableFrom", raw)
		}
		f.AvailableFrom = &day
	}
	if f.IsZero() {
		return nil, nil
	}
	return &f, nil
}
