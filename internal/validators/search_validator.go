package validators

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"rental-search/internal/models"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidQuery wraps every request validation failure.
var ErrInvalidQuery = errors.New("invalid query")

const maxSuggestionQueryLength = 100

type searchValidator struct {
	validate *validator.Validate
}

func NewSearchValidator() SearchValidator {
	v := validator.New()
	v.RegisterStructValidation(validateFilters, models.SearchFilters{})
	return &searchValidator{validate: v}
}

// validateFilters checks the cross-field price constraints.
func validateFilters(sl validator.StructLevel) {
	f := sl.Current().Interface().(models.SearchFilters)
	for name, p := range map[string]*float64{"PriceMin": f.PriceMin, "PriceMax": f.PriceMax} {
		if p != nil && (math.IsNaN(*p) || math.IsInf(*p, 0)) {
			sl.ReportError(*p, name, name, "finite", "")
		}
	}
	if f.PriceMin != nil && f.PriceMax != nil && *f.PriceMin > *f.PriceMax {
		sl.ReportError(*f.PriceMin, "PriceMin", "PriceMin", "ltefield", "PriceMax")
	}
}

func (v *searchValidator) ValidateSearch(q *models.SearchQuery) error {
	if q == nil {
		return fmt.Errorf("%w: query is required", ErrInvalidQuery)
	}
	if err := v.validate.Struct(q); err != nil {
		return describe(err)
	}
	return nil
}

func (v *searchValidator) ValidateLocation(loc *models.Location) error {
	if loc == nil {
		return nil
	}
	if err := v.validate.Struct(loc); err != nil {
		return describe(err)
	}
	return nil
}

func (v *searchValidator) ValidateSuggestionQuery(query string) error {
	if len([]rune(query)) > maxSuggestionQueryLength {
		return fmt.Errorf("%w: query must be at most %d characters", ErrInvalidQuery, maxSuggestionQueryLength)
	}
	return nil
}

// describe flattens validator errors into one ErrInvalidQuery message.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidQuery, strings.Join(parts, "; "))
}
