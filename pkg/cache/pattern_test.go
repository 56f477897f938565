package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePattern(t *testing.T) {
	tests := []struct {
		pattern string
		valid   bool
	}{
		{"featured:*", true},
		{"search:*", true},
		{"suggestions:*", true},
		{"ratelimit:public:10-0-0-1", true},
		{"popular_searches", true},
		{"featured:*; DROP", false},
		{"*", false},
		{"", false},
		{"search:**", false},
		{"search:*:x", false},
		{"feat?red:*", false},
		{"featured:[a-z]*", false},
		{"search: *", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			err := ValidatePattern(tt.pattern)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidPattern)
			}
		})
	}
}
