package cache

import (
	"fmt"
	"regexp"
)

var patternRe = regexp.MustCompile(`^[A-Za-z0-9:_-]+\*?$`)

// ValidatePattern accepts literal keys and prefix globs such as "featured:*".
func ValidatePattern(pattern string) error {
	if !patternRe.MatchString(pattern) {
		return fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}
	return nil
}
