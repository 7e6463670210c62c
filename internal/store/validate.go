package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joestump/joe-copilot/internal/catalog"
)

const (
	// MaxNameLength matches the VARCHAR(255) name columns.
	MaxNameLength = 255
	// MaxDescriptionLength matches the VARCHAR(2000) organization and page description columns.
	MaxDescriptionLength = 2000
)

var (
	// ErrNameRequired is returned when an organization or page name is blank.
	ErrNameRequired = errors.New("name is required")

	// ErrInvalidResponses is returned when an action's responses are not valid JSON.
	ErrInvalidResponses = errors.New("responses is not valid JSON")
)

// ValidateName checks an organization or page name and returns it trimmed.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if n := len([]rune(name)); n > MaxNameLength {
		return "", fmt.Errorf("%w: name is %d characters, maximum is %d", catalog.ErrTooLong, n, MaxNameLength)
	}
	return name, nil
}

// ValidateDescription rejects descriptions that would not fit their column.
func ValidateDescription(description string) error {
	if n := len([]rune(description)); n > MaxDescriptionLength {
		return fmt.Errorf("%w: description is %d characters, maximum is %d", catalog.ErrTooLong, n, MaxDescriptionLength)
	}
	return nil
}
