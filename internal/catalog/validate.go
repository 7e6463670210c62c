package catalog

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxNameLength caps action names, in characters.
	MaxNameLength = 40
	// MaxDescriptionLength caps action descriptions, in characters.
	MaxDescriptionLength = 300
)

var (
	// ErrNameRequired is returned when a page or action has an empty name.
	ErrNameRequired = errors.New("name is required")

	// ErrPathRequired is returned when an http action has no path.
	ErrPathRequired = errors.New("path is required for http actions")

	// ErrInvalidMethod is returned for request methods other than get, post, put and delete.
	ErrInvalidMethod = errors.New("invalid request method")

	// ErrInvalidActionType is returned for unknown action types.
	ErrInvalidActionType = errors.New("invalid action type")

	// ErrActionTypeDisabled is returned for action types that are not yet supported.
	ErrActionTypeDisabled = errors.New("action type is not yet supported")

	// ErrTooLong is returned for fields over their maximum length.
	ErrTooLong = errors.New("value too long")
)

// NormalizeAction trims surrounding whitespace, truncates the name and
// description to their maximum lengths, and defaults an unset action type to
// http and an unset method to get.
func NormalizeAction(a Action) Action {
	a.Name = truncate(strings.TrimSpace(a.Name), MaxNameLength)
	a.Description = truncate(a.Description, MaxDescriptionLength)
	a.Path = strings.TrimSpace(a.Path)
	a.ActionType = ActionType(strings.ToLower(strings.TrimSpace(string(a.ActionType))))
	if a.ActionType == "" {
		a.ActionType = ActionHTTP
	}
	a.RequestMethod = RequestMethod(strings.ToLower(strings.TrimSpace(string(a.RequestMethod))))
	if a.RequestMethod == "" {
		a.RequestMethod = MethodGet
	}
	return a
}

// ValidateAction checks an action as it would be saved from the editor.
// Callers should normalize first; over-long fields are rejected here rather
// than silently truncated.
func ValidateAction(a Action) error {
	if a.Name == "" {
		return ErrNameRequired
	}
	if n := len([]rune(a.Name)); n > MaxNameLength {
		return fmt.Errorf("%w: name is %d characters, maximum is %d", ErrTooLong, n, MaxNameLength)
	}
	if n := len([]rune(a.Description)); n > MaxDescriptionLength {
		return fmt.Errorf("%w: description is %d characters, maximum is %d", ErrTooLong, n, MaxDescriptionLength)
	}
	if a.ActionType != "" {
		if !a.ActionType.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidActionType, a.ActionType)
		}
		if a.ActionType.Disabled() {
			return fmt.Errorf("%w: %s", ErrActionTypeDisabled, a.ActionType)
		}
	}
	if a.RequestMethod != "" && !a.RequestMethod.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, a.RequestMethod)
	}
	if a.ActionType == ActionHTTP && a.Path == "" {
		return ErrPathRequired
	}
	return nil
}

// ValidatePage checks a page before it is saved.
func ValidatePage(p Page) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
