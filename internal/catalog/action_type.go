package catalog

import "strings"

// ActionType is the closed set of ways an action can be carried out.
type ActionType string

const (
	ActionHTTP     ActionType = "http"
	ActionCallback ActionType = "callback"
	ActionLink     ActionType = "link"
)

// ActionTypes lists every known action type in display order.
func ActionTypes() []ActionType {
	return []ActionType{ActionHTTP, ActionCallback, ActionLink}
}

// Valid reports whether t is a known action type.
func (t ActionType) Valid() bool {
	switch t {
	case ActionHTTP, ActionCallback, ActionLink:
		return true
	}
	return false
}

// Disabled reports whether t is known but not yet supported.
func (t ActionType) Disabled() bool {
	switch t {
	case ActionCallback, ActionLink:
		return true
	}
	return false
}

// Label is the human-readable name shown when choosing an action type.
func (t ActionType) Label() string {
	switch t {
	case ActionHTTP:
		return "HTTP request"
	case ActionCallback:
		return "Trigger a callback (coming soon)"
	case ActionLink:
		return "Open a link (coming soon)"
	}
	return string(t)
}

// RequestMethod is the HTTP method an http action is sent with.
type RequestMethod string

const (
	MethodGet    RequestMethod = "get"
	MethodPost   RequestMethod = "post"
	MethodPut    RequestMethod = "put"
	MethodDelete RequestMethod = "delete"
)

// RequestMethods lists the supported methods in display order.
func RequestMethods() []RequestMethod {
	return []RequestMethod{MethodGet, MethodPost, MethodPut, MethodDelete}
}

// Valid reports whether m is a supported method.
func (m RequestMethod) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return true
	}
	return false
}

// Label is the upper-case method name.
func (m RequestMethod) Label() string {
	return strings.ToUpper(string(m))
}
