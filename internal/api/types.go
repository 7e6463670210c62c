package api

import (
	"github.com/joestump/joe-copilot/internal/catalog"
	"github.com/joestump/joe-copilot/internal/prompt"
	"github.com/joestump/joe-copilot/internal/store"
)

// --- Organization types ---

// OrgRequest is the request body for POST /orgs and PUT /orgs/{orgID}.
type OrgRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// OrgListResponse wraps a list of organizations.
type OrgListResponse struct {
	Organizations []*store.Organization `json:"organizations"`
}

// --- Page types ---

// PageRequest is the request body for creating or updating a page.
type PageRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PageListResponse wraps an organization's pages in catalog order.
type PageListResponse struct {
	Pages []*store.Page `json:"pages"`
}

// --- Action types ---

// ActionListResponse wraps a page's actions in catalog order.
type ActionListResponse struct {
	Actions []*store.Action `json:"actions"`
}

// ActionTypeOption describes one selectable action type.
type ActionTypeOption struct {
	Value    catalog.ActionType `json:"value"`
	Label    string             `json:"label"`
	Disabled bool               `json:"disabled"`
}

// RequestMethodOption describes one selectable request method.
type RequestMethodOption struct {
	Value catalog.RequestMethod `json:"value"`
	Label string                `json:"label"`
}

// ActionTypesResponse lists the choices offered when editing an action.
type ActionTypesResponse struct {
	ActionTypes    []ActionTypeOption    `json:"action_types"`
	RequestMethods []RequestMethodOption `json:"request_methods"`
}

// --- Catalog types ---

// ReplaceCatalogRequest is the request body for PUT /orgs/{orgID}/catalog.
type ReplaceCatalogRequest struct {
	Pages []catalog.Page `json:"pages"`
}

// --- Copilot types ---

// PromptResponse is the assembled message list for one conversation turn.
type PromptResponse struct {
	Messages []prompt.Message `json:"messages"`
}

// CommandsResponse is the rendered command list for a page.
type CommandsResponse struct {
	Page     string `json:"page"`
	Commands string `json:"commands"`
}
