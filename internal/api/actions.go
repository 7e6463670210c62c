package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/joe-copilot/internal/catalog"
	"github.com/joestump/joe-copilot/internal/store"
)

// actionsAPIHandler provides REST handlers for a page's actions.
type actionsAPIHandler struct {
	pages   *store.PageStore
	actions *store.ActionStore
}

func registerActionRoutes(r chi.Router, pages *store.PageStore, actions *store.ActionStore) {
	h := &actionsAPIHandler{pages: pages, actions: actions}
	r.Route("/orgs/{orgID}/pages/{pageID}/actions", func(r chi.Router) {
		r.Use(h.requirePage)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{actionID}", h.Get)
		r.Put("/{actionID}", h.Update)
		r.Delete("/{actionID}", h.Delete)
	})
}

// requirePage answers 404 unless the page exists and belongs to the organization.
func (h *actionsAPIHandler) requirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.pages.GetByID(r.Context(), chi.URLParam(r, "orgID"), chi.URLParam(r, "pageID")); err != nil {
			writeAPIError(w, "get page", err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// List returns the page's actions in catalog order.
// GET /api/v1/orgs/{orgID}/pages/{pageID}/actions
//
// @Summary      List actions
// @Tags         Actions
// @Produce      json
// @Param        orgID   path      string  true  "Organization ID"
// @Param        pageID  path      string  true  "Page ID"
// @Success      200     {object}  ActionListResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Security     BearerToken
// @Router       /orgs/{orgID}/pages/{pageID}/actions [get]
func (h *actionsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	actions, err := h.actions.ListByPage(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		writeAPIError(w, "list actions", err)
		return
	}
	writeJSON(w, http.StatusOK, ActionListResponse{Actions: actions})
}

// Create appends an action to the page.
// POST /api/v1/orgs/{orgID}/pages/{pageID}/actions
//
// @Summary      Create an action
// @Description  Action type defaults to http and request method to get. Only http actions are accepted.
// @Tags         Actions
// @Accept       json
// @Produce      json
// @Param        orgID   path      string          true  "Organization ID"
// @Param        pageID  path      string          true  "Page ID"
// @Param        body    body      catalog.Action  true  "Action to create"
// @Success      201     {object}  store.Action
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Failure      409     {object}  ErrorResponse
// @Security     BearerToken
// @Router       /orgs/{orgID}/pages/{pageID}/actions [post]
func (h *actionsAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req catalog.Action
	if !decodeJSON(w, r, &req) {
		return
	}
	action, err := h.actions.Create(r.Context(), chi.URLParam(r, "pageID"), req)
	if err != nil {
		writeAPIError(w, "create action", err)
		return
	}
	writeJSON(w, http.StatusCreated, action)
}

// Get returns one action.
// GET /api/v1/orgs/{orgID}/pages/{pageID}/actions/{actionID}
//
// @Summary      Get an action
// @Tags         Actions
// @Produce      json
// @Param        orgID     path      string  true  "Organization ID"
// @Param        pageID    path      string  true  "Page ID"
// @Param        actionID  path      string  true  "Action ID"
// @Success      200       {object}  store.Action
// @Failure      401       {object}  ErrorResponse
// @Failure      404       {object}  ErrorResponse
// @Security     BearerToken
// @Router       /orgs/{orgID}/pages/{pageID}/actions/{actionID} [get]
func (h *actionsAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	action, err := h.actions.GetByID(r.Context(), chi.URLParam(r, "pageID"), chi.URLParam(r, "actionID"))
	if err != nil {
		writeAPIError(w, "get action", err)
		return
	}
	writeJSON(w, http.StatusOK, action)
}

// Update replaces an action's definition. Its position on the page is kept.
// PUT /api/v1/orgs/{orgID}/pages/{pageID}/actions/{actionID}
//
// @Summary      Update an action
// @Tags         Actions
// @Accept       json
// @Produce      json
// @Param        orgID     path      string          true  "Organization ID"
// @Param        pageID    path      string          true  "Page ID"
// @Param        actionID  path      string          true  "Action ID"
// @Param        body      body      catalog.Action  true  "New action definition"
// @Success      200       {object}  store.Action
// @Failure      400       {object}  ErrorResponse
// @Failure      401       {object}  ErrorResponse
// @Failure      404       {object}  ErrorResponse
// @Failure      409       {object}  ErrorResponse
// @Security     BearerToken
// @Router       /orgs/{orgID}/pages/{pageID}/actions/{actionID} [put]
func (h *actionsAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req catalog.Action
	if !decodeJSON(w, r, &req) {
		return
	}
	action, err := h.actions.Update(r.Context(), chi.URLParam(r, "pageID"), chi.URLParam(r, "actionID"), req)
	if err != nil {
		writeAPIError(w, "update action", err)
		return
	}
	writeJSON(w, http.StatusOK, action)
}

// Delete removes an action.
// DELETE /api/v1/orgs/{orgID}/pages/{pageID}/actions/{actionID}
//
// @Summary      Delete an action
// @Tags         Actions
// @Param        orgID     path  string  true  "Organization ID"
// @Param        pageID    path  string  true  "Page ID"
// @Param        actionID  path  string  true  "Action ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /orgs/{orgID}/pages/{pageID}/actions/{actionID} [delete]
func (h *actionsAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.actions.Delete(r.Context(), chi.URLParam(r, "pageID"), chi.URLParam(r, "actionID")); err != nil {
		writeAPIError(w, "delete action", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
