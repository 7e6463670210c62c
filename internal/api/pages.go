package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/joe-copilot/internal/store"
)

// pagesAPIHandler provides REST handlers for an organization's pages.
type pagesAPIHandler struct {
	pages *store.PageStore
}

func registerPageRoutes(r chi.Router, pages *store.PageStore) {
	h := &pagesAPIHandler{pages: pages}
	r.Get("/orgs/{orgID}/pages", h.List)
	r.Post("/orgs/{orgID}/pages", h.Create)
	r.Get("/orgs/{orgID}/pages/{pageID}", h.Get)
	r.Put("/orgs/{orgID}/pages/{pageID}", h.Update)
	r.Delete("/orgs/{orgID}/pages/{pageID}", h.Delete)
}

// List returns the organization's pages in catalog order.
// GET /api/v1/orgs/{orgID}/pages
//
// @Summary      List pages
// @Tags         Pages
// @Produce      json
// @Param        orgID  path      string  true  "Organization ID"
// @Success      200    {object}  PageListResponse
// @Failure      401    {object}  ErrorResponse
// @Failure      500    {object}  ErrorResponse
// @Security     BearerToken
// @Router       /orgs/{orgID}/pages [get]
func (h *pagesAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	pages, err := h.pages.ListByOrg(r.Context(), chi.URLParam(r, "orgID"))
	if err != nil {
		writeAPIError(w, "list pages", err)
		return
	}
	writeJSON(w, http.StatusOK, PageListResponse{Pages: pages})
}

// Create appends a page to the organization's catalog.
// POST /api/v1/orgs/{orgID}/pages
//
// @Summary      Create a page
// @Tags         Pages
// @Accept       json
// @Produce      json
// @Param        orgID  path      string       true  "Organization ID"
// @Param        body   body      PageRequest  true  "Page to create"
// @Success      201    {object}  store.Page
// @Failure      400    {object}  ErrorResponse
// @Failure      401    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse
// @Failure      409    {object}  ErrorResponse
// @Security     BearerToken
// @Router       /orgs/{orgID}/pages [post]
func (h *pagesAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	page, err := h.pages.Create(r.Context(), chi.URLParam(r, "orgID"), req.Name, req.Description)
	if err != nil {
		writeAPIError(w, "create page", err)
		return
	}
	writeJSON(w, http.StatusCreated, page)
}

// Get returns one page.
// GET /api/v1/orgs/{orgID}/pages/{pageID}
//
// @Summary      Get a page
// @Tags         Pages
// @Produce      json
// @Param        orgID   path      string  true  "Organization ID"
// @Param        pageID  path      string  true  "Page ID"
// @Success      200     {object}  store.Page
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Security     BearerToken
// @Router       /orgs/{orgID}/pages/{pageID} [get]
func (h *pagesAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	page, err := h.pages.GetByID(r.Context(), chi.URLParam(r, "orgID"), chi.URLParam(r, "pageID"))
	if err != nil {
		writeAPIError(w, "get page", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Update changes a page's name and description.
// PUT /api/v1/orgs/{orgID}/pages/{pageID}
//
// @Summary      Update a page
// @Tags         Pages
// @Accept       json
// @Produce      json
// @Param        orgID   path      string       true  "Organization ID"
// @Param        pageID  path      string       true  "Page ID"
// @Param        body    body      PageRequest  true  "New name and description"
// @Success      200     {object}  store.Page
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Failure      409     {object}  ErrorResponse
// @Security     BearerToken
// @Router       /orgs/{orgID}/pages/{pageID} [put]
func (h *pagesAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	page, err := h.pages.Update(r.Context(), chi.URLParam(r, "orgID"), chi.URLParam(r, "pageID"), req.Name, req.Description)
	if err != nil {
		writeAPIError(w, "update page", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Delete removes a page and its actions.
// DELETE /api/v1/orgs/{orgID}/pages/{pageID}
//
// @Summary      Delete a page
// @Tags         Pages
// @Param        orgID   path  string  true  "Organization ID"
// @Param        pageID  path  string  true  "Page ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /orgs/{orgID}/pages/{pageID} [delete]
func (h *pagesAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.pages.Delete(r.Context(), chi.URLParam(r, "orgID"), chi.URLParam(r, "pageID")); err != nil {
		writeAPIError(w, "delete page", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
