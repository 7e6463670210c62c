package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/joe-copilot/internal/store"
)

// orgsAPIHandler provides REST handlers for organizations.
type orgsAPIHandler struct {
	orgs *store.OrgStore
}

func registerOrgRoutes(r chi.Router, orgs *store.OrgStore) {
	h := &orgsAPIHandler{orgs: orgs}
	r.Get("/orgs", h.List)
	r.Post("/orgs", h.Create)
	r.Get("/orgs/{orgID}", h.Get)
	r.Put("/orgs/{orgID}", h.Update)
	r.Delete("/orgs/{orgID}", h.Delete)
}

// List returns all organizations.
// GET /api/v1/orgs
//
// @Summary      List organizations
// @Tags         Organizations
// @Produce      json
// @Success      200  {object}  OrgListResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /orgs [get]
func (h *orgsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.orgs.List(r.Context())
	if err != nil {
		writeAPIError(w, "list orgs", err)
		return
	}
	writeJSON(w, http.StatusOK, OrgListResponse{Organizations: orgs})
}

// Create adds an organization.
// POST /api/v1/orgs
//
// @Summary      Create an organization
// @Tags         Organizations
// @Accept       json
// @Produce      json
// @Param        body  body      OrgRequest  true  "Organization to create"
// @Success      201   {object}  store.Organization
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /orgs [post]
func (h *orgsAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req OrgRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	org, err := h.orgs.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		writeAPIError(w, "create org", err)
		return
	}
	writeJSON(w, http.StatusCreated, org)
}

// Get returns one organization.
// GET /api/v1/orgs/{orgID}
//
// @Summary      Get an organization
// @Tags         Organizations
// @Produce      json
// @Param        orgID  path      string  true  "Organization ID"
// @Success      200    {object}  store.Organization
// @Failure      401    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse
// @Security     BearerToken
// @Router       /orgs/{orgID} [get]
func (h *orgsAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	org, err := h.orgs.GetByID(r.Context(), chi.URLParam(r, "orgID"))
	if err != nil {
		writeAPIError(w, "get org", err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

// Update renames an organization or changes its description.
// PUT /api/v1/orgs/{orgID}
//
// @Summary      Update an organization
// @Tags         Organizations
// @Accept       json
// @Produce      json
// @Param        orgID  path      string      true  "Organization ID"
// @Param        body   body      OrgRequest  true  "New name and description"
// @Success      200    {object}  store.Organization
// @Failure      400    {object}  ErrorResponse
// @Failure      401    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse
// @Failure      409    {object}  ErrorResponse
// @Security     BearerToken
// @Router       /orgs/{orgID} [put]
func (h *orgsAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req OrgRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	org, err := h.orgs.Update(r.Context(), chi.URLParam(r, "orgID"), req.Name, req.Description)
	if err != nil {
		writeAPIError(w, "update org", err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

// Delete removes an organization with all of its pages and actions.
// DELETE /api/v1/orgs/{orgID}
//
// @Summary      Delete an organization
// @Tags         Organizations
// @Param        orgID  path  string  true  "Organization ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /orgs/{orgID} [delete]
func (h *orgsAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.orgs.Delete(r.Context(), chi.URLParam(r, "orgID")); err != nil {
		writeAPIError(w, "delete org", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
