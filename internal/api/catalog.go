package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/joe-copilot/internal/catalog"
	"github.com/joestump/joe-copilot/internal/store"
)

// catalogAPIHandler exposes whole-catalog export, replace and import.
type catalogAPIHandler struct {
	catalogs *store.CatalogStore
}

func registerCatalogRoutes(r chi.Router, catalogs *store.CatalogStore) {
	h := &catalogAPIHandler{catalogs: catalogs}
	r.Post("/catalogs", h.Import)
	r.Get("/orgs/{orgID}/catalog", h.Export)
	r.Put("/orgs/{orgID}/catalog", h.Replace)
}

// Import creates or updates an organization by name from a catalog document.
// POST /api/v1/catalogs
//
// @Summary      Import a catalog
// @Description  Creates the organization, or updates the one with the same name, and replaces all of its pages and actions.
// @Tags         Catalogs
// @Accept       json
// @Produce      json
// @Param        body  body      catalog.Catalog  true  "Catalog document"
// @Success      200   {object}  store.Organization
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /catalogs [post]
func (h *catalogAPIHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req catalog.Catalog
	if !decodeJSON(w, r, &req) {
		return
	}
	org, err := h.catalogs.Import(r.Context(), req)
	if err != nil {
		writeAPIError(w, "import catalog", err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

// Export returns the organization and its pages with their actions, in catalog order.
// GET /api/v1/orgs/{orgID}/catalog
//
// @Summary      Export a catalog
// @Tags         Catalogs
// @Produce      json
// @Param        orgID  path      string  true  "Organization ID"
// @Success      200    {object}  catalog.Catalog
// @Failure      401    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse
// @Security     BearerToken
// @Router       /orgs/{orgID}/catalog [get]
func (h *catalogAPIHandler) Export(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalogs.Export(r.Context(), chi.URLParam(r, "orgID"))
	if err != nil {
		writeAPIError(w, "export catalog", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Replace swaps every page and action of the organization in one transaction.
// PUT /api/v1/orgs/{orgID}/catalog
//
// @Summary      Replace a catalog
// @Tags         Catalogs
// @Accept       json
// @Produce      json
// @Param        orgID  path      string                 true  "Organization ID"
// @Param        body   body      ReplaceCatalogRequest  true  "Pages in catalog order"
// @Success      200    {object}  catalog.Catalog
// @Failure      400    {object}  ErrorResponse
// @Failure      401    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse
// @Failure      409    {object}  ErrorResponse
// @Security     BearerToken
// @Router       /orgs/{orgID}/catalog [put]
func (h *catalogAPIHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req ReplaceCatalogRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	orgID := chi.URLParam(r, "orgID")
	if err := h.catalogs.ReplaceCatalog(r.Context(), orgID, req.Pages); err != nil {
		writeAPIError(w, "replace catalog", err)
		return
	}
	c, err := h.catalogs.Export(r.Context(), orgID)
	if err != nil {
		writeAPIError(w, "export catalog", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
