package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/joe-copilot/internal/catalog"
)

func registerActionTypeRoutes(r chi.Router) {
	r.Get("/action-types", listActionTypes)
}

// listActionTypes returns the action types and request methods an editor can pick.
// GET /api/v1/action-types
//
// @Summary      List action types
// @Description  Returns every action type with its label and whether it is supported yet, plus the request methods.
// @Tags         Actions
// @Produce      json
// @Success      200  {object}  ActionTypesResponse
// @Failure      401  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /action-types [get]
func listActionTypes(w http.ResponseWriter, _ *http.Request) {
	resp := ActionTypesResponse{}
	for _, t := range catalog.ActionTypes() {
		resp.ActionTypes = append(resp.ActionTypes, ActionTypeOption{Value: t, Label: t.Label(), Disabled: t.Disabled()})
	}
	for _, m := range catalog.RequestMethods() {
		resp.RequestMethods = append(resp.RequestMethods, RequestMethodOption{Value: m, Label: m.Label()})
	}
	writeJSON(w, http.StatusOK, resp)
}
