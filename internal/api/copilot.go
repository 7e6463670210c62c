package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/joe-copilot/internal/copilot"
	"github.com/joestump/joe-copilot/internal/prompt"
)

// copilotAPIHandler assembles prompts and relays chat turns for an organization.
type copilotAPIHandler struct {
	svc *copilot.Service
}

func registerCopilotRoutes(r chi.Router, svc *copilot.Service) {
	h := &copilotAPIHandler{svc: svc}
	r.Post("/orgs/{orgID}/prompt", h.Prompt)
	r.Get("/orgs/{orgID}/commands", h.Commands)
	r.Post("/orgs/{orgID}/chat", h.Chat)
}

// decodeRequest reads a copilot.Request and binds it to the organization in the URL.
func decodeRequest(w http.ResponseWriter, r *http.Request) (copilot.Request, bool) {
	var req copilot.Request
	if !decodeJSON(w, r, &req) {
		return req, false
	}
	if strings.TrimSpace(req.Page) == "" {
		writeError(w, http.StatusBadRequest, "page is required", "BAD_REQUEST")
		return req, false
	}
	req.OrgID = chi.URLParam(r, "orgID")
	return req, true
}

// Prompt returns the system prompt followed by the conversation history.
// POST /api/v1/orgs/{orgID}/prompt
//
// @Summary      Assemble a prompt
// @Description  Builds the message list for the page the user is on. The optional message is appended as the latest user turn.
// @Tags         Copilot
// @Accept       json
// @Produce      json
// @Param        orgID  path      string           true  "Organization ID"
// @Param        body   body      copilot.Request  true  "Conversation turn"
// @Success      200    {object}  PromptResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      401    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse
// @Failure      422    {object}  ErrorResponse
// @Security     BearerToken
// @Router       /orgs/{orgID}/prompt [post]
func (h *copilotAPIHandler) Prompt(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	messages, err := h.svc.BuildPrompt(r.Context(), req)
	if err != nil {
		writeAPIError(w, "build prompt", err)
		return
	}
	writeJSON(w, http.StatusOK, PromptResponse{Messages: messages})
}

// Commands returns only the numbered command list for a page.
// GET /api/v1/orgs/{orgID}/commands?page=
//
// @Summary      Render the command list
// @Tags         Copilot
// @Produce      json
// @Param        orgID  path      string  true  "Organization ID"
// @Param        page   query     string  true  "Current page name"
// @Success      200    {object}  CommandsResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      401    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse
// @Failure      422    {object}  ErrorResponse
// @Security     BearerToken
// @Router       /orgs/{orgID}/commands [get]
func (h *copilotAPIHandler) Commands(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")
	if strings.TrimSpace(page) == "" {
		writeError(w, http.StatusBadRequest, "page is required", "BAD_REQUEST")
		return
	}
	_, pages, err := h.svc.Catalogs.LoadCatalog(r.Context(), chi.URLParam(r, "orgID"))
	if err != nil {
		writeAPIError(w, "load catalog", err)
		return
	}
	commands, err := prompt.RenderCommands(pages, page)
	if err != nil {
		writeAPIError(w, "render commands", err)
		return
	}
	writeJSON(w, http.StatusOK, CommandsResponse{Page: page, Commands: commands})
}

// Chat assembles the prompt, sends it to the configured model and parses the reply.
// POST /api/v1/orgs/{orgID}/chat
//
// @Summary      Chat with the copilot
// @Description  A reply that does not follow the response format is returned with parse_error set.
// @Tags         Copilot
// @Accept       json
// @Produce      json
// @Param        orgID  path      string           true  "Organization ID"
// @Param        body   body      copilot.Request  true  "Conversation turn"
// @Success      200    {object}  copilot.ChatResult
// @Failure      400    {object}  ErrorResponse
// @Failure      401    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse
// @Failure      422    {object}  ErrorResponse
// @Failure      502    {object}  ErrorResponse
// @Failure      503    {object}  ErrorResponse
// @Security     BearerToken
// @Router       /orgs/{orgID}/chat [post]
func (h *copilotAPIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if !h.svc.ChatEnabled() {
		writeAPIError(w, "chat", copilot.ErrChatDisabled)
		return
	}
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	result, err := h.svc.Chat(r.Context(), req)
	if err != nil {
		writeAPIError(w, "chat", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
