package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/joestump/joe-copilot/internal/catalog"
	"github.com/joestump/joe-copilot/internal/copilot"
	"github.com/joestump/joe-copilot/internal/prompt"
	"github.com/joestump/joe-copilot/internal/store"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON reads the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return false
	}
	return true
}

var validationErrors = []error{
	store.ErrNameRequired,
	store.ErrInvalidResponses,
	catalog.ErrNameRequired,
	catalog.ErrPathRequired,
	catalog.ErrInvalidMethod,
	catalog.ErrInvalidActionType,
	catalog.ErrActionTypeDisabled,
	catalog.ErrTooLong,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeAPIError maps store, catalog and copilot errors to responses.
// Anything unrecognized is logged and reported as a 500.
func writeAPIError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
	case errors.Is(err, store.ErrDuplicateName):
		writeError(w, http.StatusConflict, err.Error(), "CONFLICT")
	case isValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
	case errors.Is(err, prompt.ErrPageNotFound):
		log.Printf("api: %s: %v", op, err)
		msg := "page not found"
		var missing *prompt.PageNotFoundError
		if errors.As(err, &missing) {
			msg = fmt.Sprintf("page %q not found", missing.Page)
		}
		writeError(w, http.StatusUnprocessableEntity, msg, "PAGE_NOT_FOUND")
	case errors.Is(err, copilot.ErrChatDisabled):
		writeError(w, http.StatusServiceUnavailable, "chat is not configured", "CHAT_DISABLED")
	case errors.Is(err, copilot.ErrCompletion):
		log.Printf("api: %s LLM error: %v", op, err)
		writeError(w, http.StatusBadGateway, "the language model request failed", "LLM_ERROR")
	default:
		log.Printf("api: %s: %v", op, err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
	}
}
