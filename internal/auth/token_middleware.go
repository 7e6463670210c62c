// Package auth guards the REST API with static bearer tokens.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// BearerTokenMiddleware accepts requests carrying one of a fixed set of API
// tokens. Only hashes are kept in memory.
type BearerTokenMiddleware struct {
	hashes []string
}

// NewBearerTokenMiddleware creates a middleware for the given plaintext tokens.
// With no tokens every request is let through.
func NewBearerTokenMiddleware(tokens []string) *BearerTokenMiddleware {
	m := &BearerTokenMiddleware{}
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			m.hashes = append(m.hashes, HashToken(t))
		}
	}
	return m
}

// Enabled reports whether any token is configured.
func (m *BearerTokenMiddleware) Enabled() bool {
	return len(m.hashes) > 0
}

// Authenticate rejects requests without a valid "Authorization: Bearer"
// header with 401 {"error": "unauthorized", "code": "UNAUTHORIZED"}.
func (m *BearerTokenMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.Enabled() {
			next.ServeHTTP(w, r)
			return
		}
		plaintext, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || plaintext == "" || !m.valid(plaintext) {
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *BearerTokenMiddleware) valid(plaintext string) bool {
	hash := []byte(HashToken(plaintext))
	match := 0
	for _, h := range m.hashes {
		match |= subtle.ConstantTimeCompare(hash, []byte(h))
	}
	return match == 1
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized", "code": "UNAUTHORIZED"})
}
