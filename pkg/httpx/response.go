package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// WriteJSON writes a JSON response with the given status code, with
// no-store cache headers since most of what this service returns is
// credential material.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets headers preventing intermediaries from caching the response.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// WriteBearerError writes an RFC 6750 bearer challenge with a
// machine-readable reason. Used for every gateway rejection; bodies never
// carry internal detail.
func WriteBearerError(w http.ResponseWriter, code int, reason, description string) {
	w.Header().Set("WWW-Authenticate",
		`Bearer error="`+reason+`", error_description="`+description+`"`)
	WriteJSON(w, code, map[string]string{
		"error":             reason,
		"error_description": description,
	})
}

// ExtractBearer pulls the token out of an Authorization header, returning
// "" when the header is absent or not a bearer credential.
func ExtractBearer(authorization string) string {
	const prefix = "bearer "
	if len(authorization) < len(prefix) || !strings.EqualFold(authorization[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(authorization[len(prefix):])
}
