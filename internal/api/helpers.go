package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookbookapp/bookbook-server/internal/http/response"
)

// decodeJSON unmarshals the request body into dst, writing a 400 on failure.
// Returns false when the response has already been written.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.UnmarshalRead(r.Body, dst); err != nil {
		response.BadRequest(w, "Invalid JSON body", s.logger)
		return false
	}
	return true
}

// bookIDParam parses the {bookID} URL parameter, writing a 400 on failure.
func (s *Server) bookIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "bookID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid book ID", s.logger)
		return 0, false
	}
	return id, true
}

// queryInt parses an integer query parameter, falling back to def when
// absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

// queryInt64 parses an int64 query parameter, falling back to def.
func queryInt64(r *http.Request, name string, def int64) int64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return def
	}
	return v
}
