package api

import (
	"net/http"

	"github.com/bookbookapp/bookbook-server/internal/http/response"
	"github.com/bookbookapp/bookbook-server/internal/service"
)

// handleListBooks returns catalog books, optionally filtered by a
// full-text query and category.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	opts := service.ListOptions{
		Search:     r.URL.Query().Get("search"),
		CategoryID: queryInt64(r, "category", 0),
		Limit:      queryInt(r, "limit", 0),
		Offset:     queryInt(r, "offset", 0),
	}

	books, err := s.bookService.List(r.Context(), opts)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, books, s.logger)
}

// handleGetBook returns a book with its comments and rating aggregates.
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := s.bookIDParam(w, r)
	if !ok {
		return
	}

	detail, err := s.bookService.Detail(r.Context(), bookID, getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, detail, s.logger)
}

// handleGetCover streams the locally stored cover image.
func (s *Server) handleGetCover(w http.ResponseWriter, r *http.Request) {
	bookID, ok := s.bookIDParam(w, r)
	if !ok {
		return
	}

	if !s.coverStorage.Exists(bookID) {
		response.NotFound(w, "Cover not found", s.logger)
		return
	}

	http.ServeFile(w, r, s.coverStorage.Path(bookID))
}
