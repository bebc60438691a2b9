package api

import (
	"net/http"

	"github.com/bookbookapp/bookbook-server/internal/http/response"
)

// handleSimilarBooks returns books closest by embedding similarity.
func (s *Server) handleSimilarBooks(w http.ResponseWriter, r *http.Request) {
	bookID, ok := s.bookIDParam(w, r)
	if !ok {
		return
	}

	books, err := s.recommendationService.SimilarBooks(r.Context(), bookID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, books, s.logger)
}

// handleBestsellers returns the curated bestseller list.
func (s *Server) handleBestsellers(w http.ResponseWriter, r *http.Request) {
	books, err := s.recommendationService.Bestsellers(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, books, s.logger)
}

// handleRefreshBestsellers re-runs bestseller curation.
func (s *Server) handleRefreshBestsellers(w http.ResponseWriter, r *http.Request) {
	books, err := s.recommendationService.RefreshBestsellers(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, books, s.logger)
}

// handlePersonalized returns curated picks for the user, or generic
// bestseller picks for anonymous visitors.
func (s *Server) handlePersonalized(w http.ResponseWriter, r *http.Request) {
	recs, err := s.recommendationService.Personalized(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, recs, s.logger)
}
