package api

import (
	"net/http"

	"github.com/bookbookapp/bookbook-server/internal/http/response"
	"github.com/bookbookapp/bookbook-server/internal/service"
)

// handleGetCurrentUser returns the authenticated user's profile with stats.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	profile, err := s.userService.Me(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, profile, s.logger)
}

// handleUpdateProfile applies a partial profile update.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateProfileRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	user, err := s.userService.UpdateProfile(r.Context(), getUserID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}

// handleDeleteAccount removes the account with its comments and library.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.userService.Delete(r.Context(), getUserID(r.Context())); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleGetLibrary returns the books in the user's library.
func (s *Server) handleGetLibrary(w http.ResponseWriter, r *http.Request) {
	books, err := s.userService.Library(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, books, s.logger)
}
