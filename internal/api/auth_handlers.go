package api

import (
	"net/http"

	"github.com/bookbookapp/bookbook-server/internal/http/response"
	"github.com/bookbookapp/bookbook-server/internal/service"
)

// handleSignup registers a new user and returns an access token.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	resp, err := s.authService.Signup(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, resp, s.logger)
}

// handleLogin authenticates a user and returns an access token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	resp, err := s.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, resp, s.logger)
}
