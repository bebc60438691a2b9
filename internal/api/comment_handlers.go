package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bookbookapp/bookbook-server/internal/http/response"
	"github.com/bookbookapp/bookbook-server/internal/service"
)

// maxCommentAudioSize caps voice comment uploads.
const maxCommentAudioSize = 25 * 1024 * 1024 // 25MB

// handleCreateComment adds a comment to a book. Accepts either a JSON
// body or multipart/form-data with an "audio" file for voice comments.
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	bookID, ok := s.bookIDParam(w, r)
	if !ok {
		return
	}

	var req service.CreateCommentRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if !s.decodeCommentForm(w, r, &req) {
			return
		}
	} else if !s.decodeJSON(w, r, &req) {
		return
	}

	comment, err := s.commentService.Create(r.Context(), getUserID(r.Context()), bookID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, comment, s.logger)
}

// decodeCommentForm parses a multipart voice comment upload.
func (s *Server) decodeCommentForm(w http.ResponseWriter, r *http.Request, req *service.CreateCommentRequest) bool {
	if err := r.ParseMultipartForm(maxCommentAudioSize); err != nil {
		response.BadRequest(w, "Invalid multipart body", s.logger)
		return false
	}

	req.Content = r.FormValue("content")
	req.IsVoice = r.FormValue("is_voice") == "true"
	req.VoiceChoice = r.FormValue("voice_choice")
	if rating, err := strconv.Atoi(r.FormValue("rating")); err == nil {
		req.Rating = rating
	}

	file, header, err := r.FormFile("audio")
	if err == nil {
		req.Audio = file
		req.AudioFilename = header.Filename
		// The multipart form is cleaned up when the request ends.
	}

	return true
}

// handleDeleteComment removes a comment. Author only.
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	bookID, ok := s.bookIDParam(w, r)
	if !ok {
		return
	}

	commentID := chi.URLParam(r, "commentID")
	if commentID == "" {
		response.BadRequest(w, "Comment ID is required", s.logger)
		return
	}

	if err := s.commentService.Delete(r.Context(), getUserID(r.Context()), bookID, commentID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
