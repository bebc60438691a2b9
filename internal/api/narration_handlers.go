package api

import (
	"io"
	"net/http"

	"github.com/bookbookapp/bookbook-server/internal/http/response"
)

// handleNarration streams synthesized narration of the book description.
// An optional ?voice= overrides the user's selected voice.
func (s *Server) handleNarration(w http.ResponseWriter, r *http.Request) {
	bookID, ok := s.bookIDParam(w, r)
	if !ok {
		return
	}

	narration, err := s.narrationService.Narrate(r.Context(), bookID, getUserID(r.Context()), r.URL.Query().Get("voice"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	defer narration.Audio.Close()

	w.Header().Set("Content-Type", narration.ContentType)
	if _, err := io.Copy(w, narration.Audio); err != nil {
		s.logger.Error("narration stream interrupted", "book_id", bookID, "error", err)
	}
}
