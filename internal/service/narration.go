package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/bookbookapp/bookbook-server/internal/domain"
	apperrors "github.com/bookbookapp/bookbook-server/internal/errors"
	"github.com/bookbookapp/bookbook-server/internal/store"
)

// Speaker synthesizes speech audio for text.
// Satisfied by ai.Client.
type Speaker interface {
	Speech(ctx context.Context, text, voice string) (io.ReadCloser, string, error)
}

// upstreamVoices maps app voice choices to the gateway's TTS voice names.
var upstreamVoices = map[domain.Voice]string{
	domain.Voice1: "alloy",
	domain.Voice2: "nova",
	domain.Voice3: "echo",
	domain.Voice4: "shimmer",
}

// NarrationService streams synthesized narration of book descriptions.
type NarrationService struct {
	store   *store.Store
	speaker Speaker
	logger  *slog.Logger
}

// NewNarrationService creates a new narration service.
func NewNarrationService(st *store.Store, speaker Speaker, logger *slog.Logger) *NarrationService {
	return &NarrationService{
		store:   st,
		speaker: speaker,
		logger:  logger,
	}
}

// Narration is a streaming audio result. The caller must close Audio.
type Narration struct {
	Audio       io.ReadCloser
	ContentType string
}

// Narrate synthesizes the book's description. voiceOverride takes
// precedence; otherwise the user's selected voice is used, defaulting
// to voice1 for anonymous listeners.
func (s *NarrationService) Narrate(ctx context.Context, bookID int64, userID, voiceOverride string) (*Narration, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.Description == "" {
		return nil, apperrors.NotFoundf("book %d has no description to narrate", bookID)
	}

	voice := domain.Voice1
	if userID != "" {
		user, err := s.store.GetUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user.SelectedVoice.Valid() {
			voice = user.SelectedVoice
		}
	}
	if voiceOverride != "" {
		override := domain.Voice(voiceOverride)
		if !override.Valid() {
			return nil, apperrors.Validationf("unknown voice %q", voiceOverride)
		}
		voice = override
	}

	audio, contentType, err := s.speaker.Speech(ctx, book.Description, upstreamVoices[voice])
	if err != nil {
		return nil, apperrors.Unavailable("narration synthesis failed").WithCause(err)
	}

	s.logger.Info("narration started",
		"book_id", bookID,
		"voice", voice,
	)

	return &Narration{Audio: audio, ContentType: contentType}, nil
}
