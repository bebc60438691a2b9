package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/bookbookapp/bookbook-server/internal/domain"
	apperrors "github.com/bookbookapp/bookbook-server/internal/errors"
	"github.com/bookbookapp/bookbook-server/internal/id"
	"github.com/bookbookapp/bookbook-server/internal/store"
	"github.com/bookbookapp/bookbook-server/internal/validation"
)

// Transcriber converts speech audio to text.
// Satisfied by ai.Client.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// CommentService handles book comments and the derived library membership.
// A user's library is the set of books they have commented on: the first
// comment adds the book, deleting the last one removes it.
type CommentService struct {
	store       *store.Store
	transcriber Transcriber
	validator   *validation.Validator
	logger      *slog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(st *store.Store, transcriber Transcriber, validator *validation.Validator, logger *slog.Logger) *CommentService {
	return &CommentService{
		store:       st,
		transcriber: transcriber,
		validator:   validator,
		logger:      logger,
	}
}

// CreateCommentRequest carries a new comment.
// Voice comments may omit Content when Audio is provided; the audio is
// transcribed and the text stored as the comment body.
type CreateCommentRequest struct {
	Content     string `json:"content" validate:"max=2000"`
	Rating      int    `json:"rating" validate:"required,gte=1,lte=5"`
	IsVoice     bool   `json:"is_voice"`
	VoiceChoice string `json:"voice_choice" validate:"omitempty,voice"`

	// Multipart audio upload, set by the handler. Not part of the JSON body.
	AudioFilename string    `json:"-"`
	Audio         io.Reader `json:"-"`
}

// Create adds a comment to a book and ensures the book is in the
// author's library.
func (s *CommentService) Create(ctx context.Context, userID string, bookID int64, req CreateCommentRequest) (*domain.Comment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		if !req.IsVoice || req.Audio == nil {
			return nil, apperrors.Validation("comment content is required")
		}
		text, err := s.transcriber.Transcribe(ctx, req.AudioFilename, req.Audio)
		if err != nil {
			return nil, apperrors.Unavailable("voice transcription failed").WithCause(err)
		}
		content = strings.TrimSpace(text)
		if content == "" {
			return nil, apperrors.Validation("no speech detected in audio")
		}
	}

	commentID, err := id.Generate("comment")
	if err != nil {
		return nil, fmt.Errorf("generate comment ID: %w", err)
	}

	comment := &domain.Comment{
		ID:        commentID,
		BookID:    bookID,
		UserID:    userID,
		Content:   content,
		Rating:    req.Rating,
		IsVoice:   req.IsVoice,
		CreatedAt: time.Now(),
	}
	if req.VoiceChoice != "" {
		comment.VoiceChoice = domain.Voice(req.VoiceChoice)
	}

	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	// Commenting on a book puts it in the user's library.
	if err := s.store.AddLibraryEntry(ctx, userID, bookID); err != nil {
		s.logger.Error("failed to add library entry after comment",
			"user_id", userID,
			"book_id", bookID,
			"error", err,
		)
	}

	s.logger.Info("comment created",
		"comment_id", comment.ID,
		"book_id", bookID,
		"user_id", userID,
		"is_voice", comment.IsVoice,
	)

	return comment, nil
}

// Delete removes a comment. Only the author may delete it. When the
// author has no comments left on the book, the library entry goes too.
func (s *CommentService) Delete(ctx context.Context, userID string, bookID int64, commentID string) error {
	comment, err := s.store.GetComment(ctx, bookID, commentID)
	if err != nil {
		if errors.Is(err, store.ErrCommentNotFound) {
			return apperrors.NotFound("comment not found")
		}
		return err
	}

	if comment.UserID != userID {
		return apperrors.Forbidden("only the author can delete a comment")
	}

	if err := s.store.DeleteComment(ctx, bookID, commentID); err != nil {
		return err
	}

	remaining, err := s.store.CountUserCommentsOnBook(ctx, userID, bookID)
	if err != nil {
		return fmt.Errorf("count remaining comments: %w", err)
	}
	if remaining == 0 {
		if err := s.store.RemoveLibraryEntry(ctx, userID, bookID); err != nil {
			return fmt.Errorf("remove library entry: %w", err)
		}
	}

	s.logger.Info("comment deleted",
		"comment_id", commentID,
		"book_id", bookID,
		"user_id", userID,
	)

	return nil
}
