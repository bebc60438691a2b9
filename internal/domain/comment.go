package domain

import "time"

// Comment is a user's review of a book. Content holds either text or,
// for voice comments, the transcribed text of the recording.
type Comment struct {
	ID          string    `json:"id"`
	BookID      int64     `json:"book_id"`
	UserID      string    `json:"user_id"`
	Content     string    `json:"content"`
	Rating      int       `json:"rating"` // 1 to 5
	IsVoice     bool      `json:"is_voice"`
	VoiceChoice Voice     `json:"voice_choice,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// RatingValid reports whether the rating is in the accepted 1..5 range.
func (c *Comment) RatingValid() bool {
	return c.Rating >= 1 && c.Rating <= 5
}

// BookRatingSummary is the derived rating aggregate for a book.
type BookRatingSummary struct {
	AverageRating float64 `json:"average_rating"` // 0 when there are no comments
	CommentCount  int     `json:"comment_count"`
}

// SummarizeRatings computes the aggregate for a book's comments.
func SummarizeRatings(comments []Comment) BookRatingSummary {
	if len(comments) == 0 {
		return BookRatingSummary{}
	}
	sum := 0
	for _, c := range comments {
		sum += c.Rating
	}
	return BookRatingSummary{
		AverageRating: float64(sum) / float64(len(comments)),
		CommentCount:  len(comments),
	}
}
