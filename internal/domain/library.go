package domain

import "time"

// LibraryEntry marks a book as part of a user's library. Membership is
// derived from commenting: a user's first comment on a book adds it, and
// deleting their last comment removes it. The (UserID, BookID) pair is
// unique; re-adding an existing entry is a no-op.
type LibraryEntry struct {
	UserID  string    `json:"user_id"`
	BookID  int64     `json:"book_id"`
	AddedAt time.Time `json:"added_at"`
}
