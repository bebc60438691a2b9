package domain

// Recommendation pairs a book with the curator's one-line reason.
// Reason is empty for flows that do not produce one (similar books,
// bestseller listing).
type Recommendation struct {
	Book   Book   `json:"book"`
	Reason string `json:"reason,omitempty"`
}

// Profile is the snapshot of user preferences handed to the curator.
type Profile struct {
	Name             string
	SelectedCategory string
	FavoriteBook     string
}

// ProfileFromUser extracts the curation-relevant fields from a user.
func ProfileFromUser(u *User) Profile {
	return Profile{
		Name:             u.Name,
		SelectedCategory: u.SelectedCategory,
		FavoriteBook:     u.FavoriteBook,
	}
}
