package domain

import "time"

// Voice identifies one of the fixed narration voices a user can pick.
type Voice string

const (
	Voice1 Voice = "voice1" // female, calm
	Voice2 Voice = "voice2" // male, lively
	Voice3 Voice = "voice3" // female, energetic
	Voice4 Voice = "voice4" // male, warm
)

// Voices lists all selectable narration voices.
var Voices = []Voice{Voice1, Voice2, Voice3, Voice4}

// Valid reports whether v is one of the known voices.
func (v Voice) Valid() bool {
	switch v {
	case Voice1, Voice2, Voice3, Voice4:
		return true
	}
	return false
}

// CategoryNames are the fixed preference categories users choose from.
// These must match the catalog's category names.
var CategoryNames = []string{
	"소설/시/희곡",
	"경제/경영",
	"자기계발",
	"인문/교양",
	"취미/실용",
	"어린이/청소년",
	"과학",
}

// ValidCategoryName reports whether name is a selectable preference category.
func ValidCategoryName(name string) bool {
	for _, c := range CategoryNames {
		if c == name {
			return true
		}
	}
	return false
}

// User represents an account. Email is the login identity; Name is the
// public nickname. Both are unique.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Onboarding preferences, used by narration and recommendations.
	SelectedVoice    Voice  `json:"selected_voice"`
	SelectedCategory string `json:"selected_category"`
	FavoriteBook     string `json:"favorite_book,omitempty"`
	Bio              string `json:"bio,omitempty"`
}

// UserStats are derived per-user aggregates, never stored.
type UserStats struct {
	BooksRead     int     `json:"books_read"` // library size
	CommentsCount int     `json:"comments_count"`
	AverageRating float64 `json:"average_rating"` // 0 when no rated comments
}
