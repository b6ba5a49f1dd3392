package spaced_repetition

import "fmt"

// Rating represents the user's assessment of recall quality.
type Rating int

const (
	Forgot Rating = iota + 1 // Failed to recall.
	Hard                     // Recalled with significant effort.
	Easy                     // Recalled without difficulty.
)

var ratingNames = [...]string{Forgot: "Forgot", Hard: "Hard", Easy: "Easy"}

// String returns the name of the rating ("Forgot", "Hard", "Easy").
// For invalid values it returns "Rating(n)".
func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// IsValid reports whether r is a valid rating (Forgot through Easy).
func (r Rating) IsValid() bool {
	return r >= Forgot && r <= Easy
}

// Quality maps the rating onto the 0-5 SM-2 quality scale:
// Forgot -> 0, Hard -> 3, Easy -> 5.
func (r Rating) Quality() int {
	switch r {
	case Forgot:
		return 0
	case Hard:
		return 3
	default:
		return 5
	}
}
