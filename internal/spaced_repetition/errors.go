package spaced_repetition

import "errors"

// Sentinel errors for the scheduling engine. Check with errors.Is.
var (
	// ErrInvalidRating indicates a rating outside the Forgot/Hard/Easy set.
	// Ratings are rejected, never coerced.
	ErrInvalidRating = errors.New("spaced_repetition: invalid rating")
	// ErrInvalidConfig indicates an unusable engine configuration, such as
	// an empty learning-step list.
	ErrInvalidConfig = errors.New("spaced_repetition: invalid configuration")
)
