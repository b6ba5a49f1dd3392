package models

// ScheduleState holds the spaced-repetition scheduling fields for a single
// vocabulary entry. LearningStep 0 means the entry has graduated to the
// adaptive SM-2 schedule; 1..N is the index into the configured learning
// steps. While LearningStep > 0, Repetitions is 0 and IntervalDays does not
// drive the due time.
type ScheduleState struct {
	LearningStep int     `json:"learning_step" db:"learning_step"`
	Repetitions  int     `json:"repetitions" db:"repetitions"`
	IntervalDays int     `json:"interval" db:"interval"`           // Days until next review in the adaptive phase
	Easiness     float64 `json:"easiness_factor" db:"easiness_factor"` // SM-2 EF parameter, never below 1.3
	NextReview   string  `json:"next_review" db:"next_review"`     // Due timestamp, "2006-01-02 15:04:05"
}

// Vocab represents a vocabulary entry to be learned
type Vocab struct {
	ID      int64  `json:"id" db:"id"`
	Word    string `json:"word" db:"word"`
	POS     string `json:"pos" db:"pos"`         // Part of speech, e.g. "noun/verb"
	Meaning string `json:"meaning" db:"meaning"` // English definition
	Chinese string `json:"chinese" db:"chinese"` // Traditional Chinese translation
	ScheduleState
}

// Stats summarizes the state of the vocabulary collection
type Stats struct {
	Total     int     `db:"total"`
	Pending   int     `db:"pending"`
	Learning  int     `db:"learning"`
	Graduated int     `db:"graduated"`
	AvgEF     float64 `db:"avg_ef"` // Average easiness factor of graduated entries
}
