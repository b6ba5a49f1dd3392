package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/vocabtrainer/pkg/models"
)

// ErrDuplicateWord indicates an insert for a word that already exists.
var ErrDuplicateWord = errors.New("database: word already exists")

// ErrNotFound indicates a lookup for a missing vocab entry.
var ErrNotFound = errors.New("database: vocab entry not found")

// VocabRepository handles database operations for vocabulary entries
type VocabRepository struct{}

// NewVocabRepository creates a new repository instance
func NewVocabRepository() *VocabRepository {
	return &VocabRepository{}
}

// Create inserts a new vocabulary entry and sets its ID.
func (r *VocabRepository) Create(v *models.Vocab) error {
	existing, err := r.GetByWord(v.Word)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: %q", ErrDuplicateWord, v.Word)
	}

	query := DB.Rebind(`
		INSERT INTO vocab (word, pos, meaning, chinese, learning_step, repetitions, interval, easiness_factor, next_review)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	if DB.DriverName() == "postgres" {
		return DB.QueryRow(query+" RETURNING id",
			v.Word, v.POS, v.Meaning, v.Chinese,
			v.LearningStep, v.Repetitions, v.IntervalDays, v.Easiness, v.NextReview,
		).Scan(&v.ID)
	}

	result, err := DB.Exec(query,
		v.Word, v.POS, v.Meaning, v.Chinese,
		v.LearningStep, v.Repetitions, v.IntervalDays, v.Easiness, v.NextReview,
	)
	if err != nil {
		return fmt.Errorf("failed to create vocab entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	v.ID = id
	return nil
}

// GetByID returns a vocabulary entry by ID
func (r *VocabRepository) GetByID(id int64) (*models.Vocab, error) {
	var v models.Vocab
	err := DB.Get(&v, DB.Rebind("SELECT * FROM vocab WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vocab entry: %w", err)
	}
	return &v, nil
}

// GetByWord returns a vocabulary entry by its word
func (r *VocabRepository) GetByWord(word string) (*models.Vocab, error) {
	var v models.Vocab
	err := DB.Get(&v, DB.Rebind("SELECT * FROM vocab WHERE word = ?"), word)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, word)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vocab entry: %w", err)
	}
	return &v, nil
}

// GetAll returns all vocabulary entries ordered by word
func (r *VocabRepository) GetAll() ([]models.Vocab, error) {
	var entries []models.Vocab
	err := DB.Select(&entries, "SELECT * FROM vocab ORDER BY word ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to get vocab entries: %w", err)
	}
	return entries, nil
}

// GetPending returns all entries due at or before the given timestamp,
// most overdue first. The timestamp uses the clock storage layout, which
// sorts lexicographically.
func (r *VocabRepository) GetPending(now string) ([]models.Vocab, error) {
	var entries []models.Vocab
	query := DB.Rebind("SELECT * FROM vocab WHERE next_review <= ? ORDER BY next_review ASC")
	err := DB.Select(&entries, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending entries: %w", err)
	}
	return entries, nil
}

// UpdateSchedule persists a new schedule state for an entry
func (r *VocabRepository) UpdateSchedule(id int64, state models.ScheduleState) error {
	query := DB.Rebind(`
		UPDATE vocab
		SET learning_step = ?, repetitions = ?, interval = ?, easiness_factor = ?, next_review = ?
		WHERE id = ?
	`)
	result, err := DB.Exec(query,
		state.LearningStep, state.Repetitions, state.IntervalDays, state.Easiness, state.NextReview, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

// Delete removes a vocabulary entry
func (r *VocabRepository) Delete(id int64) error {
	_, err := DB.Exec(DB.Rebind("DELETE FROM vocab WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete vocab entry: %w", err)
	}
	return nil
}

// DeleteAll removes every vocabulary entry and returns the count removed
func (r *VocabRepository) DeleteAll() (int64, error) {
	var count int64
	if err := DB.Get(&count, "SELECT COUNT(*) FROM vocab"); err != nil {
		return 0, fmt.Errorf("failed to count vocab entries: %w", err)
	}
	if _, err := DB.Exec("DELETE FROM vocab"); err != nil {
		return 0, fmt.Errorf("failed to delete vocab entries: %w", err)
	}
	return count, nil
}

// Stats returns collection statistics as of the given timestamp
func (r *VocabRepository) Stats(now string) (*models.Stats, error) {
	var stats models.Stats

	if err := DB.Get(&stats.Total, "SELECT COUNT(*) FROM vocab"); err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}
	query := DB.Rebind("SELECT COUNT(*) FROM vocab WHERE next_review <= ?")
	if err := DB.Get(&stats.Pending, query, now); err != nil {
		return nil, fmt.Errorf("failed to count pending entries: %w", err)
	}
	if err := DB.Get(&stats.Learning, "SELECT COUNT(*) FROM vocab WHERE learning_step > 0"); err != nil {
		return nil, fmt.Errorf("failed to count learning entries: %w", err)
	}
	if err := DB.Get(&stats.Graduated, "SELECT COUNT(*) FROM vocab WHERE learning_step = 0"); err != nil {
		return nil, fmt.Errorf("failed to count graduated entries: %w", err)
	}

	var avg sql.NullFloat64
	if err := DB.Get(&avg, "SELECT AVG(easiness_factor) FROM vocab WHERE learning_step = 0"); err != nil {
		return nil, fmt.Errorf("failed to average easiness: %w", err)
	}
	if avg.Valid {
		stats.AvgEF = avg.Float64
	}

	return &stats, nil
}
