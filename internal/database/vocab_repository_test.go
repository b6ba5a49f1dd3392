package database

import (
	"testing"

	"github.com/example/vocabtrainer/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *VocabRepository {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	require.NoError(t, Connect(":memory:"))
	t.Cleanup(func() { Close() })
	return NewVocabRepository()
}

func newEntry(word, due string) *models.Vocab {
	return &models.Vocab{
		Word:    word,
		POS:     "noun",
		Meaning: "a test meaning",
		ScheduleState: models.ScheduleState{
			LearningStep: 1,
			Repetitions:  0,
			IntervalDays: 1,
			Easiness:     2.5,
			NextReview:   due,
		},
	}
}

func TestCreateAndGetByWord(t *testing.T) {
	repo := setupTestDB(t)

	entry := newEntry("ubiquitous", "2024-03-01 12:01:00")
	require.NoError(t, repo.Create(entry))
	assert.NotZero(t, entry.ID)

	got, err := repo.GetByWord("ubiquitous")
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, "noun", got.POS)
	assert.Equal(t, 1, got.LearningStep)
	assert.Equal(t, 2.5, got.Easiness)
	assert.Equal(t, "2024-03-01 12:01:00", got.NextReview)
}

func TestCreateRejectsDuplicateWord(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.Create(newEntry("arduous", "2024-03-01 12:01:00")))
	err := repo.Create(newEntry("arduous", "2024-03-01 12:05:00"))
	assert.ErrorIs(t, err, ErrDuplicateWord)
}

func TestGetByWordNotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetByWord("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPendingOrdersByDueTime(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.Create(newEntry("later", "2024-03-01 13:00:00")))
	require.NoError(t, repo.Create(newEntry("soonest", "2024-03-01 09:00:00")))
	require.NoError(t, repo.Create(newEntry("future", "2024-03-02 09:00:00")))

	pending, err := repo.GetPending("2024-03-01 13:00:00")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "soonest", pending[0].Word)
	assert.Equal(t, "later", pending[1].Word)
}

func TestUpdateSchedule(t *testing.T) {
	repo := setupTestDB(t)

	entry := newEntry("ephemeral", "2024-03-01 12:01:00")
	require.NoError(t, repo.Create(entry))

	state := models.ScheduleState{
		LearningStep: 0,
		Repetitions:  2,
		IntervalDays: 6,
		Easiness:     2.7,
		NextReview:   "2024-03-07 12:00:00",
	}
	require.NoError(t, repo.UpdateSchedule(entry.ID, state))

	got, err := repo.GetByID(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, state, got.ScheduleState)

	// Word content is untouched by schedule updates.
	assert.Equal(t, "ephemeral", got.Word)
	assert.Equal(t, "a test meaning", got.Meaning)
}

func TestUpdateScheduleMissingEntry(t *testing.T) {
	repo := setupTestDB(t)
	err := repo.UpdateSchedule(9999, models.ScheduleState{NextReview: "2024-03-07 12:00:00"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStats(t *testing.T) {
	repo := setupTestDB(t)

	learning := newEntry("alpha", "2024-03-01 09:00:00")
	require.NoError(t, repo.Create(learning))

	graduated := newEntry("beta", "2024-03-05 09:00:00")
	graduated.LearningStep = 0
	graduated.Repetitions = 3
	graduated.Easiness = 2.7
	require.NoError(t, repo.Create(graduated))

	stats, err := repo.Stats("2024-03-01 12:00:00")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Learning)
	assert.Equal(t, 1, stats.Graduated)
	assert.InDelta(t, 2.7, stats.AvgEF, 1e-9)
}

func TestStatsEmptyDatabase(t *testing.T) {
	repo := setupTestDB(t)

	stats, err := repo.Stats("2024-03-01 12:00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0.0, stats.AvgEF)
}

func TestDeleteAll(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.Create(newEntry("one", "2024-03-01 12:00:00")))
	require.NoError(t, repo.Create(newEntry("two", "2024-03-01 12:00:00")))

	count, err := repo.DeleteAll()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	entries, err := repo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
