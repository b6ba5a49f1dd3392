package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/example/vocabtrainer/internal/clock"
	"github.com/example/vocabtrainer/internal/database"
	"github.com/example/vocabtrainer/internal/spaced_repetition"
	"github.com/example/vocabtrainer/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCLI(t *testing.T, input string) (*CLI, *bytes.Buffer, *database.VocabRepository) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	require.NoError(t, database.Connect(":memory:"))
	t.Cleanup(func() { database.Close() })

	clk, err := clock.New(1, false)
	require.NoError(t, err)
	engine, err := spaced_repetition.New(spaced_repetition.DefaultConfig(), clk)
	require.NoError(t, err)

	var out bytes.Buffer
	return New(engine, clk, strings.NewReader(input), &out), &out, database.NewVocabRepository()
}

func dueEntry(t *testing.T, repo *database.VocabRepository, word string) *models.Vocab {
	t.Helper()
	v := &models.Vocab{
		Word:    word,
		POS:     "adj",
		Meaning: "a meaning",
		ScheduleState: models.ScheduleState{
			LearningStep: 1,
			IntervalDays: 1,
			Easiness:     2.5,
			NextReview:   time.Now().Add(-time.Minute).Format(clock.Layout),
		},
	}
	require.NoError(t, repo.Create(v))
	return v
}

func TestRunExit(t *testing.T) {
	c, out, _ := setupCLI(t, "exit\n")
	require.NoError(t, c.Run())
	assert.Contains(t, out.String(), "Vocabulary Trainer")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestPendingEmpty(t *testing.T) {
	c, out, _ := setupCLI(t, "pending\nexit\n")
	require.NoError(t, c.Run())
	assert.Contains(t, out.String(), "No words pending for review")
}

func TestReviewSessionAdvancesLearningStep(t *testing.T) {
	// review -> reveal -> rate Easy -> exit
	c, out, repo := setupCLI(t, "review\n\n3\nexit\n")
	entry := dueEntry(t, repo, "ubiquitous")

	require.NoError(t, c.Run())

	assert.Contains(t, out.String(), "[Learning 1/3] Word: ubiquitous")
	assert.Contains(t, out.String(), "Step 2/3 - review in 10min")
	assert.Contains(t, out.String(), "Session complete! Reviewed 1 word(s).")

	got, err := repo.GetByID(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.LearningStep)
}

func TestReviewRejectsInvalidInput(t *testing.T) {
	// A bogus rating is re-prompted, then the session is quit.
	c, out, repo := setupCLI(t, "review\n\n7\nq\nexit\n")
	dueEntry(t, repo, "arduous")

	require.NoError(t, c.Run())
	assert.Contains(t, out.String(), "Invalid input. Please enter 1, 2, 3, or q.")
	assert.Contains(t, out.String(), "Session ended. Reviewed 0 word(s).")
}

func TestStatsOutput(t *testing.T) {
	c, out, repo := setupCLI(t, "stats\nexit\n")
	dueEntry(t, repo, "ephemeral")

	require.NoError(t, c.Run())
	assert.Contains(t, out.String(), "Total words: 1")
	assert.Contains(t, out.String(), "In learning: 1")
	assert.Contains(t, out.String(), "Pending now: 1")
}

func TestListShowsSchedule(t *testing.T) {
	c, out, repo := setupCLI(t, "list\nexit\n")
	dueEntry(t, repo, "resilient")

	require.NoError(t, c.Run())
	assert.Contains(t, out.String(), "resilient (adj): a meaning")
	assert.Contains(t, out.String(), "[Learning step 1/3] next: now")
}

func TestWaitRequiresTestMode(t *testing.T) {
	c, out, _ := setupCLI(t, "wait\nexit\n")
	require.NoError(t, c.Run())
	assert.Contains(t, out.String(), "Wait command only available in test mode.")
}

func TestClearDeletesEverything(t *testing.T) {
	c, out, repo := setupCLI(t, "clear\nyes\nexit\n")
	dueEntry(t, repo, "one")
	dueEntry(t, repo, "two")

	require.NoError(t, c.Run())
	assert.Contains(t, out.String(), "Deleted 2 words.")

	entries, err := repo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
