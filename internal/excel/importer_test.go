package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/vocabtrainer/internal/clock"
	"github.com/example/vocabtrainer/internal/database"
	"github.com/example/vocabtrainer/internal/spaced_repetition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func setupImporter(t *testing.T) *Importer {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	require.NoError(t, database.Connect(":memory:"))
	t.Cleanup(func() { database.Close() })

	clk, err := clock.New(1, false)
	require.NoError(t, err)
	engine, err := spaced_repetition.New(spaced_repetition.DefaultConfig(), clk)
	require.NoError(t, err)
	return NewImporter(engine)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportFromCSV(t *testing.T) {
	imp := setupImporter(t)

	path := writeCSV(t, "word,pos,meaning,chinese\n"+
		"ubiquitous,adj,present everywhere,無處不在\n"+
		"arduous,adj,requiring great effort,艱鉅\n"+
		",,missing word,\n")

	result, err := imp.ImportWords(DefaultImportConfig(path))
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Errors)

	repo := database.NewVocabRepository()
	got, err := repo.GetByWord("ubiquitous")
	require.NoError(t, err)
	assert.Equal(t, "present everywhere", got.Meaning)
	assert.Equal(t, "無處不在", got.Chinese)

	// Imported words start in the learning phase.
	assert.Equal(t, 1, got.LearningStep)
	assert.Equal(t, 2.5, got.Easiness)
	assert.NotEmpty(t, got.NextReview)
}

func TestImportSkipsDuplicates(t *testing.T) {
	imp := setupImporter(t)

	path := writeCSV(t, "word,pos,meaning,chinese\n"+
		"echo,noun,a reflected sound,回聲\n"+
		"echo,noun,a reflected sound,回聲\n")

	result, err := imp.ImportWords(DefaultImportConfig(path))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Skipped)
}

func TestImportFromExcel(t *testing.T) {
	imp := setupImporter(t)

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"word", "pos", "meaning", "chinese"},
		{"ephemeral", "adj", "lasting a very short time", "短暫的"},
		{"resilient", "adj", "able to recover quickly", "有韌性的"},
	}
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, value))
		}
	}
	path := filepath.Join(t.TempDir(), "words.xlsx")
	require.NoError(t, f.SaveAs(path))

	result, err := imp.ImportWords(DefaultImportConfig(path))
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 2, result.Created)

	repo := database.NewVocabRepository()
	got, err := repo.GetByWord("ephemeral")
	require.NoError(t, err)
	assert.Equal(t, "lasting a very short time", got.Meaning)
}

func TestImportMissingFile(t *testing.T) {
	imp := setupImporter(t)

	_, err := imp.ImportWords(DefaultImportConfig("does-not-exist.xlsx"))
	assert.Error(t, err)
}
