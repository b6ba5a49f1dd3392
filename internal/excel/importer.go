package excel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/vocabtrainer/internal/database"
	"github.com/example/vocabtrainer/internal/spaced_repetition"
	"github.com/example/vocabtrainer/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath      string // Path to the Excel or CSV file
	WordColumn    int    // Column with the word (0-based)
	POSColumn     int    // Column with the part of speech
	MeaningColumn int    // Column with the definition
	ChineseColumn int    // Column with the Chinese translation
	SheetName     string // Name of the sheet to import
	StartRow      int    // The row to start importing from (1-based)
}

// DefaultImportConfig returns the default import configuration:
// word, pos, meaning, chinese in the first four columns, header skipped.
func DefaultImportConfig(path string) ImportConfig {
	return ImportConfig{
		FilePath:      path,
		WordColumn:    0,
		POSColumn:     1,
		MeaningColumn: 2,
		ChineseColumn: 3,
		SheetName:     "Sheet1",
		StartRow:      2,
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// Importer loads vocabulary entries from spreadsheet files. Imported words
// enter the learning phase with a schedule produced by the engine.
type Importer struct {
	engine *spaced_repetition.SM2
	repo   *database.VocabRepository
}

// NewImporter creates an importer backed by the given engine
func NewImporter(engine *spaced_repetition.SM2) *Importer {
	return &Importer{
		engine: engine,
		repo:   database.NewVocabRepository(),
	}
}

// ImportWords imports words from an Excel or CSV file
func (imp *Importer) ImportWords(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return imp.importFromCSV(config)
	}
	return imp.importFromExcel(config)
}

// importFromExcel imports words from an XLSX file
func (imp *Importer) importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++
		if err := imp.processRow(row, config, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// importFromCSV imports words from a CSV file
func (imp *Importer) importFromCSV(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	result := &ImportResult{Errors: make([]string, 0)}
	rowNum := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		rowNum++
		if rowNum < config.StartRow {
			continue
		}

		result.TotalProcessed++
		if err := imp.processRow(row, config, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return result, nil
}

// processRow creates a vocab entry from a single spreadsheet row
func (imp *Importer) processRow(row []string, config ImportConfig, result *ImportResult) error {
	cell := func(idx int) string {
		if idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	word := cell(config.WordColumn)
	meaning := cell(config.MeaningColumn)
	if word == "" || meaning == "" {
		result.Skipped++
		return nil
	}

	entry := &models.Vocab{
		Word:          word,
		POS:           cell(config.POSColumn),
		Meaning:       meaning,
		Chinese:       cell(config.ChineseColumn),
		ScheduleState: imp.engine.NewScheduleState(time.Now()),
	}

	if err := imp.repo.Create(entry); err != nil {
		if errors.Is(err, database.ErrDuplicateWord) {
			result.Skipped++
			return nil
		}
		return err
	}

	result.Created++
	return nil
}
