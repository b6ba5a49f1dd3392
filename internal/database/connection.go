package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. SQLite is the default;
// setting DATABASE_URL switches to PostgreSQL.
func Connect(sqlitePath string) error {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		db, err := sqlx.Connect("postgres", url)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		DB = db
		return initializeSchema()
	}

	// Create the data directory if it doesn't exist
	if dir := filepath.Dir(sqlitePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", sqlitePath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates the vocab table if it doesn't exist and applies
// column migrations for databases created by older versions.
func initializeSchema() error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if DB.DriverName() == "postgres" {
		serial = "BIGSERIAL PRIMARY KEY"
	}

	_, err := DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS vocab (
			id %s,
			word TEXT NOT NULL UNIQUE,
			pos TEXT DEFAULT '',
			meaning TEXT NOT NULL,
			chinese TEXT DEFAULT '',
			learning_step INTEGER DEFAULT 1,
			repetitions INTEGER DEFAULT 0,
			interval INTEGER DEFAULT 1,
			easiness_factor REAL DEFAULT 2.5,
			next_review TEXT NOT NULL
		)
	`, serial))
	if err != nil {
		return fmt.Errorf("failed to create vocab table: %w", err)
	}

	if DB.DriverName() == "sqlite3" {
		return migrateVocabTable()
	}
	return nil
}

// migrateVocabTable adds columns introduced after the first release.
func migrateVocabTable() error {
	rows, err := DB.Query("PRAGMA table_info(vocab)")
	if err != nil {
		return fmt.Errorf("failed to inspect vocab table: %w", err)
	}
	defer rows.Close()

	columns := map[string]bool{}
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal interface{}
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return fmt.Errorf("failed to scan vocab column: %w", err)
		}
		columns[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	migrations := map[string]string{
		"pos":           "ALTER TABLE vocab ADD COLUMN pos TEXT DEFAULT ''",
		"chinese":       "ALTER TABLE vocab ADD COLUMN chinese TEXT DEFAULT ''",
		"learning_step": "ALTER TABLE vocab ADD COLUMN learning_step INTEGER DEFAULT 0",
	}
	for column, stmt := range migrations {
		if !columns[column] {
			if _, err := DB.Exec(stmt); err != nil {
				return fmt.Errorf("failed to add %s column: %w", column, err)
			}
		}
	}

	// Older databases stored the due time under next_review_date.
	if columns["next_review_date"] && !columns["next_review"] {
		if _, err := DB.Exec("ALTER TABLE vocab RENAME COLUMN next_review_date TO next_review"); err != nil {
			return fmt.Errorf("failed to rename next_review_date: %w", err)
		}
	}

	return nil
}
