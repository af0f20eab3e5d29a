package output

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lssstools/lssstools-go/pkg/lssstools/table"
	_ "modernc.org/sqlite"
)

var identifierRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Conversion describes one table written by WriteTable.
type Conversion struct {
	ID         string
	Source     string
	ExportType string
	Rows       int
	CreatedAt  time.Time
}

// SQLiteStore appends flattened tables to a SQLite database. Every write
// is recorded in the conversions table and its rows carry the
// conversion id.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS conversions (
			conversion_id TEXT PRIMARY KEY,
			source TEXT,
			export_type TEXT,
			row_count INTEGER,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for queries.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

func sqlType(k table.Kind) string {
	switch k {
	case table.Int, table.Bool:
		return "INTEGER"
	case table.Float:
		return "REAL"
	}
	return "TEXT"
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// WriteTable inserts every row of t into tableName, creating the table on
// first use, inside a single transaction. It returns the conversion record.
func (s *SQLiteStore) WriteTable(ctx context.Context, tableName, source, exportType string, t *table.Table) (*Conversion, error) {
	if !identifierRE.MatchString(tableName) {
		return nil, fmt.Errorf("invalid table name %q", tableName)
	}

	schema := t.Schema()
	defs := []string{"conversion_id TEXT NOT NULL REFERENCES conversions(conversion_id)"}
	cols := []string{"conversion_id"}
	for _, f := range schema {
		defs = append(defs, fmt.Sprintf("%s %s", quoteIdent(f.Name), sqlType(f.Kind)))
		cols = append(cols, quoteIdent(f.Name))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(tableName), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return nil, fmt.Errorf("create table %s: %w", tableName, err)
	}

	conv := &Conversion{
		ID:         uuid.NewString(),
		Source:     source,
		ExportType: exportType,
		Rows:       t.Len(),
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO conversions (conversion_id, source, export_type, row_count, created_at) VALUES (?, ?, ?, ?, ?)",
		conv.ID, conv.Source, conv.ExportType, conv.Rows, conv.CreatedAt); err != nil {
		return nil, fmt.Errorf("record conversion: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(tableName), strings.Join(cols, ", "), placeholders))
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	args[0] = conv.ID
	for i := range t.Len() {
		for j, v := range t.Row(i) {
			if args[j+1], err = sqlValue(v); err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i, schema[j].Name, err)
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return nil, fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return conv, nil
}

func sqlValue(v any) (any, error) {
	switch v := v.(type) {
	case []string:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano), nil
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	}
	return v, nil
}
