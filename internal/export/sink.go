package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sink writes a table to a named destination.
type Sink interface {
	// Name identifies the sink in logs and metrics.
	Name() string
	Write(ctx context.Context, destination string, t Table) error
}

var unsafeDestinationChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SanitizeDestination reduces a destination name to [A-Za-z0-9_-]. Runs of
// other characters collapse to a single underscore.
func SanitizeDestination(destination string) (string, error) {
	clean := unsafeDestinationChars.ReplaceAllString(strings.TrimSpace(destination), "_")
	clean = strings.Trim(clean, "_")
	if clean == "" {
		return "", fmt.Errorf("invalid export destination %q", destination)
	}
	return clean, nil
}

// ── Directory sink ────────────────────────────────────────────────────────────

// DirSink writes each table to <Dir>/<destination>.csv.
type DirSink struct {
	Dir string
}

func NewDirSink(dir string) *DirSink {
	return &DirSink{Dir: dir}
}

func (s *DirSink) Name() string { return "dir" }

// Path returns the file a destination is written to.
func (s *DirSink) Path(destination string) (string, error) {
	name, err := SanitizeDestination(destination)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, name+".csv"), nil
}

func (s *DirSink) Write(ctx context.Context, destination string, t Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.Path(destination)
	if err != nil {
		return err
	}
	data, err := t.Marshal()
	if err != nil {
		return fmt.Errorf("encoding %s: %w", destination, err)
	}
	return writeFileAtomic(s.Dir, path, data)
}

// writeFileAtomic writes data beside path and renames it into place so
// readers never see a partial file.
func writeFileAtomic(dir, path string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

// ── Postgres sink ─────────────────────────────────────────────────────────────

// PostgresSink replaces the contents of a table named after the destination.
// Columns are TEXT and named after the header in snake_case.
type PostgresSink struct {
	pool *pgxpool.Pool
}

func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

func (s *PostgresSink) Name() string { return "postgres" }

func (s *PostgresSink) Write(ctx context.Context, destination string, t Table) error {
	name, err := SanitizeDestination(destination)
	if err != nil {
		return err
	}
	table := pgx.Identifier{strings.ToLower(name)}
	columns := ColumnNames(t.Header)
	if len(columns) == 0 {
		return fmt.Errorf("export %s: table has no columns", destination)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, createTableSQL(table, columns)); err != nil {
		return fmt.Errorf("create %s: %w", table.Sanitize(), err)
	}
	if _, err := tx.Exec(ctx, "TRUNCATE "+table.Sanitize()); err != nil {
		return fmt.Errorf("truncate %s: %w", table.Sanitize(), err)
	}

	rows := make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		rows[i] = cells
	}
	if _, err := tx.CopyFrom(ctx, table, columns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy into %s: %w", table.Sanitize(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func createTableSQL(table pgx.Identifier, columns []string) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pgx.Identifier{c}.Sanitize() + " TEXT"
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table.Sanitize(), strings.Join(defs, ", "))
}

// ColumnNames converts header titles to snake_case column names ("Reorder Level" → "reorder_level").
func ColumnNames(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		name := strings.ToLower(unsafeDestinationChars.ReplaceAllString(strings.TrimSpace(h), "_"))
		name = strings.Trim(name, "_")
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		out[i] = name
	}
	return out
}
