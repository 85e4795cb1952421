package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

// SQLite keeps documents in a single-file database. Merges use json_patch,
// which replaces arrays and top-level scalars the same way the jsonb
// backend does for flat documents.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one connection keeps writes serialized without SQLITE_BUSY retries
	db.SetMaxOpenConns(1)
	s := &SQLite{db: db}
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`PRAGMA journal_mode = WAL;`,
		`CREATE TABLE IF NOT EXISTS documents (
			path TEXT PRIMARY KEY,
			data TEXT NOT NULL DEFAULT '{}',
			updated_at TEXT NOT NULL DEFAULT ''
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, path string) (Document, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM documents WHERE path = ?`, path).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", path, err)
	}
	doc, err := decode([]byte(raw))
	if err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, true, nil
}

func (s *SQLite) Set(ctx context.Context, path string, fields Document) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents(path, data, updated_at) VALUES(?, json(?), ?)
		ON CONFLICT(path) DO UPDATE SET
			data = json_patch(documents.data, excluded.data),
			updated_at = excluded.updated_at`,
		path, string(raw), time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

// Union runs as one UPDATE so the stored array is read and rewritten
// atomically, also against other processes sharing the file.
func (s *SQLite) Union(ctx context.Context, path, field string, values []string, fields Document) error {
	raw, err := json.Marshal(unionFields(fields, field, values))
	if err != nil {
		return err
	}
	incoming, err := json.Marshal(union(nil, values))
	if err != nil {
		return err
	}
	jsonPath := `$."` + field + `"`
	now := time.Now().UTC().Format(timeLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents(path, data, updated_at) VALUES(?, '{}', ?) ON CONFLICT(path) DO NOTHING`,
		path, now,
	); err != nil {
		return fmt.Errorf("union %s.%s: %w", path, field, err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE documents SET
			data = json_set(json_patch(data, json(?)), ?, json((
				SELECT json_group_array(value) FROM (
					SELECT value FROM json_each(documents.data, ?)
						WHERE json_type(documents.data, ?) = 'array'
					UNION
					SELECT value FROM json_each(?)
					ORDER BY value
				)
			))),
			updated_at = ?
		WHERE path = ?`,
		string(raw), jsonPath, jsonPath, jsonPath, string(incoming), now, path,
	); err != nil {
		return fmt.Errorf("union %s.%s: %w", path, field, err)
	}
	return tx.Commit()
}

func (s *SQLite) List(ctx context.Context, prefix string) (map[string]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, data FROM documents WHERE substr(path, 1, length(?)) = ? ORDER BY path`,
		prefix, prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	defer rows.Close()

	out := map[string]Document{}
	for rows.Next() {
		var path, raw string
		if err := rows.Scan(&path, &raw); err != nil {
			return nil, err
		}
		doc, err := decode([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		out[path] = doc
	}
	return out, rows.Err()
}

func (s *SQLite) Delete(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE path = ?`, path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }
