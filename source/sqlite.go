package source

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/theoremus-urban-solutions/rail-router/records"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteSource stores one JSON record per row of the records table.
type SQLiteSource struct {
	path    string
	conn    *sql.DB
	writeMu sync.Mutex
}

// OpenSQLite opens (and if needed creates) a record database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteSource, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := conn.ExecContext(ctx, schemaSQL); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteSource{path: path, conn: conn}, nil
}

func (s *SQLiteSource) Identity() string { return "sqlite:" + s.path }

func (s *SQLiteSource) Close() error { return s.conn.Close() }

func (s *SQLiteSource) Fetch(ctx context.Context, worldID string) ([]records.Record, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT payload FROM records WHERE world_id = ? ORDER BY rowid`, worldID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []records.Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		recs, err := Decode([]byte("["+payload+"]"), FormatJSON)
		if err != nil {
			return nil, fmt.Errorf("world %s: %w", worldID, err)
		}
		out = append(out, recs...)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrWorldNotFound, worldID)
	}
	return out, nil
}

// Import replaces the stored records of a world.
func (s *SQLiteSource) Import(ctx context.Context, worldID string, recs []records.Record) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE world_id = ?`, worldID); err != nil {
		return fmt.Errorf("failed to clear world %s: %w", worldID, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (world_id, payload) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range recs {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, worldID, string(payload)); err != nil {
			return fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Worlds lists the world ids present in the database.
func (s *SQLiteSource) Worlds(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT DISTINCT world_id FROM records ORDER BY world_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list worlds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
