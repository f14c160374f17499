package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/causality/internal/multiverse"
)

// ErrNotFound reports a missing snapshot id or an empty journal for a
// level.
var ErrNotFound = errors.New("snapshot not found")

// Record is one journal entry: the envelope plus the decoded snapshot.
type Record struct {
	ID      int64               `json:"id"`
	Level   string              `json:"level"`
	Attempt string              `json:"attempt"`
	Frame   int64               `json:"frame"`
	Data    multiverse.Snapshot `json:"data"`
}

// Save appends a snapshot for level under the given attempt token and
// returns its journal id. Entries are never overwritten.
func (s *Store) Save(ctx context.Context, level, attempt string, frame int64, snap multiverse.Snapshot) (int64, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("save snapshot: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (level, attempt, frame, version, data)
		VALUES (?, ?, ?, ?, ?)
	`, level, attempt, frame, snap.Version, string(data))
	if err != nil {
		return 0, fmt.Errorf("save snapshot: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save snapshot: %w", err)
	}
	return id, nil
}

// Load returns the journal entry with the given id.
func (s *Store) Load(ctx context.Context, id int64) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, level, attempt, frame, data
		FROM snapshots WHERE id = ?
	`, id)
	return scanRecord(row)
}

// Latest returns the most recent entry for level.
func (s *Store) Latest(ctx context.Context, level string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, level, attempt, frame, data
		FROM snapshots WHERE level = ?
		ORDER BY id DESC LIMIT 1
	`, level)
	return scanRecord(row)
}

// List returns every entry for level in journal order.
func (s *Store) List(ctx context.Context, level string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, level, attempt, frame, data
		FROM snapshots WHERE level = ?
		ORDER BY id ASC
	`, level)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec  Record
			data string
		)
		if err := rows.Scan(&rec.ID, &rec.Level, &rec.Attempt, &rec.Frame, &data); err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &rec.Data); err != nil {
			return nil, fmt.Errorf("decode snapshot %d: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

func scanRecord(row *sql.Row) (Record, error) {
	var (
		rec  Record
		data string
	)
	err := row.Scan(&rec.ID, &rec.Level, &rec.Attempt, &rec.Frame, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("load snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &rec.Data); err != nil {
		return Record{}, fmt.Errorf("decode snapshot %d: %w", rec.ID, err)
	}
	return rec, nil
}
