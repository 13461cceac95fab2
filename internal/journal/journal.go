// Package journal keeps an append-only SQLite audit trail of accepted
// design thoughts.
//
// The journal is write-only from the server's point of view: nothing reads
// it back into the tracker, so restarting the process always starts from an
// empty history. It exists for offline review of design sessions.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mahecode/gamethinking-mcp-server/internal/thinking"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database that lives as long as the
// Journal does.
const MemoryPath = ":memory:"

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Row is one journaled thought as stored on disk.
type Row struct {
	ID         int64            `json:"id"`
	SessionID  string           `json:"session_id"`
	Sequence   int              `json:"sequence"`
	BranchID   string           `json:"branch_id,omitempty"`
	Thought    thinking.Thought `json:"thought"`
	RecordedAt string           `json:"recorded_at"`
}

// Journal is a SQLite-backed thinking.Journal.
type Journal struct {
	db *sql.DB
}

var _ thinking.Journal = (*Journal)(nil)

// Open creates (or reuses) the journal database at path. Parent
// directories are created as needed. Use MemoryPath for a throwaway
// in-memory journal.
func Open(path string) (*Journal, error) {
	if path == "" {
		path = MemoryPath
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("journal: create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}
	// An in-memory database is per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	if path != MemoryPath {
		pragmas = append([]string{"PRAGMA journal_mode = WAL"}, pragmas...)
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("journal: pragma %q: %w", p, err)
		}
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Append stores one accepted thought.
func (j *Journal) Append(ctx context.Context, e thinking.Entry) error {
	if e.SessionID == "" {
		return fmt.Errorf("journal: append: session id is empty")
	}
	if e.Sequence <= 0 {
		return fmt.Errorf("journal: append: invalid sequence %d", e.Sequence)
	}

	payload, err := json.Marshal(e.Thought)
	if err != nil {
		return fmt.Errorf("journal: append: encode thought: %w", err)
	}

	var branch any
	if id, ok := e.Thought.Branch(); ok {
		branch = id
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = j.db.ExecContext(ctx,
		`INSERT INTO thoughts (session_id, sequence, thought_number, total_thoughts, branch_id, payload, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Sequence, e.Thought.ThoughtNumber, e.Thought.TotalThoughts, branch, string(payload), now,
	)
	if err != nil {
		return fmt.Errorf("journal: append: insert: %w", err)
	}
	return nil
}

// Session returns every row journaled for sessionID in sequence order.
func (j *Journal) Session(ctx context.Context, sessionID string) ([]Row, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, session_id, sequence, branch_id, payload, recorded_at
		 FROM thoughts WHERE session_id = ? ORDER BY sequence`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("journal: session: query: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			r       Row
			branch  sql.NullString
			payload string
		)
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Sequence, &branch, &payload, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("journal: session: scan: %w", err)
		}
		r.BranchID = branch.String
		if err := json.Unmarshal([]byte(payload), &r.Thought); err != nil {
			return nil, fmt.Errorf("journal: session: decode row %d: %w", r.ID, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: session: rows: %w", err)
	}
	return out, nil
}

// Sessions lists the distinct session ids in the journal, oldest first.
func (j *Journal) Sessions(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT session_id FROM thoughts GROUP BY session_id ORDER BY MIN(id)`,
	)
	if err != nil {
		return nil, fmt.Errorf("journal: sessions: query: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("journal: sessions: scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
