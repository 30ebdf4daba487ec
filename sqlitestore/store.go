// Package sqlitestore persists board elements in SQLite.
//
// A Store implements boardkit.ElementStore and boardkit.VersionedStore, so
// it can back a Board directly:
//
//	st, err := sqlitestore.Open(ctx, "board.db", logger)
//	if err != nil { ... }
//	defer st.Close()
//	board := boardkit.NewBoard(cfg, st)
//
// Each element is stored as its JSON encoding next to a few indexed
// columns. A single-row meta table holds a change counter that every write
// bumps inside the same transaction, so boards sharing one database file
// see each other's edits on their next refresh.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"github.com/phanxgames/boardkit"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// Store is an element store over a SQLite database. It is safe for
// concurrent use; SQLite serializes the writes.
type Store struct {
	db     *sql.DB
	logger *log.Logger

	// Timeout bounds the context-free convenience methods (Move, Upsert,
	// Version).
	Timeout time.Duration
}

// Open opens (or creates) the database at path and migrates it. Use
// MemoryDSN for a throwaway database.
func Open(ctx context.Context, path string, logger *log.Logger) (*Store, error) {
	if path != MemoryDSN && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		path += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection: SQLite has a single writer, and an in-memory database
	// exists only on the connection that created it.
	db.SetMaxOpenConns(1)

	s, err := New(ctx, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and migrates it. The caller keeps ownership of
// db; Close closes it.
func New(ctx context.Context, db *sql.DB, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = boardkit.DefaultConfig().Logger
	}
	s := &Store{db: db, logger: logger.WithPrefix("sqlitestore"), Timeout: 5 * time.Second}
	if err := s.migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS elements (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			type TEXT NOT NULL,
			parent_id TEXT NOT NULL DEFAULT '',
			z_index INTEGER NOT NULL DEFAULT 0,
			body TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_elements_parent ON elements(parent_id)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		)`,
		`INSERT OR IGNORE INTO meta (key, value) VALUES ('version', 0)`,
	}
	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %.40s: %w", m, err)
		}
	}
	return nil
}

// --- Reads ---

// Elements returns every element in insertion order.
func (s *Store) Elements(ctx context.Context) ([]boardkit.Element, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, body FROM elements ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query elements: %w", err)
	}
	defer rows.Close()

	var out []boardkit.Element
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scan element: %w", err)
		}
		var e boardkit.Element
		if err := json.Unmarshal([]byte(body), &e); err != nil {
			return nil, fmt.Errorf("decode element %q: %w", id, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Element returns the element with the given id. A missing id reports a
// NODE_NOT_FOUND error.
func (s *Store) Element(ctx context.Context, id string) (boardkit.Element, error) {
	var e boardkit.Element
	if err := getElement(ctx, s.db, id, &e); err != nil {
		return boardkit.Element{}, err
	}
	return e, nil
}

// Len returns the number of stored elements.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM elements`).Scan(&n)
	return n, err
}

// VersionContext returns the change counter.
func (s *Store) VersionContext(ctx context.Context) (uint64, error) {
	var v int64
	if err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'version'`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read version: %w", err)
	}
	return uint64(v), nil
}

// Version implements boardkit.VersionedStore. It returns 0 (unknown) if the
// counter cannot be read, which makes the graph fall back to content
// hashing.
func (s *Store) Version() uint64 {
	ctx, cancel := s.context()
	defer cancel()
	v, err := s.VersionContext(ctx)
	if err != nil {
		s.logger.Warn("version unavailable", "err", err)
		return 0
	}
	return v
}

// --- Writes ---

// Put inserts e or replaces the element with the same id. A replaced
// element keeps its place in the list order.
func (s *Store) Put(ctx context.Context, e boardkit.Element) error {
	return s.write(ctx, func(tx *sql.Tx) error {
		return putElement(ctx, tx, &e)
	})
}

// Replace swaps the whole element list for elements.
func (s *Store) Replace(ctx context.Context, elements []boardkit.Element) error {
	return s.write(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM elements`); err != nil {
			return err
		}
		for i := range elements {
			if err := putElement(ctx, tx, &elements[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the element with the given id. A missing id reports a
// NODE_NOT_FOUND error.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.write(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM elements WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return boardkit.NewError(boardkit.ErrCodeNodeNotFound, "element %q does not exist", id)
		}
		return nil
	})
}

// SetPosition moves the element with the given id.
func (s *Store) SetPosition(ctx context.Context, id string, position boardkit.Vec2) error {
	return s.modify(ctx, []string{id}, func(e *boardkit.Element) {
		e.Position = position
	})
}

// UpdateParents implements boardkit.ElementStore. All changes commit in one
// transaction; an unknown id rolls every change back.
func (s *Store) UpdateParents(ctx context.Context, changes map[string]string) error {
	ids := make([]string, 0, len(changes))
	for id := range changes {
		ids = append(ids, id)
	}
	return s.modify(ctx, ids, func(e *boardkit.Element) {
		e.ParentID = changes[e.ID]
	})
}

// Upsert is Put with the store's timeout. Failures are logged. It lets the
// store receive edits from ebitenhost gestures.
func (s *Store) Upsert(e boardkit.Element) {
	ctx, cancel := s.context()
	defer cancel()
	if err := s.Put(ctx, e); err != nil {
		s.logger.Error("upsert failed", "id", e.ID, "err", err)
	}
}

// Move is SetPosition with the store's timeout. Reports whether the element
// was moved; failures are logged.
func (s *Store) Move(id string, position boardkit.Vec2) bool {
	ctx, cancel := s.context()
	defer cancel()
	if err := s.SetPosition(ctx, id, position); err != nil {
		s.logger.Error("move failed", "id", id, "err", err)
		return false
	}
	return true
}

func (s *Store) context() (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), s.Timeout)
}

// modify rewrites each listed element with fn inside one transaction.
func (s *Store) modify(ctx context.Context, ids []string, fn func(e *boardkit.Element)) error {
	return s.write(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			var e boardkit.Element
			if err := getElement(ctx, tx, id, &e); err != nil {
				return err
			}
			fn(&e)
			if err := putElement(ctx, tx, &e); err != nil {
				return err
			}
		}
		return nil
	})
}

// write runs fn in a transaction and bumps the change counter with it.
func (s *Store) write(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.Warn("rollback failed", "err", rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `UPDATE meta SET value = value + 1 WHERE key = 'version'`); err != nil {
		return fmt.Errorf("bump version: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// --- Rows ---

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getElement(ctx context.Context, q queryer, id string, e *boardkit.Element) error {
	var body string
	err := q.QueryRowContext(ctx, `SELECT body FROM elements WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return boardkit.NewError(boardkit.ErrCodeNodeNotFound, "element %q does not exist", id)
	}
	if err != nil {
		return fmt.Errorf("load element %q: %w", id, err)
	}
	if err := json.Unmarshal([]byte(body), e); err != nil {
		return fmt.Errorf("decode element %q: %w", id, err)
	}
	return nil
}

func putElement(ctx context.Context, tx *sql.Tx, e *boardkit.Element) error {
	if e.ID == "" {
		return errors.New("element has no id")
	}
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode element %q: %w", e.ID, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO elements (id, type, parent_id, z_index, body)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			parent_id = excluded.parent_id,
			z_index = excluded.z_index,
			body = excluded.body,
			updated_at = CURRENT_TIMESTAMP`,
		e.ID, string(e.Type), e.ParentID, e.ZIndex, string(body))
	if err != nil {
		return fmt.Errorf("store element %q: %w", e.ID, err)
	}
	return nil
}
