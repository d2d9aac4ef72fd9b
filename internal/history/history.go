// Package history keeps a small local record of games this client created
// or joined, so the UI can offer recent room codes and the last nickname
// back to the player. It deliberately stores nothing about game state: the
// live session is never persisted.
package history

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Entry is one remembered game.
type Entry struct {
	GameID   string
	Nickname string
	JoinedAt time.Time
}

// Store is a sqlite-backed history of joined games.
type Store struct {
	db    *sql.DB
	clock clockwork.Clock
}

// Open opens (or creates) the history database at path and applies pending
// migrations. Use ":memory:" for a throwaway store.
func Open(path string, clock clockwork.Clock) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply history migrations: %w", err)
	}

	return &Store{db: db, clock: clock}, nil
}

// Record remembers a game. Rejoining a known game refreshes its nickname
// and timestamp instead of adding a second row.
func (s *Store) Record(gameID, nickname string) error {
	query := `
		INSERT OR REPLACE INTO game_history (game_id, nickname, joined_at)
		VALUES (?, ?, ?)
	`
	if _, err := s.db.Exec(query, gameID, nickname, s.clock.Now().UTC()); err != nil {
		return fmt.Errorf("record game %s: %w", gameID, err)
	}
	return nil
}

// Recent returns up to limit entries, most recently joined first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	query := `
		SELECT game_id, nickname, joined_at FROM game_history
		ORDER BY joined_at DESC
		LIMIT ?
	`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.GameID, &e.Nickname, &e.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return entries, nil
}

// LastNickname returns the nickname used most recently, or "" when the
// history is empty.
func (s *Store) LastNickname() (string, error) {
	query := `
		SELECT nickname FROM game_history
		ORDER BY joined_at DESC
		LIMIT 1
	`
	var nickname string
	err := s.db.QueryRow(query).Scan(&nickname)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query last nickname: %w", err)
	}
	return nickname, nil
}

// Prune deletes entries older than maxAge and reports how many were removed.
// Game rooms are short-lived on the server, so stale codes are useless.
func (s *Store) Prune(maxAge time.Duration) (int64, error) {
	cutoff := s.clock.Now().UTC().Add(-maxAge)
	res, err := s.db.Exec(`DELETE FROM game_history WHERE joined_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	return deleted, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
