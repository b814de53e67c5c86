// Package session persists the conversation continuity token and a local
// transcript in a sqlite database so both survive restarts.
package session

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store manages the durable conversation state
type Store struct {
	db *sql.DB
}

// Message is a single transcript entry
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewStore opens (or creates) the store at dbPath
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := configureDatabase(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SessionID returns the persisted conversation token, or "" when none has
// been set yet.
func (s *Store) SessionID() (string, error) {
	var id string
	err := s.db.QueryRow(`SELECT session_id FROM conversation WHERE id = 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session id: %w", err)
	}
	return id, nil
}

// SetSessionID persists the conversation token. The first non-empty value
// wins; later writes are silently ignored.
func (s *Store) SetSessionID(id string) error {
	if id == "" {
		return nil
	}
	_, err := s.db.Exec(
		`INSERT INTO conversation (id, session_id) VALUES (1, ?)
		 ON CONFLICT (id) DO NOTHING`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to persist session id: %w", err)
	}
	return nil
}

// Clear removes the session token and the transcript, starting a fresh
// conversation on the next chat turn.
func (s *Store) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM conversation`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM messages`); err != nil {
		return fmt.Errorf("failed to clear transcript: %w", err)
	}
	return tx.Commit()
}

// AddMessage appends a transcript entry and returns its id
func (s *Store) AddMessage(role, content string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO messages (id, role, content, timestamp) VALUES (?, ?, ?, ?)`,
		id, role, content, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to add message: %w", err)
	}
	return id, nil
}

// History returns up to limit transcript entries in chronological order.
// limit <= 0 returns everything.
func (s *Store) History(limit int) ([]Message, error) {
	query := `SELECT id, role, content, timestamp FROM messages ORDER BY seq`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		// Take the newest N, then present them oldest-first.
		query = `SELECT id, role, content, timestamp FROM (
			SELECT seq, id, role, content, timestamp FROM messages ORDER BY seq DESC LIMIT ?
		) ORDER BY seq`
		rows, err = s.db.Query(query, limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transcript: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
