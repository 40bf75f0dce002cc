package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SessionRecord summarizes one run of a tilemap program: how much drawing it
// queued and how much of it actually reached the screen.
type SessionRecord struct {
	ID         int64
	SessionID  string // uuid
	GameID     string
	Backend    string // "tui", "tcell", "ssh", "headless"
	Frames     int64
	Commands   int64
	TileWrites int64
	Remeshes   int64
	Duration   time.Duration
	CreatedAt  time.Time
}

// ErrSessionNotFound is returned when no session has the requested id.
var ErrSessionNotFound = errors.New("storage: session not found")

// SaveSession records a finished session.
// Returns the ID of the inserted record.
func (s *Store) SaveSession(r SessionRecord) (int64, error) {
	var id int64
	err := s.db.QueryRow(
		s.rebind(`INSERT INTO render_sessions
			(session_id, game_id, backend, frames, commands, tile_writes, remeshes, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`),
		r.SessionID, r.GameID, r.Backend,
		r.Frames, r.Commands, r.TileWrites, r.Remeshes,
		r.Duration.Milliseconds(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}
	return id, nil
}

const sessionColumns = `id, session_id, game_id, backend, frames, commands, tile_writes, remeshes, duration_ms, created_at`

func scanSession(row interface{ Scan(...any) error }) (SessionRecord, error) {
	var r SessionRecord
	var durationMs int64
	var createdAt any
	err := row.Scan(&r.ID, &r.SessionID, &r.GameID, &r.Backend,
		&r.Frames, &r.Commands, &r.TileWrites, &r.Remeshes, &durationMs, &createdAt)
	if err != nil {
		return r, err
	}
	r.Duration = time.Duration(durationMs) * time.Millisecond
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// SessionByID retrieves a session by its uuid.
func (s *Store) SessionByID(sessionID string) (*SessionRecord, error) {
	row := s.db.QueryRow(
		s.rebind(`SELECT `+sessionColumns+` FROM render_sessions WHERE session_id = ?`),
		sessionID,
	)
	r, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}
	return &r, nil
}

// RecentSessions retrieves the most recent sessions, newest first. An empty
// gameID matches every game.
func (s *Store) RecentSessions(gameID string, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		s.rebind(`SELECT `+sessionColumns+`
		 FROM render_sessions
		 WHERE ? = '' OR game_id = ?
		 ORDER BY id DESC
		 LIMIT ?`),
		gameID, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		r, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan session: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}
