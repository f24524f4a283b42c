// session.go implements isolated chat sessions. Each session carries its
// own conversation history and the canvas state the client last reported
// (or the agent last produced), persisted across restarts in SQLite.
package copilot

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/canvas"
)

// ConversationEntry is one user/assistant exchange in a session.
type ConversationEntry struct {
	UserMessage       string
	AssistantResponse string
	Timestamp         time.Time
}

// Session is one isolated conversation with its own canvas.
type Session struct {
	// ID uniquely identifies the session.
	ID string

	// Canvas is the session's current canvas state. The client is the
	// source of truth; the agent updates this through tools.
	Canvas *canvas.State

	// history holds the conversation entries, oldest first.
	history []ConversationEntry

	// CreatedAt is the session creation timestamp.
	CreatedAt time.Time

	// LastActiveAt is the timestamp of the last exchange.
	LastActiveAt time.Time

	mu sync.RWMutex
}

// AddMessage appends a conversation entry to the session.
func (s *Session) AddMessage(userMsg, assistantResp string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, ConversationEntry{
		UserMessage:       userMsg,
		AssistantResponse: assistantResp,
		Timestamp:         time.Now(),
	})
	s.LastActiveAt = time.Now()
}

// RecentHistory returns the last maxEntries conversation entries.
func (s *Session) RecentHistory(maxEntries int) []ConversationEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.history) <= maxEntries {
		result := make([]ConversationEntry, len(s.history))
		copy(result, s.history)
		return result
	}

	start := len(s.history) - maxEntries
	result := make([]ConversationEntry, maxEntries)
	copy(result, s.history[start:])
	return result
}

// SetCanvas replaces the session's canvas state.
func (s *Session) SetCanvas(st *canvas.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Canvas = st
	s.LastActiveAt = time.Now()
}

// CanvasState returns the session's canvas, creating an empty one if the
// session has none yet.
func (s *Session) CanvasState() *canvas.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Canvas == nil {
		s.Canvas = &canvas.State{Items: []canvas.Item{}}
	}
	return s.Canvas
}

// SessionStore manages active sessions, loading them from and persisting
// them to SQLite.
type SessionStore struct {
	db       *sql.DB
	sessions map[string]*Session
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewSessionStore creates a store on top of an open database. db may be
// nil, in which case sessions live only in memory.
func NewSessionStore(db *sql.DB, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		db:       db,
		sessions: make(map[string]*Session),
		logger:   logger.With("component", "sessions"),
	}
}

// GetOrCreate returns the session with the given id, loading it from the
// database on first access. An empty id creates a fresh session with a
// generated id.
func (st *SessionStore) GetOrCreate(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}
	if s, ok := st.sessions[id]; ok {
		return s
	}

	s := &Session{ID: id, CreatedAt: time.Now(), LastActiveAt: time.Now()}
	if st.db != nil {
		st.loadSession(s)
	}
	st.sessions[id] = s
	return s
}

// SaveExchange appends an exchange to the session and persists it together
// with the session's current canvas state.
func (st *SessionStore) SaveExchange(s *Session, userMsg, assistantResp string) {
	s.AddMessage(userMsg, assistantResp)
	if st.db == nil {
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := st.db.Exec(
		`INSERT INTO session_entries (session_id, user_message, assistant_response, created_at)
		 VALUES (?, ?, ?, ?)`,
		s.ID, userMsg, assistantResp, now,
	); err != nil {
		st.logger.Warn("failed to persist session entry", "session", s.ID, "error", err)
	}

	st.SaveCanvas(s)
}

// SaveCanvas persists the session's canvas snapshot.
func (st *SessionStore) SaveCanvas(s *Session) {
	if st.db == nil {
		return
	}

	stateJSON := []byte("{}")
	if s.Canvas != nil {
		if b, err := json.Marshal(s.Canvas); err == nil {
			stateJSON = b
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := st.db.Exec(
		`INSERT INTO session_meta (session_id, canvas_state, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET canvas_state = excluded.canvas_state,
		                                       updated_at = excluded.updated_at`,
		s.ID, string(stateJSON), now,
	); err != nil {
		st.logger.Warn("failed to persist canvas state", "session", s.ID, "error", err)
	}
}

// Sessions returns the ids of all sessions currently loaded.
func (st *SessionStore) Sessions() []string {
	st.mu.Lock()
	defer st.mu.Unlock()
	ids := make([]string, 0, len(st.sessions))
	for id := range st.sessions {
		ids = append(ids, id)
	}
	return ids
}

// loadSession restores history and canvas state from the database.
func (st *SessionStore) loadSession(s *Session) {
	rows, err := st.db.Query(
		`SELECT user_message, assistant_response, created_at
		 FROM session_entries WHERE session_id = ? ORDER BY id`,
		s.ID,
	)
	if err != nil {
		st.logger.Warn("failed to load session history", "session", s.ID, "error", err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var entry ConversationEntry
		var createdAt string
		if err := rows.Scan(&entry.UserMessage, &entry.AssistantResponse, &createdAt); err != nil {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			entry.Timestamp = ts
		}
		s.history = append(s.history, entry)
	}
	if err := rows.Err(); err != nil {
		st.logger.Warn("error iterating session history", "session", s.ID, "error", err)
	}

	var stateJSON string
	err = st.db.QueryRow(
		`SELECT canvas_state FROM session_meta WHERE session_id = ?`, s.ID,
	).Scan(&stateJSON)
	switch {
	case err == sql.ErrNoRows:
		// New session.
	case err != nil:
		st.logger.Warn("failed to load canvas state", "session", s.ID, "error", err)
	default:
		var cs canvas.State
		if jsonErr := json.Unmarshal([]byte(stateJSON), &cs); jsonErr == nil {
			s.Canvas = &cs
		} else {
			st.logger.Warn("corrupt canvas state ignored",
				"session", s.ID, "error", fmt.Sprintf("%v", jsonErr))
		}
	}
}
