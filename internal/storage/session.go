package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	SessionDirName  = "sessions"
	SessionFileName = "session.json"
	MaxHistory      = 100
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one line of the session transcript
type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Session represents one listen session and its transcript
type Session struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`

	dir string
	mu  sync.Mutex
}

// NewSession creates a session with a fresh ID under sessionsDir
func NewSession(sessionsDir string) (*Session, error) {
	now := time.Now()
	id := generateSessionID(now)
	dir := filepath.Join(sessionsDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &Session{
		ID:        id,
		StartedAt: now,
		UpdatedAt: now,
		Messages:  []Message{},
		dir:       dir,
	}, nil
}

// LoadSession reads a saved session from its directory
func LoadSession(dir string) (*Session, error) {
	data, err := os.ReadFile(filepath.Join(dir, SessionFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	s.dir = dir
	return &s, nil
}

// Dir returns the session directory
func (s *Session) Dir() string {
	return s.dir
}

// AddMessage appends a message and saves the session
func (s *Session) AddMessage(role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Messages = append(s.Messages, Message{
		Role:    role,
		Content: content,
		At:      time.Now(),
	})
	return s.save()
}

// Save writes the session to disk
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

func (s *Session) save() error {
	s.UpdatedAt = time.Now()

	// Trim to max history
	if len(s.Messages) > MaxHistory {
		s.Messages = s.Messages[len(s.Messages)-MaxHistory:]
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, SessionFileName), data, 0644); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	return nil
}

// Clear removes the saved transcript
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Messages = []Message{}
	if err := os.Remove(filepath.Join(s.dir, SessionFileName)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func generateSessionID(now time.Time) string {
	return fmt.Sprintf("%d-%02d-%02d-%02d%02d%02d-%09d",
		now.Year(),
		now.Month(),
		now.Day(),
		now.Hour(),
		now.Minute(),
		now.Second(),
		now.Nanosecond())
}
