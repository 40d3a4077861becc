package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestNewSession(t *testing.T) {
	sessionsDir := t.TempDir()

	session, err := NewSession(sessionsDir)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	if session.ID == "" {
		t.Error("Expected non-empty session ID")
	}
	if len(session.Messages) != 0 {
		t.Errorf("Expected empty messages, got %d", len(session.Messages))
	}
	if session.Dir() != filepath.Join(sessionsDir, session.ID) {
		t.Errorf("Unexpected session dir %s", session.Dir())
	}
	if _, err := os.Stat(session.Dir()); err != nil {
		t.Errorf("Expected session dir to exist: %v", err)
	}
}

func TestSession_AddMessage(t *testing.T) {
	session, err := NewSession(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := session.AddMessage(RoleUser, "jarvis hello"); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}
	if err := session.AddMessage(RoleAssistant, "Hello, sir."); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}

	loaded, err := LoadSession(session.Dir())
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if len(loaded.Messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(loaded.Messages))
	}
	if loaded.Messages[0].Content != "jarvis hello" || loaded.Messages[1].Role != RoleAssistant {
		t.Errorf("Unexpected messages %+v", loaded.Messages)
	}
}

func TestSession_TrimsHistory(t *testing.T) {
	session, err := NewSession(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < MaxHistory+5; i++ {
		if err := session.AddMessage(RoleUser, fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatal(err)
		}
	}

	if len(session.Messages) != MaxHistory {
		t.Errorf("Expected %d messages, got %d", MaxHistory, len(session.Messages))
	}
	if session.Messages[0].Content != "msg 5" {
		t.Errorf("Expected oldest messages dropped, first is %q", session.Messages[0].Content)
	}
}

func TestSession_Clear(t *testing.T) {
	session, err := NewSession(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := session.AddMessage(RoleUser, "test"); err != nil {
		t.Fatal(err)
	}

	if err := session.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if len(session.Messages) != 0 {
		t.Error("Expected messages to be cleared")
	}
	if _, err := os.Stat(filepath.Join(session.Dir(), SessionFileName)); !os.IsNotExist(err) {
		t.Error("Expected session file to be removed")
	}
	// Clearing twice is fine.
	if err := session.Clear(); err != nil {
		t.Errorf("Second Clear failed: %v", err)
	}
}

func TestLoadSession_Missing(t *testing.T) {
	if _, err := LoadSession(t.TempDir()); err == nil {
		t.Error("Expected error for missing session file")
	}
}
