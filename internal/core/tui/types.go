package tui

import (
	"github.com/Lin-Jiong-HDU/jarvis/internal/core/audit"
	tea "github.com/charmbracelet/bubbletea"
)

// LoadFunc reloads the audit records shown by the viewer
type LoadFunc func() ([]*audit.Record, error)

// RecordsLoadedMsg is sent when a reload completes
type RecordsLoadedMsg struct {
	Records []*audit.Record
	Err     error
}

// Model is the interface for the TUI model
type Model interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Model, tea.Cmd)
	View() string
}
