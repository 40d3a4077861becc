package tui

import (
	"github.com/Lin-Jiong-HDU/jarvis/internal/core/audit"
	tea "github.com/charmbracelet/bubbletea"
)

// model is the Bubble Tea model for the execution history viewer
type model struct {
	records    []*audit.Record
	cursor     int
	keys       keyMap
	showDetail bool
	load       LoadFunc
	loadErr    error
	pendingG   bool // Tracks if 'g' was pressed for 'gg' command
	width      int
	height     int
	renderer   *Renderer
}

// NewModel creates a history viewer over records, shown in the given order
func NewModel(records []*audit.Record) Model {
	return NewModelWithLoader(records, nil)
}

// NewModelWithLoader creates a history viewer that can reload its records
func NewModelWithLoader(records []*audit.Record, load LoadFunc) Model {
	return model{
		records:  records,
		keys:     defaultKeyMap(),
		load:     load,
		renderer: NewRenderer(DefaultStyleConfig()),
	}
}

// Init initializes the model
func (m model) Init() tea.Cmd {
	return tea.Batch(
		tea.WindowSize(),
	)
}

// Update handles messages
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case RecordsLoadedMsg:
		m.loadErr = msg.Err
		if msg.Err == nil {
			m.records = msg.Records
			m.clampCursor()
		}
		return m, nil
	}

	return m, nil
}

func (m model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" || msg.String() == "ctrl+c" || msg.Type == tea.KeyEsc {
		return m, tea.Quit
	}

	if msg.Type == tea.KeyEnter {
		m.pendingG = false
		if len(m.records) > 0 {
			m.showDetail = !m.showDetail
		}
		return m, nil
	}

	switch msg.String() {
	case "k", "up":
		m.pendingG = false
		if m.cursor > 0 {
			m.cursor--
		}
	case "j", "down":
		m.pendingG = false
		if m.cursor < len(m.records)-1 {
			m.cursor++
		}
	case "g":
		if m.pendingG {
			m.cursor = 0
			m.pendingG = false
		} else {
			m.pendingG = true
		}
	case "G":
		m.pendingG = false
		if len(m.records) > 0 {
			m.cursor = len(m.records) - 1
		}
	case "r":
		m.pendingG = false
		if m.load != nil {
			return m, m.reload()
		}
	default:
		m.pendingG = false
	}

	return m, nil
}

func (m model) reload() tea.Cmd {
	load := m.load
	return func() tea.Msg {
		records, err := load()
		return RecordsLoadedMsg{Records: records, Err: err}
	}
}

func (m *model) clampCursor() {
	if m.cursor >= len(m.records) {
		m.cursor = len(m.records) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if len(m.records) == 0 {
		m.showDetail = false
	}
}

// selected returns the record under the cursor, or nil
func (m model) selected() *audit.Record {
	if m.cursor < 0 || m.cursor >= len(m.records) {
		return nil
	}
	return m.records[m.cursor]
}

// View renders the UI
func (m model) View() string {
	return m.renderer.Render(m)
}
