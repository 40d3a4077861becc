package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core"
	"github.com/Lin-Jiong-HDU/jarvis/internal/core/audit"
	"github.com/charmbracelet/lipgloss"
)

const maxCommandWidth = 50

// Renderer handles TUI rendering
type Renderer struct {
	style *StyleConfig
}

// StyleConfig defines visual styles
type StyleConfig struct {
	TitleColor    lipgloss.Color
	SubtleColor   lipgloss.Color
	ErrorColor    lipgloss.Color
	SuccessColor  lipgloss.Color
	WarningColor  lipgloss.Color
	SelectedColor lipgloss.Color
	BorderColor   lipgloss.Color
}

// DefaultStyleConfig returns the default style configuration
func DefaultStyleConfig() *StyleConfig {
	return &StyleConfig{
		TitleColor:    lipgloss.Color("10"),  // Green
		SubtleColor:   lipgloss.Color("241"), // Grey
		ErrorColor:    lipgloss.Color("9"),   // Red
		SuccessColor:  lipgloss.Color("10"),  // Green
		WarningColor:  lipgloss.Color("11"),  // Yellow
		SelectedColor: lipgloss.Color("12"),  // Blue
		BorderColor:   lipgloss.Color("8"),   // Dark grey
	}
}

// NewRenderer creates a new TUI renderer
func NewRenderer(style *StyleConfig) *Renderer {
	if style == nil {
		style = DefaultStyleConfig()
	}
	return &Renderer{style: style}
}

// Render renders the full view for m
func (r *Renderer) Render(m model) string {
	header := r.renderHeader(len(m.records))
	content := r.renderRecords(m)
	if m.showDetail {
		if rec := m.selected(); rec != nil {
			content += "\n" + r.renderDetail(rec)
		}
	}
	if m.loadErr != nil {
		content += "\n" + lipgloss.NewStyle().Foreground(r.style.ErrorColor).
			Render("reload failed: "+m.loadErr.Error()) + "\n"
	}
	footer := r.renderFooter(m.keys)

	// Push the footer to the bottom of the window.
	if m.height > 0 {
		used := countLines(header) + countLines(content) + countLines(footer)
		if pad := m.height - used; pad > 0 {
			content += strings.Repeat("\n", pad)
		}
	}

	return header + content + footer
}

func (r *Renderer) renderHeader(total int) string {
	title := lipgloss.NewStyle().
		Foreground(r.style.TitleColor).
		Bold(true).
		Render(fmt.Sprintf(" JARVIS command history (%d) ", total))

	border := lipgloss.NewStyle().
		Foreground(r.style.BorderColor).
		Render(strings.Repeat("─", 62))

	return title + "\n" + border + "\n"
}

func (r *Renderer) renderRecords(m model) string {
	if len(m.records) == 0 {
		return lipgloss.NewStyle().Foreground(r.style.SubtleColor).
			Render("No commands have been executed yet.") + "\n"
	}

	var b strings.Builder
	for i, rec := range m.records {
		cursor := " "
		line := fmt.Sprintf("%s  %-13s %s",
			rec.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.statusStyle(rec.Status).Render(string(rec.Status)),
			truncate(rec.Command, maxCommandWidth))
		if i == m.cursor {
			cursor = ">"
			line = lipgloss.NewStyle().Foreground(r.style.SelectedColor).Render(cursor) + " " + line
		} else {
			line = cursor + " " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (r *Renderer) renderDetail(rec *audit.Record) string {
	rows := []string{
		"ID:        " + rec.ID,
		"Session:   " + rec.SessionID,
		"Command:   " + rec.Command,
		"Status:    " + r.statusStyle(rec.Status).Render(string(rec.Status)),
		fmt.Sprintf("Exit code: %d", rec.ExitCode),
		"Duration:  " + (time.Duration(rec.DurationMS) * time.Millisecond).String(),
		"Created:   " + rec.CreatedAt.Local().Format(time.RFC1123),
	}
	if rec.Truncated {
		rows = append(rows, "Output:    truncated")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(r.style.BorderColor).
		Padding(0, 1).
		Render(strings.Join(rows, "\n")) + "\n"
}

func (r *Renderer) renderFooter(keys keyMap) string {
	return "\n" + statusBarStyle.Render(keys.Help().View()) + "\n"
}

func (r *Renderer) statusStyle(status core.Status) lipgloss.Style {
	switch status {
	case core.StatusSuccess:
		return lipgloss.NewStyle().Foreground(r.style.SuccessColor)
	case core.StatusBlocked, core.StatusTimedOut:
		return lipgloss.NewStyle().Foreground(r.style.WarningColor)
	case core.StatusFailed, core.StatusNotFound, core.StatusRuntimeError:
		return lipgloss.NewStyle().Foreground(r.style.ErrorColor)
	default:
		return lipgloss.NewStyle().Foreground(r.style.SubtleColor)
	}
}

// truncate shortens s to max runes
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// countLines counts the number of lines in a string
func countLines(s string) int {
	if s == "" {
		return 0
	}
	count := strings.Count(s, "\n")
	if s[len(s)-1] != '\n' {
		count++
	}
	return count
}

var statusBarStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252")).
	Background(lipgloss.Color("235")).
	Padding(0, 1).
	Border(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("241")).
	MarginTop(1)
