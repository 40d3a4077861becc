package display

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core"
	"github.com/Lin-Jiong-HDU/jarvis/internal/logger"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Palette holds the configurable panel colours
type Palette struct {
	Primary   string
	Secondary string
	Accent    string
	Text      string
}

// DefaultPalette returns the built-in colours
func DefaultPalette() Palette {
	return Palette{
		Primary:   "#00D4FF",
		Secondary: "#0099CC",
		Accent:    "#FF6B35",
		Text:      "#FFFFFF",
	}
}

const (
	successColor = lipgloss.Color("10") // Green
	warningColor = lipgloss.Color("11") // Yellow
	errorColor   = lipgloss.Color("9")  // Red
)

// Options configures a Display
type Options struct {
	Width          int
	RenderMarkdown bool
	Palette        Palette
	Log            logger.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Display renders responses as bordered terminal panels
type Display struct {
	out      io.Writer
	width    int
	palette  Palette
	markdown *Markdown
	now      func() time.Time
	log      logger.Logger
	mu       sync.Mutex
}

// New creates a display writing to out
func New(out io.Writer, opts Options) *Display {
	log := opts.Log
	if log == nil {
		log = logger.Discard()
	}
	log = log.With("component", "display")

	width := opts.Width
	if width <= 0 {
		width = 80
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	palette := opts.Palette
	if palette == (Palette{}) {
		palette = DefaultPalette()
	}

	d := &Display{
		out:     out,
		width:   width,
		palette: palette,
		now:     now,
		log:     log,
	}
	if opts.RenderMarkdown {
		md, err := NewMarkdown(width - 4)
		if err != nil {
			log.Warn("markdown renderer unavailable", "err", err)
		} else {
			d.markdown = md
		}
	}
	return d
}

// Deliver writes resp as a panel
func (d *Display) Deliver(_ context.Context, resp core.Response) error {
	if resp.Text == "" && resp.Detail == nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := fmt.Fprintln(d.out, d.Render(resp)); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// Render returns the panel for resp, followed by its detail panel if any
func (d *Display) Render(resp core.Response) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(d.palette.Primary)).
		Render("JARVIS Response - " + d.now().Format("15:04:05"))

	body := lipgloss.NewStyle().
		Foreground(d.kindColor(resp.Kind)).
		Width(d.width - 4).
		Render(resp.Text)

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(d.palette.Primary)).
		Padding(0, 1).
		Render(title + "\n" + body)

	if resp.Detail == nil {
		return panel
	}
	return lipgloss.JoinVertical(lipgloss.Left, panel, d.renderDetail(resp.Detail))
}

func (d *Display) renderDetail(detail *core.Detail) string {
	var content string
	switch {
	case len(detail.Facts) > 0:
		content = d.renderFacts(detail.Facts)
	case detail.Markdown && d.markdown != nil:
		content = strings.TrimRight(d.markdown.Render(detail.Body), "\n")
	default:
		content = lipgloss.NewStyle().
			Foreground(lipgloss.Color(d.palette.Text)).
			Width(d.width - 4).
			Render(detail.Body)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(d.palette.Accent)).
		Render(detail.Title)

	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(d.palette.Secondary)).
		Padding(0, 1).
		Render(header + "\n" + content)
}

func (d *Display) renderFacts(facts []core.Fact) string {
	rows := make([][]string, 0, len(facts))
	for _, f := range facts {
		rows = append(rows, []string{f.Name, f.Value})
	}

	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(d.palette.Primary)).Padding(0, 1)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(d.palette.Text)).Padding(0, 1)

	return table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("Metric", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			if col == 0 {
				return nameStyle
			}
			return valueStyle
		}).
		Render()
}

func (d *Display) kindColor(kind core.ResponseKind) lipgloss.TerminalColor {
	switch kind {
	case core.KindSuccess:
		return successColor
	case core.KindWarning:
		return warningColor
	case core.KindError:
		return errorColor
	default:
		return lipgloss.Color(d.palette.Secondary)
	}
}

var _ core.Channel = (*Display)(nil)
