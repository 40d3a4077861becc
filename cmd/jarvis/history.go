package main

import (
	"fmt"
	"io"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core/audit"
	"github.com/Lin-Jiong-HDU/jarvis/internal/core/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// getHistoryCommand returns the history command
func getHistoryCommand(a *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse executed commands",
		Long: `Open a TUI listing every system command resolved across sessions,
newest first, including blocked ones.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHistory(cmd, plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the history instead of opening the TUI")

	return cmd
}

func (a *app) runHistory(cmd *cobra.Command, plain bool) error {
	load := func() ([]*audit.Record, error) {
		return audit.LoadAll(a.sessionsDir())
	}

	records, err := load()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if plain {
		printHistory(cmd.OutOrStdout(), records)
		return nil
	}

	p := tea.NewProgram(tui.NewModelWithLoader(records, load), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func printHistory(out io.Writer, records []*audit.Record) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No commands recorded yet.")
		return
	}
	for _, rec := range records {
		fmt.Fprintf(out, "%s  %-13s %4d  %s\n",
			rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.Status, rec.ExitCode, rec.Command)
	}
}
