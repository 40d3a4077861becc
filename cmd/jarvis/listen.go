package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core"
	"github.com/Lin-Jiong-HDU/jarvis/internal/core/audit"
	"github.com/Lin-Jiong-HDU/jarvis/internal/core/security"
	"github.com/Lin-Jiong-HDU/jarvis/internal/storage"
	"github.com/Lin-Jiong-HDU/jarvis/internal/terminal"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const listenPrompt = "You: "

// getListenCommand returns the listen command
func getListenCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Start an interactive session",
		Long: `Start an interactive session. Each line typed is one utterance; only
utterances that contain the wake word are answered.

Type /help for session commands, or say "<wake word> goodbye" to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runListen(cmd)
		},
	}
}

func (a *app) runListen(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := storage.NewSession(a.sessionsDir())
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	auditLog, err := audit.NewLog(session.Dir(), session.ID)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}

	policies := security.NewPolicyStore(a.cfg.Policy())
	engine, err := a.newEngine(policies, auditLog)
	if err != nil {
		return err
	}

	// Security policy changes apply to the next command without a restart.
	go func() {
		onReload := func(cfg *storage.Config, event fsnotify.Event) {
			policies.Store(cfg.Policy())
			a.log.Info("security policy reloaded", "event", event.Op.String())
		}
		if err := storage.WatchConfig(ctx, a.configPath, onReload, a.log); err != nil {
			a.log.Warn("config watch unavailable", "err", err)
		}
	}()

	a.log.Info("session started", "session", session.ID)

	out := cmd.OutOrStdout()
	channel := core.MultiChannel{a.newDisplay(out), a.newSpeaker()}
	listener := terminal.NewLineListener(cmd.InOrStdin(), out, listenPrompt)
	repl := terminal.NewREPL(engine, listener, channel, session, out, a.log)

	return repl.Run(ctx)
}
