package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core"
	"github.com/Lin-Jiong-HDU/jarvis/internal/core/audit"
	"github.com/Lin-Jiong-HDU/jarvis/internal/core/intent"
	"github.com/Lin-Jiong-HDU/jarvis/internal/core/security"
	"github.com/Lin-Jiong-HDU/jarvis/internal/storage"
	"github.com/spf13/cobra"
)

// getAskCommand returns the ask command
func getAskCommand(a *app) *cobra.Command {
	var speak bool

	cmd := &cobra.Command{
		Use:   "ask <utterance>",
		Short: "Answer a single utterance",
		Long: `Answer a single utterance and exit. The wake word is added when the
utterance does not already contain it.

Example:
  jarvis ask what time is it
  jarvis ask run ls -la`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAsk(cmd, strings.Join(args, " "), speak)
		},
	}

	cmd.Flags().SetInterspersed(false)
	cmd.Flags().BoolVar(&speak, "speak", false, "also speak the response")

	return cmd
}

func (a *app) runAsk(cmd *cobra.Command, text string, speak bool) error {
	wake := a.cfg.General.WakeWord
	if _, ok := intent.StripWakeWord(text, wake); !ok {
		text = wake + " " + text
	}

	session, err := storage.NewSession(a.sessionsDir())
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	auditLog, err := audit.NewLog(session.Dir(), session.ID)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}

	engine, err := a.newEngine(security.NewPolicyStore(a.cfg.Policy()), auditLog)
	if err != nil {
		return err
	}

	channel := core.MultiChannel{a.newDisplay(cmd.OutOrStdout())}
	if speak {
		channel = append(channel, a.newSpeaker())
	}

	utt := core.Utterance{Text: text, At: time.Now()}
	if _, err := engine.Process(cmd.Context(), utt, channel); err != nil {
		return err
	}
	return nil
}
