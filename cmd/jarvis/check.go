package main

import (
	"fmt"
	"strings"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core/security"
	"github.com/spf13/cobra"
)

// getCheckCommand returns the check command
func getCheckCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <command>",
		Short: "Check a command against the security policy",
		Long: `Sanitize a command and report whether the security policy admits it.
The command is never executed.

Example:
  jarvis check ls -la
  jarvis check rm -rf /tmp`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, strings.Join(args, " "))
		},
	}

	cmd.Flags().SetInterspersed(false)

	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, raw string) error {
	command := security.NewCommand(raw)
	validator := security.NewValidator(security.NewPolicyStore(a.cfg.Policy()), a.log)

	verdict := "blocked"
	if validator.Validate(command) {
		verdict = "allowed"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Command: %s\n", command.String())
	fmt.Fprintf(out, "Verdict: %s\n", verdict)
	return nil
}
