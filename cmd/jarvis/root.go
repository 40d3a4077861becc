package main

import (
	"github.com/spf13/cobra"
)

// newRootCommand builds the jarvis command tree
func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "jarvis",
		Short: "Voice-style terminal assistant",
		Long: `jarvis - a terminal assistant that answers utterances addressed to it by
its wake word and runs whitelisted system commands under a security policy.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runListen(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.opts.configFile, "config", "", "config file (default ~/.jarvis/config.yaml)")
	flags.BoolVar(&a.opts.debug, "debug", false, "enable debug logging to stderr")
	flags.StringVar(&a.opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&a.opts.logJSON, "log-json", false, "write logs as JSON")

	rootCmd.AddCommand(
		getListenCommand(a),
		getAskCommand(a),
		getCheckCommand(a),
		getHistoryCommand(a),
		getConfigCommand(a),
	)

	return rootCmd
}
