package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Lin-Jiong-HDU/jarvis/internal/storage"
	"github.com/spf13/cobra"
)

// getConfigCommand returns the config command
func getConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigInit(cmd, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigShow(cmd)
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func (a *app) runConfigInit(cmd *cobra.Command, force bool) error {
	if _, err := os.Stat(a.configPath); err == nil && !force {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", a.configPath)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := storage.SaveConfig(storage.DefaultConfig(), a.configPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", a.configPath)
	return nil
}

func (a *app) runConfigShow(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", a.configPath)
	for _, s := range storage.Settings(a.cfg) {
		fmt.Fprintf(out, "%s = %v\n", s.Key, s.Value)
	}
	return nil
}
