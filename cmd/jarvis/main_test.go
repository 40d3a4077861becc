package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Lin-Jiong-HDU/jarvis/internal/storage"
)

// runJarvis executes the command tree with a config file under dir
func runJarvis(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", filepath.Join(dir, "config.yaml")}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := newRootCommand()

	if cmd.Use != "jarvis" {
		t.Errorf("Expected command name 'jarvis', got '%s'", cmd.Use)
	}
	if cmd.RunE == nil {
		t.Error("Expected root command to listen by default")
	}

	for _, name := range []string{"listen", "ask", "check", "history", "config"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			if err != nil {
				t.Fatalf("Find(%q) failed: %v", name, err)
			}
			if sub.Name() != name {
				t.Errorf("Expected subcommand '%s', got '%s'", name, sub.Name())
			}
			if sub.Short == "" {
				t.Error("Expected command to have a short description")
			}
		})
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	cmd := newRootCommand()

	for _, name := range []string{"config", "debug", "log-level", "log-json"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected --%s flag to exist", name)
		}
	}
}

func TestRootCommand_RejectsUnknownArgs(t *testing.T) {
	if _, err := runJarvis(t, t.TempDir(), "", "bogus"); err == nil {
		t.Error("Expected error for unknown command")
	}
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := storage.DefaultConfig()
	cfg.Security.MaxExecutionTime = 0
	if err := storage.SaveConfig(cfg, filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatal(err)
	}

	if _, err := runJarvis(t, dir, "", "check", "ls"); err == nil {
		t.Error("Expected invalid config to be rejected")
	}
}
