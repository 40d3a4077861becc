package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestGetConfigDir(t *testing.T) {
	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir failed: %v", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("Failed to get home dir: %v", err)
	}

	expected := filepath.Join(home, JarvisDirName)
	if dir != expected {
		t.Errorf("Expected %s, got %s", expected, dir)
	}
}

func TestInitConfig_Defaults(t *testing.T) {
	cfg, err := InitConfig(ConfigPath(t.TempDir()))
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}

	if cfg.General.WakeWord != "jarvis" {
		t.Errorf("Expected wake word 'jarvis', got '%s'", cfg.General.WakeWord)
	}
	if cfg.Security.MaxExecutionTime != 30 {
		t.Errorf("Expected max_execution_time 30, got %d", cfg.Security.MaxExecutionTime)
	}
	if cfg.Security.MaxOutputSize != 10000 {
		t.Errorf("Expected max_output_size 10000, got %d", cfg.Security.MaxOutputSize)
	}
	if len(cfg.Security.AllowedCommands) == 0 {
		t.Error("Expected default allowed commands")
	}
	if cfg.Lookup.Timeout != 10*time.Second {
		t.Errorf("Expected lookup timeout 10s, got %v", cfg.Lookup.Timeout)
	}
	if cfg.Lookup.CacheTTL != 10*time.Minute {
		t.Errorf("Expected cache ttl 10m, got %v", cfg.Lookup.CacheTTL)
	}
	if !cfg.Features.WebSearch || !cfg.Features.Wikipedia {
		t.Error("Expected online features enabled by default")
	}
}

func TestInitConfig_File(t *testing.T) {
	path := ConfigPath(t.TempDir())
	content := `general:
  wake_word: friday
security:
  allowed_commands: [ls, pwd]
  max_execution_time: 5
lookup:
  timeout: 3s
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}

	if cfg.General.WakeWord != "friday" {
		t.Errorf("Expected wake word 'friday', got '%s'", cfg.General.WakeWord)
	}
	if len(cfg.Security.AllowedCommands) != 2 {
		t.Errorf("Expected 2 allowed commands, got %v", cfg.Security.AllowedCommands)
	}
	if cfg.Security.MaxExecutionTime != 5 {
		t.Errorf("Expected max_execution_time 5, got %d", cfg.Security.MaxExecutionTime)
	}
	if cfg.Security.MaxOutputSize != 10000 {
		t.Errorf("Expected default max_output_size, got %d", cfg.Security.MaxOutputSize)
	}
	if cfg.Lookup.Timeout != 3*time.Second {
		t.Errorf("Expected lookup timeout 3s, got %v", cfg.Lookup.Timeout)
	}
}

func TestInitConfig_Env(t *testing.T) {
	t.Setenv("JARVIS_GENERAL_WAKE_WORD", "computer")
	t.Setenv("JARVIS_SECURITY_MAX_OUTPUT_SIZE", "512")

	cfg, err := InitConfig(ConfigPath(t.TempDir()))
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}

	if cfg.General.WakeWord != "computer" {
		t.Errorf("Expected wake word from env, got '%s'", cfg.General.WakeWord)
	}
	if cfg.Security.MaxOutputSize != 512 {
		t.Errorf("Expected max_output_size from env, got %d", cfg.Security.MaxOutputSize)
	}
}

func TestInitConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed yaml", content: "general: [unterminated"},
		{name: "zero timeout", content: "security:\n  max_execution_time: 0\n"},
		{name: "negative output cap", content: "security:\n  max_output_size: -1\n"},
		{name: "blank wake word", content: "general:\n  wake_word: \"  \"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := ConfigPath(t.TempDir())
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := InitConfig(path); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := ConfigPath(filepath.Join(t.TempDir(), "nested"))

	cfg := DefaultConfig()
	cfg.General.WakeWord = "friday"
	cfg.Security.AllowedCommands = []string{"ls"}
	cfg.Lookup.CacheTTL = time.Minute

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Config file was not created: %v", err)
	}

	loaded, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}
	if loaded.General.WakeWord != "friday" {
		t.Errorf("Expected wake word 'friday', got '%s'", loaded.General.WakeWord)
	}
	if len(loaded.Security.AllowedCommands) != 1 || loaded.Security.AllowedCommands[0] != "ls" {
		t.Errorf("Expected [ls], got %v", loaded.Security.AllowedCommands)
	}
	if loaded.Lookup.CacheTTL != time.Minute {
		t.Errorf("Expected cache ttl 1m, got %v", loaded.Lookup.CacheTTL)
	}
}

func TestSettings_Sorted(t *testing.T) {
	settings := Settings(DefaultConfig())
	if len(settings) == 0 {
		t.Fatal("Expected settings")
	}
	for i := 1; i < len(settings); i++ {
		if settings[i-1].Key >= settings[i].Key {
			t.Fatalf("Settings not sorted: %q before %q", settings[i-1].Key, settings[i].Key)
		}
	}

	found := false
	for _, s := range settings {
		if s.Key == "general.wake_word" {
			found = true
			if s.Value != "jarvis" {
				t.Errorf("Expected wake word 'jarvis', got %v", s.Value)
			}
		}
	}
	if !found {
		t.Error("Expected general.wake_word setting")
	}
}

func TestConfig_PolicyIsCopy(t *testing.T) {
	cfg := DefaultConfig()
	p := cfg.Policy()
	p.AllowedCommands[0] = "rm"

	if cfg.Security.AllowedCommands[0] == "rm" {
		t.Error("Expected Policy() to return an independent copy")
	}
}

func TestWatchConfig_Reload(t *testing.T) {
	path := ConfigPath(t.TempDir())
	if err := SaveConfig(DefaultConfig(), path); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 64)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, path, func(cfg *Config, _ fsnotify.Event) {
			select {
			case reloaded <- cfg:
			default:
			}
		}, nil)
	}()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)

	cfg := DefaultConfig()
	cfg.Security.AllowedCommands = []string{"pwd"}
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatal(err)
	}

	// Writes may be observed mid-way, so wait for the final content.
	deadline := time.After(5 * time.Second)
	for found := false; !found; {
		select {
		case got := <-reloaded:
			found = len(got.Security.AllowedCommands) == 1 && got.Security.AllowedCommands[0] == "pwd"
		case <-deadline:
			t.Fatal("Timed out waiting for reload")
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("WatchConfig returned %v", err)
	}
}

func TestEventMatchesFile(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "write", event: fsnotify.Event{Name: "/a/config.yaml", Op: fsnotify.Write}, want: true},
		{name: "create", event: fsnotify.Event{Name: "/a/config.yaml", Op: fsnotify.Create}, want: true},
		{name: "chmod", event: fsnotify.Event{Name: "/a/config.yaml", Op: fsnotify.Chmod}, want: false},
		{name: "other file", event: fsnotify.Event{Name: "/a/other.yaml", Op: fsnotify.Write}, want: false},
		{name: "empty", event: fsnotify.Event{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eventMatchesFile(tt.event, "/a/config.yaml"); got != tt.want {
				t.Errorf("eventMatchesFile() = %v, want %v", got, tt.want)
			}
		})
	}
}
