package main

import (
	"strings"
	"testing"
)

func TestAskCommand(t *testing.T) {
	cmd := getAskCommand(&app{})
	if cmd.Use != "ask <utterance>" {
		t.Errorf("Expected command use 'ask <utterance>', got '%s'", cmd.Use)
	}
	if cmd.Flags().Lookup("speak") == nil {
		t.Error("Expected --speak flag to exist")
	}
	if cmd.Args == nil {
		t.Error("Expected ask command to validate args")
	}
}

func TestAsk(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "wake word added", args: []string{"what", "time", "is", "it"}, want: "The current time is"},
		{name: "wake word kept", args: []string{"jarvis", "what's", "the", "date"}, want: "Today is"},
		{name: "flags after command", args: []string{"run", "ls", "-la"}, want: "Command executed successfully."},
		{name: "blocked", args: []string{"run", "rm", "-rf", "/tmp/x"}, want: "Command not allowed for security reasons."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runJarvis(t, t.TempDir(), "", append([]string{"ask"}, tt.args...)...)
			if err != nil {
				t.Fatalf("ask failed: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.want, out)
			}
		})
	}
}

func TestAsk_RequiresUtterance(t *testing.T) {
	if _, err := runJarvis(t, t.TempDir(), "", "ask"); err == nil {
		t.Error("Expected error without an utterance")
	}
}
