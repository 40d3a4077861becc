package security

import (
	"sync"
	"testing"
)

func testPolicy() *Policy {
	return &Policy{
		AllowedCommands:   []string{"ls", "cat", "echo", "sleep", "Uptime"},
		ForbiddenPatterns: []string{"sudo", "rm -rf", "passwd", "CHMOD 777"},
		MaxExecutionTime:  5,
		MaxOutputSize:     1000,
	}
}

func TestValidate(t *testing.T) {
	policy := testPolicy()

	tests := []struct {
		name    string
		command string
		allowed bool
	}{
		{name: "allowed base command", command: "ls -la", allowed: true},
		{name: "allowed without args", command: "ls", allowed: true},
		{name: "allowed base uppercase input", command: "LS -la", allowed: true},
		{name: "allow-list entry compared case-insensitively", command: "uptime", allowed: true},
		{name: "not whitelisted", command: "reboot", allowed: false},
		{name: "prefix of allowed command is not allowed", command: "lsblk", allowed: false},
		{name: "forbidden base command", command: "sudo ls", allowed: false},
		{name: "forbidden pattern in arguments", command: "ls && sudo reboot", allowed: false},
		{name: "forbidden pattern mixed case", command: "ls SuDo", allowed: false},
		{name: "forbidden multi-word pattern", command: "echo rm -rf /", allowed: false},
		{name: "uppercase pattern matches lowercase command", command: "echo chmod 777 x", allowed: false},
		{name: "substring false positive is still blocked", command: "cat sudoers-notes.txt", allowed: false},
		{name: "empty command", command: "", allowed: false},
		{name: "whitespace only", command: "   \t ", allowed: false},
		{name: "arguments unrestricted", command: "cat /etc/hosts", allowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(tt.command, policy); got != tt.allowed {
				t.Errorf("Validate(%q) = %v, want %v", tt.command, got, tt.allowed)
			}
		})
	}
}

func TestValidate_NilPolicy(t *testing.T) {
	if Validate("ls", nil) {
		t.Error("Expected nil policy to reject everything")
	}
}

func TestValidate_EmptyPatternIgnored(t *testing.T) {
	policy := testPolicy()
	policy.ForbiddenPatterns = append(policy.ForbiddenPatterns, "")

	if !Validate("ls", policy) {
		t.Error("Expected empty forbidden pattern to be ignored")
	}
}

func TestValidator_UsesCurrentSnapshot(t *testing.T) {
	store := NewPolicyStore(testPolicy())
	v := NewValidator(store, nil)

	if v.Validate(NewCommand("pwd")) {
		t.Fatal("pwd should not be allowed by the test policy")
	}

	updated := testPolicy()
	updated.AllowedCommands = append(updated.AllowedCommands, "pwd")
	store.Store(updated)

	if !v.Validate(NewCommand("pwd")) {
		t.Error("Expected reloaded policy to allow pwd")
	}
}

func TestValidator_ValidateWithSnapshot(t *testing.T) {
	v := NewValidator(NewPolicyStore(testPolicy()), nil)

	snapshot := testPolicy()
	snapshot.AllowedCommands = []string{"pwd"}

	if !v.ValidateWith(NewCommand("pwd"), snapshot) {
		t.Error("Expected the supplied snapshot to allow pwd")
	}
	if v.ValidateWith(NewCommand("ls"), snapshot) {
		t.Error("Expected the supplied snapshot, not the store, to decide")
	}
	if v.ValidateWith(NewCommand("ls"), nil) {
		t.Error("Expected nil snapshot to block")
	}
}

func TestValidator_SanitizedCommand(t *testing.T) {
	v := NewValidator(NewPolicyStore(testPolicy()), nil)

	// Sanitization removes "&&" but the sudo pattern still blocks.
	if v.Validate(NewCommand("ls && sudo reboot")) {
		t.Error("Expected chained sudo to be blocked")
	}
	if !v.Validate(NewCommand("ls; ")) {
		t.Error("Expected trailing metacharacter to be stripped and ls allowed")
	}
}

func TestPolicyStore_CopiesOnStore(t *testing.T) {
	p := testPolicy()
	store := NewPolicyStore(p)

	p.AllowedCommands[0] = "rm"
	if store.Load().AllowedCommands[0] != "ls" {
		t.Error("Expected store to hold its own copy of the policy")
	}
}

func TestPolicyStore_NilStoresDefault(t *testing.T) {
	store := NewPolicyStore(nil)
	if store.Load().MaxExecutionTime != DefaultPolicy().MaxExecutionTime {
		t.Error("Expected default policy for nil input")
	}
}

func TestPolicyStore_ConcurrentReload(t *testing.T) {
	store := NewPolicyStore(testPolicy())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Store(DefaultPolicy())
		}()
		go func() {
			defer wg.Done()
			p := store.Load()
			if p == nil || len(p.AllowedCommands) == 0 {
				t.Error("Expected a complete snapshot")
			}
		}()
	}
	wg.Wait()
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	if p.MaxExecutionTime != 30 {
		t.Errorf("Expected 30s limit, got %d", p.MaxExecutionTime)
	}
	if p.MaxOutputSize != 10000 {
		t.Errorf("Expected 10000 byte cap, got %d", p.MaxOutputSize)
	}
	if p.Timeout().Seconds() != 30 {
		t.Errorf("Timeout() = %v", p.Timeout())
	}
	if !Validate("ls -la", p) {
		t.Error("Expected ls to be allowed by default")
	}
	if Validate("run sudo rm -rf /", p) {
		t.Error("Expected sudo to be blocked by default")
	}
}
