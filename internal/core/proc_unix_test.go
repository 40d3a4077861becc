//go:build linux

package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core/security"
	"golang.org/x/sys/unix"
)

// processGone reports whether pid has exited. A zombie counts as gone
// because it no longer runs.
func processGone(pid int) bool {
	if err := unix.Kill(pid, 0); errors.Is(err, unix.ESRCH) {
		return true
	}
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	if err != nil {
		return true
	}
	// The state follows the parenthesised command name.
	stat := string(data)
	if i := strings.LastIndexByte(stat, ')'); i >= 0 && i+2 < len(stat) {
		return stat[i+2] == 'Z'
	}
	return false
}

func TestExecute_TimeoutKillsProcessGroup(t *testing.T) {
	dir := t.TempDir()
	script := "sleep 30 &\necho $! > child.pid\nwait\n"
	if err := os.WriteFile(filepath.Join(dir, "spawn.sh"), []byte(script), 0644); err != nil {
		t.Fatal(err)
	}
	executor, err := NewExecutor(dir, nil)
	if err != nil {
		t.Fatalf("NewExecutor failed: %v", err)
	}
	policy := testPolicy()
	policy.MaxExecutionTime = 1

	result := executor.Execute(context.Background(), security.NewCommand("sh spawn.sh"), policy)
	if result.Status != StatusTimedOut {
		t.Fatalf("Expected timed_out, got %s (stderr: %s)", result.Status, result.Stderr)
	}

	data, err := os.ReadFile(filepath.Join(dir, "child.pid"))
	if err != nil {
		t.Fatalf("Expected background pid file: %v", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		t.Fatalf("Invalid pid %q: %v", data, err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for !processGone(pid) {
		if time.Now().After(deadline) {
			_ = unix.Kill(pid, unix.SIGKILL)
			t.Fatalf("Background process %d outlived the timeout", pid)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
