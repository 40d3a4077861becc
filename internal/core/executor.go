package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core/security"
	"github.com/Lin-Jiong-HDU/jarvis/internal/logger"
)

// TruncationMarker is appended to stdout cut at the policy's output cap.
const TruncationMarker = "\n... (output truncated)"

// waitDelay bounds how long Wait blocks on pipes held open by grandchildren
// after the child itself has been killed.
const waitDelay = 2 * time.Second

// Status is the outcome of a command execution request
type Status string

const (
	StatusSuccess      Status = "success"
	StatusBlocked      Status = "blocked"
	StatusTimedOut     Status = "timed_out"
	StatusNotFound     Status = "not_found"
	StatusFailed       Status = "failed"
	StatusRuntimeError Status = "runtime_error"
)

// ExecutionResult represents command execution result
type ExecutionResult struct {
	Status    Status
	Stdout    string
	Stderr    string
	ExitCode  int
	Truncated bool
	Duration  time.Duration
}

// Blocked returns the result reported for a command the policy rejected.
func Blocked() *ExecutionResult {
	return &ExecutionResult{Status: StatusBlocked, ExitCode: -1}
}

// Executor handles command execution
type Executor struct {
	workDir string
	log     logger.Logger
}

// NewExecutor creates an executor pinned to workDir. "~" and "" resolve to
// the user's home directory, which must exist.
func NewExecutor(workDir string, log logger.Logger) (*Executor, error) {
	dir, err := ResolveWorkDir(workDir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid work dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("invalid work dir: %s is not a directory", dir)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Executor{
		workDir: dir,
		log:     log.With("component", "executor"),
	}, nil
}

// WorkDir returns the directory commands run in.
func (e *Executor) WorkDir() string {
	return e.workDir
}

// Execute runs cmd without a shell and returns the result. The caller must
// have validated cmd against policy; Execute does not check again.
func (e *Executor) Execute(ctx context.Context, cmd security.Command, policy *security.Policy) *ExecutionResult {
	argv := cmd.Argv()
	if len(argv) == 0 {
		return &ExecutionResult{Status: StatusRuntimeError, ExitCode: -1, Stderr: "empty command"}
	}

	runCtx := ctx
	if timeout := policy.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	execCmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	execCmd.Dir = e.workDir
	execCmd.WaitDelay = waitDelay
	configureProcessGroup(execCmd)

	stdout := &limitedBuffer{limit: policy.MaxOutputSize}
	var stderr bytes.Buffer
	execCmd.Stdout = stdout
	execCmd.Stderr = &stderr

	start := time.Now()
	err := execCmd.Run()
	duration := time.Since(start)

	result := &ExecutionResult{
		Stdout:    strings.TrimSpace(stdout.String()),
		Stderr:    strings.TrimSpace(stderr.String()),
		Truncated: stdout.truncated,
		Duration:  duration,
	}
	if result.Truncated {
		result.Stdout += TruncationMarker
	}

	switch {
	case err == nil:
		result.Status = StatusSuccess
		e.log.Info("command executed", "command", cmd.String(), "duration", duration)

	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		result.Status = StatusTimedOut
		result.ExitCode = -1
		e.log.Warn("command timed out", "command", cmd.String(), "timeout", policy.Timeout())

	case ctx.Err() != nil:
		result.Status = StatusRuntimeError
		result.ExitCode = -1
		result.Stderr = joinNonEmpty(result.Stderr, fmt.Sprintf("interrupted: %v", ctx.Err()))
		e.log.Warn("command interrupted", "command", cmd.String(), "err", ctx.Err())

	case isNotFound(err, execCmd.Path):
		result.Status = StatusNotFound
		result.ExitCode = -1
		e.log.Warn("command not found", "command", argv[0])

	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.Status = StatusFailed
			result.ExitCode = exitErr.ExitCode()
			e.log.Info("command failed", "command", cmd.String(), "exit_code", result.ExitCode)
		} else {
			result.Status = StatusRuntimeError
			result.ExitCode = -1
			result.Stderr = joinNonEmpty(result.Stderr, err.Error())
			e.log.Error("command execution error", "command", cmd.String(), "err", err)
		}
	}

	return result
}

// ResolveWorkDir expands "~" and makes dir absolute.
func ResolveWorkDir(dir string) (string, error) {
	if dir == "" || dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		if len(dir) > 2 {
			dir = filepath.Join(home, dir[2:])
		} else {
			dir = home
		}
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve work dir: %w", err)
	}
	return abs, nil
}

// isNotFound reports whether err means the program itself is missing. A
// missing work dir also surfaces as ENOENT but names the directory.
func isNotFound(err error, program string) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return errors.Is(execErr.Err, fs.ErrNotExist)
	}
	var pathErr *fs.PathError
	return errors.As(err, &pathErr) &&
		pathErr.Op != "chdir" &&
		pathErr.Path == program &&
		errors.Is(pathErr.Err, fs.ErrNotExist)
}

func joinNonEmpty(a, b string) string {
	if a == "" {
		return b
	}
	return a + "\n" + b
}

// limitedBuffer keeps the first limit bytes written and drops the rest.
type limitedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (l *limitedBuffer) Write(p []byte) (int, error) {
	if l.limit <= 0 {
		return l.buf.Write(p)
	}
	remaining := l.limit - l.buf.Len()
	if remaining <= 0 {
		if len(p) > 0 {
			l.truncated = true
		}
		return len(p), nil
	}
	if len(p) > remaining {
		l.truncated = true
		_, _ = l.buf.Write(p[:remaining])
		return len(p), nil
	}
	return l.buf.Write(p)
}

// String returns the captured bytes, dropping a rune split by the cap.
func (l *limitedBuffer) String() string {
	b := l.buf.Bytes()
	if l.truncated {
		for i := 0; i < utf8.UTFMax-1 && len(b) > 0; i++ {
			r, size := utf8.DecodeLastRune(b)
			if r != utf8.RuneError || size > 1 {
				break
			}
			b = b[:len(b)-1]
		}
	}
	return string(b)
}

var _ io.Writer = (*limitedBuffer)(nil)
