package security

import (
	"sync/atomic"
	"time"
)

// Policy defines which system commands may run and under what bounds.
type Policy struct {
	// AllowedCommands holds base commands matched exactly against the first token.
	AllowedCommands []string `mapstructure:"allowed_commands"`

	// ForbiddenPatterns are matched as substrings anywhere in the command.
	ForbiddenPatterns []string `mapstructure:"forbidden_patterns"`

	// MaxExecutionTime is the wall-clock limit in seconds.
	MaxExecutionTime int `mapstructure:"max_execution_time"`

	// MaxOutputSize caps captured stdout in bytes.
	MaxOutputSize int `mapstructure:"max_output_size"`

	// WorkDir is the directory every command runs in. "~" means the user's home.
	WorkDir string `mapstructure:"work_dir"`
}

// DefaultPolicy returns the built-in policy.
func DefaultPolicy() *Policy {
	return &Policy{
		AllowedCommands: []string{
			"ls", "pwd", "cat", "head", "tail", "grep", "find", "wc",
			"ps", "top", "df", "free", "uptime", "uname", "whoami",
			"ping", "curl", "wget", "traceroute",
			"git", "python3", "pip3", "node", "npm",
		},
		ForbiddenPatterns: []string{
			"sudo", "su", "chmod 777", "rm -rf", "mkfs", "fdisk",
			"passwd", "useradd", "userdel", "systemctl", "service",
		},
		MaxExecutionTime: 30,
		MaxOutputSize:    10000,
		WorkDir:          "~",
	}
}

// Timeout returns MaxExecutionTime as a duration.
func (p *Policy) Timeout() time.Duration {
	return time.Duration(p.MaxExecutionTime) * time.Second
}

// Clone returns a deep copy so callers can't mutate a published snapshot.
func (p *Policy) Clone() *Policy {
	c := *p
	c.AllowedCommands = append([]string(nil), p.AllowedCommands...)
	c.ForbiddenPatterns = append([]string(nil), p.ForbiddenPatterns...)
	return &c
}

// PolicyStore publishes immutable policy snapshots. A reload swaps the
// whole snapshot so readers never observe a half-updated policy.
type PolicyStore struct {
	current atomic.Pointer[Policy]
}

// NewPolicyStore creates a store holding a copy of p.
func NewPolicyStore(p *Policy) *PolicyStore {
	s := &PolicyStore{}
	s.Store(p)
	return s
}

// Load returns the current snapshot. Callers must treat it as read-only.
func (s *PolicyStore) Load() *Policy {
	return s.current.Load()
}

// Store publishes a copy of p.
func (s *PolicyStore) Store(p *Policy) {
	if p == nil {
		p = DefaultPolicy()
	}
	s.current.Store(p.Clone())
}
