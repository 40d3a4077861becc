package audit

import (
	"time"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core"
	"github.com/Lin-Jiong-HDU/jarvis/internal/core/security"
	"github.com/google/uuid"
)

// FileName is the per-session audit file
const FileName = "audit.json"

// Record is one resolved system command request. Output is never stored.
type Record struct {
	ID         string      `json:"id"`
	SessionID  string      `json:"session_id"`
	Command    string      `json:"command"`
	Status     core.Status `json:"status"`
	ExitCode   int         `json:"exit_code"`
	Truncated  bool        `json:"truncated"`
	DurationMS int64       `json:"duration_ms"`
	CreatedAt  time.Time   `json:"created_at"`
}

// NewRecord creates a record for a command and its result
func NewRecord(sessionID string, cmd security.Command, result *core.ExecutionResult) *Record {
	r := &Record{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Command:   cmd.String(),
		CreatedAt: time.Now(),
	}
	if result != nil {
		r.Status = result.Status
		r.ExitCode = result.ExitCode
		r.Truncated = result.Truncated
		r.DurationMS = result.Duration.Milliseconds()
	}
	return r
}

// Succeeded reports whether the command ran and exited zero
func (r *Record) Succeeded() bool {
	return r.Status == core.StatusSuccess
}
